package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrAddressNotFound = &Error{Code: ENOTFOUND, Message: "Address not found"}

// Address is a customer delivery address. Addresses are managed out of
// band; checkout only selects among the customer's existing ones.
type Address struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	Complement string    `json:"complement,omitempty"`
	District   string    `json:"district"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	CEP        string    `json:"cep"`
	CreatedAt  time.Time `json:"created_at"`
}

// Line returns the address as a single display line.
func (a Address) Line() string {
	line := fmt.Sprintf("%s, %s", a.Street, a.Number)
	if a.Complement != "" {
		line += " - " + a.Complement
	}
	return fmt.Sprintf("%s, %s, %s - %s, %s", line, a.District, a.City, a.State, a.CEP)
}

// AddressService lists and resolves customer addresses for checkout.
type AddressService interface {
	// ListForUser returns the customer's addresses, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Address, error)

	// GetOwned resolves an address and verifies it belongs to the
	// customer. A foreign address yields ErrAddressNotOwned.
	GetOwned(ctx context.Context, userID, addressID uuid.UUID) (*Address, error)
}
