package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrEmptyCart        = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be at least 1"}
	ErrInvalidPrice     = &Error{Code: EINVALID, Message: "Unit price must not be negative"}
)

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// AddItem adds a product to the cart or merges quantities if the SKU
	// is already present.
	AddItem(ctx context.Context, userID uuid.UUID, item CartItem) (*CartSummary, error)

	// SetQuantity sets the quantity of a cart line.
	// A quantity of 0 removes the line.
	SetQuantity(ctx context.Context, userID uuid.UUID, sku string, quantity int) (*CartSummary, error)

	// RemoveItem removes a line from the cart. Removing an absent SKU is a no-op.
	RemoveItem(ctx context.Context, userID uuid.UUID, sku string) (*CartSummary, error)

	// GetSummary retrieves the cart with per-line and total amounts.
	GetSummary(ctx context.Context, userID uuid.UUID) (*CartSummary, error)

	// Clear removes all lines from the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CartItem is one line of a cart. The price here is a display hint only;
// orders always re-resolve prices from the catalog at submission.
type CartItem struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// Validate checks the line invariants for a new or merged item.
func (i CartItem) Validate() error {
	if i.SKU == "" {
		return Invalid("cart.item", "sku is required")
	}
	if i.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if i.UnitPriceCents < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// LineSubtotal returns unit price times quantity for this line.
func (i CartItem) LineSubtotal() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// Cart is an ordered list of lines, one per SKU, insertion order preserved.
// All mutating methods keep the invariant that every line has quantity >= 1.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add merges the item into the cart: quantities sum when the SKU already
// has a line, otherwise the item is appended.
func (c *Cart) Add(item CartItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	for idx := range c.Items {
		if c.Items[idx].SKU == item.SKU {
			c.Items[idx].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity sets the quantity of the line with the given SKU.
// Zero removes the line; setting a positive quantity on a missing SKU fails.
func (c *Cart) SetQuantity(sku string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		c.Remove(sku)
		return nil
	}
	for idx := range c.Items {
		if c.Items[idx].SKU == sku {
			c.Items[idx].Quantity = quantity
			return nil
		}
	}
	return ErrCartItemNotFound
}

// Remove deletes the line with the given SKU. Absent SKUs are ignored.
func (c *Cart) Remove(sku string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.SKU != sku {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// SubtotalCents is the sum of line subtotals. It depends only on the lines.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineSubtotal()
	}
	return total
}

// SKUs returns the SKUs of all lines in cart order.
func (c *Cart) SKUs() []string {
	skus := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		skus = append(skus, item.SKU)
	}
	return skus
}

// CartLine is a cart item with its computed subtotal, for responses.
type CartLine struct {
	CartItem
	LineSubtotalCents int64 `json:"line_subtotal_cents"`
}

// CartSummary aggregates cart lines with calculated totals. CouponCode and
// DiscountCents are present once a coupon has been applied.
type CartSummary struct {
	Items         []CartLine `json:"items"`
	SubtotalCents int64      `json:"subtotal_cents"`
	ItemCount     int        `json:"item_count"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	DiscountCents int64      `json:"discount_cents,omitempty"`
}

// Summarize builds the response view of a cart.
func (c *Cart) Summarize() *CartSummary {
	summary := &CartSummary{Items: make([]CartLine, 0, len(c.Items))}
	for _, item := range c.Items {
		summary.Items = append(summary.Items, CartLine{
			CartItem:          item,
			LineSubtotalCents: item.LineSubtotal(),
		})
		summary.SubtotalCents += item.LineSubtotal()
		summary.ItemCount += item.Quantity
	}
	return summary
}

// String implements fmt.Stringer for log output.
func (c *Cart) String() string {
	return fmt.Sprintf("cart(%d lines, %d cents)", len(c.Items), c.SubtotalCents())
}
