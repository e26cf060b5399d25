package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

var ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}

// Product is a catalog entry. PriceCents is the authoritative price: order
// submission always reads it here, never from a cart.
type Product struct {
	ID         uuid.UUID `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CatalogService exposes the storefront catalog.
type CatalogService interface {
	// ListProducts returns enabled products, name ascending.
	ListProducts(ctx context.Context) ([]Product, error)

	// ResolvePrices looks up the given SKUs in one batch, enabled
	// products only. Every requested SKU must resolve; a missing one
	// fails the lookup and names the SKU.
	ResolvePrices(ctx context.Context, skus []string) (map[string]Product, error)
}
