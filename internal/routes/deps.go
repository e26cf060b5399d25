// Package routes wires handlers onto the router.
package routes

import (
	"github.com/portomercado/porto/internal/handler/admin"
	"github.com/portomercado/porto/internal/handler/storefront"
)

// StorefrontDeps contains handlers for the customer-facing routes.
type StorefrontDeps struct {
	// Catalog
	ProductHandler *storefront.ProductHandler

	// Cart and coupon
	CartHandler *storefront.CartHandler

	// Checkout snapshot
	CheckoutHandler *storefront.CheckoutHandler

	// Orders
	OrderHandler *storefront.OrderHandler

	// Account surface (read only)
	AddressHandler *storefront.AddressHandler
	ProfileHandler *storefront.ProfileHandler
}

// AdminDeps contains handlers for the operator routes.
type AdminDeps struct {
	OrderHandler *admin.OrderHandler
}
