package routes

import (
	"github.com/portomercado/porto/internal/middleware"
	"github.com/portomercado/porto/internal/router"
)

// RegisterStorefrontRoutes registers the customer-facing routes.
// The catalog is public; everything touching a cart or an order requires a
// session token.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Public catalog
	r.Get("/products", deps.ProductHandler.List)

	// Everything below acts on the caller's own data.
	account := r.Group(middleware.RequireAuth)

	account.Get("/profile", deps.ProfileHandler.Get)
	account.Get("/addresses", deps.AddressHandler.List)

	// Shopping cart
	account.Get("/cart", deps.CartHandler.View)
	account.Delete("/cart", deps.CartHandler.Clear)
	account.Post("/cart/items", deps.CartHandler.AddItem)
	account.Patch("/cart/items/{sku}", deps.CartHandler.SetQuantity)
	account.Delete("/cart/items/{sku}", deps.CartHandler.RemoveItem)
	account.Post("/cart/coupon", deps.CartHandler.ApplyCoupon)
	account.Delete("/cart/coupon", deps.CartHandler.RemoveCoupon)

	// Checkout snapshot
	account.Post("/checkout", deps.CheckoutHandler.Begin)
	account.Get("/checkout", deps.CheckoutHandler.Peek)
	account.Delete("/checkout", deps.CheckoutHandler.Abandon)

	// Orders. Submission gets a stricter rate limit than browsing.
	submitLimit := middleware.RateLimit(middleware.SubmitRateLimiterConfig())
	account.Post("/orders", deps.OrderHandler.Submit, submitLimit)
	account.Get("/orders", deps.OrderHandler.List)
	account.Get("/orders/{id}", deps.OrderHandler.Get)
}
