package routes

import (
	"github.com/portomercado/porto/internal/middleware"
	"github.com/portomercado/porto/internal/router"
)

// RegisterAdminRoutes registers the operator routes. Every route requires an
// allow-listed operator; the services enforce the same rule again.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireOperator)

	admin.Get("/admin/orders", deps.OrderHandler.List)
	admin.Patch("/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)
}
