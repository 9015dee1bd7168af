package server

import (
	"github.com/go-chi/chi/v5"

	"pharmacy-dashboard/internal/handlers"
)

// HandlerWrappers groups the HTTP handlers mounted by the router
type HandlerWrappers struct {
	dashboardHandler *handlers.DashboardHandler
	healthHandler    *handlers.HealthHandler
	adminHandler     *handlers.AdminHandler
	staticHandler    *handlers.StaticHandler
}

// NewHandlerWrappers creates new handler wrappers
func NewHandlerWrappers(dashboard *handlers.DashboardHandler, health *handlers.HealthHandler, admin *handlers.AdminHandler, static *handlers.StaticHandler) *HandlerWrappers {
	return &HandlerWrappers{
		dashboardHandler: dashboard,
		healthHandler:    health,
		adminHandler:     admin,
		staticHandler:    static,
	}
}

// RegisterChiRoutes registers all routes with a chi router. loginLimit
// wraps the login action only; nil disables it.
func (hw *HandlerWrappers) RegisterChiRoutes(r chi.Router, loginLimit Middleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ContentTypeMiddleware)
		r.Get("/health", hw.healthHandler.HealthCheck)
		r.Get("/dashboard", hw.dashboardHandler.State)
		r.Post("/admin/cache/metadata/invalidate", hw.adminHandler.InvalidateMetadata)
	})

	r.Get("/", hw.dashboardHandler.Index)
	r.Group(func(r chi.Router) {
		if loginLimit != nil {
			r.Use(loginLimit)
		}
		r.Post("/login", hw.dashboardHandler.Login)
	})
	r.Post("/filters/apply", hw.dashboardHandler.ApplyFilters)
	r.Post("/filters/reset", hw.dashboardHandler.ResetFilters)
	r.Post("/logout", hw.dashboardHandler.Logout)

	r.Handle("/static/*", hw.staticHandler)
}
