package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/garage-bay-booking/internal/handler"
	"github.com/iliyamo/garage-bay-booking/internal/middleware"
	"github.com/iliyamo/garage-bay-booking/internal/session"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health
// check for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic wires the guest-facing endpoints: booking creation and
// the read-only garage views.  The booking limiter guards the write
// path; the Redis cache fronts the two GET endpoints so availability
// polling stays cheap.
func RegisterPublic(e *echo.Echo, b *handler.BookingHandler, g *handler.GarageHandler, bookingLimiter, cache echo.MiddlewareFunc) {
	e.POST("/v1/bookings", b.Create, bookingLimiter)
	e.GET("/v1/garages", g.List, cache)
	e.GET("/v1/garages/:id/availability", g.Availability, cache)
}

// RegisterAdmin wires the admin surface.  The session endpoints are
// reachable without authentication (the POST is the way in, the GET is
// a probe); booking management sits behind the AdminSession middleware
// so every mutation requires a live session.  The admin limiter only
// guards the credential path.
func RegisterAdmin(e *echo.Echo, a *handler.AdminAuthHandler, ab *handler.AdminBookingHandler, sessions *session.Authority, adminLimiter echo.MiddlewareFunc) {
	e.POST("/v1/admin/session", a.Open, adminLimiter)
	e.GET("/v1/admin/session", a.Status)
	e.DELETE("/v1/admin/session", a.Close)

	g := e.Group("/v1/admin/bookings")
	g.Use(middleware.AdminSession(sessions))
	g.GET("", ab.List)
	g.PUT("/:id", ab.Update)
	g.DELETE("/:id", ab.Cancel)
}
