package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/hotel-room-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/hotel-room-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify the service
	// is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated guest-facing routes: the
// availability queries used while browsing and the payment gateway's
// callback webhook.  The gateway does not authenticate; it correlates
// deliveries by tx_ref.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, pay *handler.PaymentHandler) {
	// Availability snapshots per room type for a date range.
	e.GET("/v1/hotels/:id/availability", av.Query)
	// Disabled check-in dates for greying out a date picker.
	e.GET("/v1/hotels/:id/availability/disabled-check-in", av.DisabledCheckIn)
	// Disabled checkout dates once a check-in is chosen.
	e.GET("/v1/hotels/:id/availability/disabled-check-out", av.DisabledCheckOut)
	// Gateway webhook for asynchronous payment outcomes.
	e.POST("/v1/payments/callback", pay.Callback)
}

// RegisterPayments registers the authenticated payment intent routes.
// Both customers and staff can start a checkout and poll its status; the
// guest identity is always taken from the bearer token.
func RegisterPayments(e *echo.Echo, pay *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1/payments")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER", "STAFF"))
	// Create a payment intent and receive the hosted checkout URL.
	g.POST("/intent", pay.CreateIntent)
	// Poll the reconciliation status of an intent by correlation reference.
	g.GET("/:tx_ref/status", pay.Poll)
}

// RegisterReservations registers the staff-only reservation routes:
// walk-in creation, listing, edits, lifecycle transitions and the intent
// expiry sweep hook.
func RegisterReservations(e *echo.Echo, res *handler.ReservationHandler, pay *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("STAFF"))
	// Record a walk-in booking; the allocator picks the room when only a
	// type is given.
	g.POST("", res.Create)
	g.GET("", res.List)
	g.GET("/:id", res.Get)
	g.PATCH("/:id", res.Edit)
	// Lifecycle transitions.  Illegal edges are rejected with 409.
	g.POST("/:id/confirm", res.Confirm)
	g.POST("/:id/check-in", res.CheckIn)
	g.POST("/:id/check-out", res.CheckOut)
	g.POST("/:id/cancel", res.Cancel)

	// Intent expiry lives with the staff surface, not the public one.
	staff := e.Group("/v1/payments")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole("STAFF"))
	staff.POST("/:tx_ref/expire", pay.Expire)
}
