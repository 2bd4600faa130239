package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/franpass87/experience-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/franpass87/experience-booking/internal/middleware" // import middleware for sessions, JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication routes and their
// middleware.  Unauthenticated operations live under /v1/auth, while
// protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// No registration route: staff accounts are created through the admin
	// group, and the first admin is seeded from the environment at boot.
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body containing a `refresh_token` and
	// invalidates that token.  No JWT required.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the shopper-facing endpoints: availability
// browsing, price quotes, capacity holds and booking conversion.  Every
// route runs the session middleware so holds stay scoped to one shopper;
// the availability listing additionally sits behind the rate limiter
// because it is the hot path storefront calendars hammer.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, hd *handler.HoldHandler, bk *handler.BookingHandler, cat *handler.CatalogHandler, limiter echo.MiddlewareFunc) {
	pub := e.Group("/v1", middleware.EnsureSession())

	pub.GET("/products/:id", cat.GetProduct)
	pub.GET("/meeting-points", cat.ListMeetingPoints)
	pub.GET("/meeting-points/:id", cat.GetMeetingPoint)

	pub.GET("/products/:id/availability", av.GetDay, limiter)
	pub.GET("/products/:id/quote", av.GetQuote, limiter)

	pub.POST("/holds", hd.Create)
	pub.DELETE("/holds", hd.Release)

	pub.POST("/bookings", bk.Create)
}

// RegisterAdmin registers the staff endpoints: schedule, override and
// price rule management plus the booking manifest.  Everything in this
// group requires a valid access token with the ADMIN or STAFF role.
func RegisterAdmin(e *echo.Echo, jwtSecret string, au *handler.AuthHandler, sc *handler.AdminScheduleHandler, ov *handler.AdminOverrideHandler, pr *handler.AdminPricingHandler, bk *handler.BookingHandler, ca *handler.AdminCacheHandler) {
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN", "STAFF"))

	// Account creation is ADMIN-only; the route-level check tightens the
	// group-level ADMIN/STAFF guard.
	admin.POST("/users", au.CreateUser, middleware.RequireRole("ADMIN"))

	admin.GET("/schedules", sc.List)
	admin.POST("/schedules", sc.Create)
	admin.PUT("/schedules/:id", sc.Update)
	admin.DELETE("/schedules/:id", sc.Deactivate)

	admin.GET("/overrides", ov.List)
	admin.PUT("/overrides", ov.Save)
	admin.DELETE("/overrides", ov.Delete)

	admin.GET("/price-rules", pr.List)
	admin.POST("/price-rules", pr.Create)
	admin.PUT("/price-rules/:id", pr.Update)
	admin.DELETE("/price-rules/:id", pr.Delete)

	admin.GET("/bookings", bk.List)
	admin.GET("/bookings/:id", bk.Get)
	admin.PATCH("/bookings/:id/status", bk.UpdateStatus)

	admin.POST("/cache/clear", ca.Clear)
}
