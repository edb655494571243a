package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/model"
)

// Deps carries everything the route table needs.  Redis may be nil, in
// which case caching and rate limiting are disabled.
type Deps struct {
	DB         handler.Pinger
	Auth       *handler.AuthHandler
	Booking    *handler.BookingHandler
	Catalog    *handler.CatalogHandler
	JWTSecret  string
	Redis      *redis.Client
	Cache      config.CacheConfig
	BookLimit  config.RateLimitConfig
	LoginLimit config.RateLimitConfig
}

// Register wires every route of the API onto e.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e, d.DB)
	RegisterPublic(e, d)
	RegisterAuth(e, d.Auth, d.JWTSecret, middleware.NewTokenBucket(d.LoginLimit, d.Redis))
	RegisterStaff(e, d.Booking, d.JWTSecret)
}

// RegisterRoutes registers the health check used by load balancers.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the login endpoint, rate limited by loginLimit,
// and the endpoints that need a valid access token.  Auth middleware is
// attached per route so unknown /v1 paths stay 404.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, loginLimit echo.MiddlewareFunc) {
	e.POST("/v1/auth/login", a.Login, loginLimit)

	staff := staffOnly(jwtSecret)
	e.GET("/v1/me", a.Me, staff...)
	e.POST("/v1/password", a.ChangePassword, staff...)
}

// RegisterPublic registers the endpoints open to anyone: the cached room
// catalog, availability queries, booking and cancellation by token.
func RegisterPublic(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	e.GET("/v1/room-types", d.Catalog.ListRoomTypes, cache)
	e.GET("/v1/rooms", d.Catalog.ListRooms, cache)

	e.GET("/v1/query", d.Booking.Query)
	e.POST("/v1/book", d.Booking.Book, middleware.NewTokenBucket(d.BookLimit, d.Redis))
	e.DELETE("/v1/book/:token", d.Booking.CancelByToken)
}

// RegisterStaff registers reservation management for authenticated staff.
func RegisterStaff(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	staff := staffOnly(jwtSecret)
	e.GET("/v1/orders", h.ListOrders, staff...)
	e.DELETE("/v1/orders/:id", h.CancelOrder, staff...)
}

func staffOnly(jwtSecret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff),
	}
}
