package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hotel-inventory-backend/config"
	"hotel-inventory-backend/internal/mw"
	"hotel-inventory-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Short-lived cache for the availability read path only; every write
	// path re-checks capacity under row locks.
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 10*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/availability", caching, handler.GetAvailability)
		api.GET("/room_types", handler.GetRoomTypes)

		api.POST("/holds", handler.PostHold)
		api.POST("/holds/:hold_id/cancel", handler.PostHoldCancel)

		api.POST("/bookings", handler.PostBooking)
		api.GET("/bookings/:booking_id", handler.GetBooking)
		api.POST("/bookings/:booking_id/confirm", handler.PostBookingConfirm)
		api.POST("/bookings/:booking_id/cancel", handler.PostBookingCancel)

		admin := api.Group("/admin")
		{
			admin.PUT("/inventory", handler.PutInventory)
			admin.POST("/room_types", handler.PostRoomType)
		}
	}

	return r
}
