package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"officesim-backend/config"
	"officesim-backend/internal/mw"
	"officesim-backend/internal/simulation"
	"officesim-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. s and webpushOptions
// may be nil; the endpoints that need them answer 503.
func NewRouter(sim *simulation.Service, s store.Store, webpushOptions *webpush.Options, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(sim, s, webpushOptions, cfg.StreamInterval)

	limit := rate.Limit(cfg.RateLimitPerSec)
	if cfg.RateLimitPerSec <= 0 {
		limit = rate.Inf
	}
	rateLimiter := mw.RateLimiter(limit, cfg.RateLimitBurst)

	// The layout only changes with a re-initialization, which flushes the cache.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	sim.OnReset(cacheStore.Flush)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/snapshot", handler.GetSnapshot)
		api.GET("/desks", handler.GetDesks)
		api.GET("/spaces", handler.GetSpaces)
		api.GET("/workers", handler.GetWorkers)
		api.GET("/workers/:worker_id", handler.GetWorker)
		api.POST("/workers/:worker_id/event", handler.PostForceEvent)
		api.GET("/events", handler.GetEvents)
		api.GET("/stats", handler.GetStats)

		api.POST("/office", handler.PostOffice)
		api.POST("/day/reset", handler.PostResetDay)
		api.PUT("/mode", handler.PutMode)
		api.PUT("/time", handler.PutTime)
		api.POST("/tick", handler.PostTick)

		api.GET("/layout", caching, handler.GetLayout)
		api.PUT("/layout", handler.PutLayout)

		api.GET("/history", handler.GetHistory)
		api.GET("/occupancy", handler.GetOccupancy)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	// Not rate limited: one request serves many frames.
	r.GET("/api/stream", handler.Stream)

	return r
}
