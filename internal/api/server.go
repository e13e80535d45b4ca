package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"FlipSentinel/internal/marketcache"
	"FlipSentinel/internal/metrics"
	"FlipSentinel/internal/telemetry"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server bundles the HTTP handlers and their dependencies.
type Server struct {
	cache       *marketcache.Cache
	store       *telemetry.Store
	hub         *Hub
	metrics     *metrics.Registry
	bridgeToken string
	startedAt   time.Time
	log         zerolog.Logger
}

// NewServer creates the handler set. The hub must already be running.
func NewServer(cache *marketcache.Cache, store *telemetry.Store, hub *Hub, reg *metrics.Registry, bridgeToken string, log zerolog.Logger) *Server {
	return &Server{
		cache:       cache,
		store:       store,
		hub:         hub,
		metrics:     reg,
		bridgeToken: bridgeToken,
		startedAt:   time.Now(),
		log:         log.With().Str("component", "api").Logger(),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.health)

	market := r.Group("/api/market")
	{
		market.GET("/status", s.marketStatus)
		market.GET("/item/:id", s.marketItem)
	}

	r.GET("/api/recommendations", s.recommendations)

	tel := r.Group("/api/telemetry")
	{
		tel.GET("/status", s.telemetryStatus)
		tel.GET("/sessions", s.telemetrySessions)

		guarded := tel.Group("", s.requireBridgeToken)
		{
			guarded.POST("/heartbeat", s.telemetryHeartbeat)
			guarded.POST("/wallet", s.telemetryWallet)
			guarded.POST("/offers", s.telemetryOffers)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", s.hub.handleWS)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"version":       Version,
		"uptimeSec":     int64(time.Since(s.startedAt).Seconds()),
		"schemaVersion": 1,
	})
}
