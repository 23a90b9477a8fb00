package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"storefront-search-api/internal/config"
	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/search"
)

const (
	serviceName    = "storefront-search-api"
	serviceVersion = "1.0.0"
)

// CacheAdmin is the cache surface exposed over HTTP. *cache.RedisCache
// satisfies it, including as a nil pointer.
type CacheAdmin interface {
	IsAvailable() bool
	GetStats(ctx context.Context) map[string]interface{}
	GetAllKeys(ctx context.Context) []string
	GetKeyTTL(ctx context.Context, key string) time.Duration
	FlushCache(ctx context.Context) (int64, error)
}

type Server struct {
	cfg      config.Config
	search   *search.Service
	cache    CacheAdmin
	limiter  *RateLimiter
	catalog  filters.Catalog
	upgrader websocket.Upgrader
	router   *gin.Engine
	http     *http.Server
}

func New(cfg config.Config, svc *search.Service, cache CacheAdmin) *Server {
	s := &Server{
		cfg:     cfg,
		search:  svc,
		cache:   cache,
		limiter: NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
		catalog: filters.Catalog{
			Vendors: cfg.Filters.Vendors,
			Types:   cfg.Filters.Types,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())
	r.Use(s.limiter.Middleware())

	r.GET("/health", s.handleHealth)
	r.GET("/rate-limit/status", s.handleRateLimitStatus)

	r.GET("/cache/stats", s.handleCacheStats)
	r.GET("/cache/debug", s.handleCacheDebug)
	r.DELETE("/cache/flush", s.handleCacheFlush)

	r.GET("/search", s.handleSearch)

	api := r.Group("/api")
	{
		api.GET("/predictive-search", s.handlePredictiveSearch)
		api.POST("/predictive-search", s.handlePredictiveSearch)
		api.GET("/predictive-search/ws", s.handlePredictiveSession)
		api.POST("/search/filters", s.handleFilterAction)
		api.GET("/search/filters/options", s.handleFilterOptions)
		api.GET("/pages/:handle", s.handlePage)
		api.GET("/products/:handle", s.handleProduct)
		api.GET("/collections/:handle", s.handleCollection)
		api.GET("/info", s.handleInfo)
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting search server on :%s", s.cfg.Server.Port)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down search server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) cacheAvailable() bool {
	return s.cache != nil && s.cache.IsAvailable()
}
