package server

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/search"
	"storefront-search-api/internal/storefront"
)

func (s *Server) handleHealth(c *gin.Context) {
	health := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}
	if s.cacheAvailable() {
		health["cache"] = "redis connected"
	} else {
		health["cache"] = "redis unavailable"
	}
	c.JSON(http.StatusOK, health)
}

func (s *Server) handleRateLimitStatus(c *gin.Context) {
	ip := c.ClientIP()
	limiter := s.limiter.Get(ip)

	c.JSON(http.StatusOK, gin.H{
		"ip":               ip,
		"limit_per_second": float64(limiter.Limit()),
		"burst_capacity":   limiter.Burst(),
		"tokens_available": limiter.Tokens(),
		"next_token_at":    time.Now().Add(time.Duration(float64(time.Second) / float64(limiter.Limit()))),
	})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	if !s.cacheAvailable() {
		cacheUnavailable(c)
		return
	}
	c.JSON(http.StatusOK, s.cache.GetStats(c.Request.Context()))
}

func (s *Server) handleCacheDebug(c *gin.Context) {
	if !s.cacheAvailable() {
		cacheUnavailable(c)
		return
	}

	ctx := c.Request.Context()
	keys := s.cache.GetAllKeys(ctx)
	keyDetails := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		ttl := s.cache.GetKeyTTL(ctx, key)
		keyDetails = append(keyDetails, gin.H{
			"key":         key,
			"ttl_seconds": int(ttl.Seconds()),
			"expires_in":  ttl.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_keys":  len(keys),
		"cache_keys":  keyDetails,
		"cache_stats": s.cache.GetStats(ctx),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCacheFlush(c *gin.Context) {
	if !s.cacheAvailable() {
		cacheUnavailable(c)
		return
	}

	removed, err := s.cache.FlushCache(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "cache_flush_failed",
			Code:    http.StatusInternalServerError,
			Message: "failed to flush cache",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "cache flushed successfully",
		"keys_removed": removed,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	params := parseSearchParams(c)

	results, err := s.search.Search(c.Request.Context(), params)
	if err != nil {
		log.Printf("Search error: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, search.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "search_failed",
			Code:    status,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) handlePredictiveSearch(c *gin.Context) {
	startTime := time.Now()

	var req models.PredictiveSearchRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	if req.Limit < 0 {
		badRequest(c, "invalid_request", errors.New("limit cannot be negative"))
		return
	}

	set := s.search.Predict(c.Request.Context(), req.Term, req.Limit)
	resp := models.PredictiveSearchResponse{
		Term:         req.Term,
		Results:      set.Results,
		TotalResults: set.TotalResults,
		Duration:     time.Since(startTime).String(),
	}
	if strings.TrimSpace(req.Term) != "" {
		resp.ViewAllURL = s.search.Normalizer().Prefixed(filters.Location(filters.State{Term: strings.TrimSpace(req.Term)}, nil))
	}
	c.JSON(http.StatusOK, resp)
}

// filterActionRequest applies one filter action to a search query string.
type filterActionRequest struct {
	Query string `json:"query"`
	filters.Action
}

type filterActionResponse struct {
	Location string            `json:"location"`
	Term     string            `json:"term"`
	Filters  models.FilterSpec `json:"filters"`
	Panels   []filters.Panel   `json:"panels"`
}

func (s *Server) handleFilterAction(c *gin.Context) {
	var req filterActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}

	_, values, err := filters.ParseQuery(req.Query)
	if err != nil {
		badRequest(c, "invalid_query", err)
		return
	}

	history := filters.NewMemoryHistory(filters.SearchPath + "?" + values.Encode())
	store := filters.NewStore(values, history)
	if err := store.Apply(req.Action); err != nil {
		badRequest(c, "invalid_filter_action", err)
		return
	}

	state := store.State()
	c.JSON(http.StatusOK, filterActionResponse{
		Location: s.search.Normalizer().Prefixed(history.Current()),
		Term:     state.Term,
		Filters:  state.Spec(),
		Panels:   s.catalog.Panels(state),
	})
}

func (s *Server) handleFilterOptions(c *gin.Context) {
	state := filters.Parse(c.Request.URL.Query())
	c.JSON(http.StatusOK, gin.H{
		"catalog": s.catalog,
		"panels":  s.catalog.Panels(state),
	})
}

func (s *Server) handlePage(c *gin.Context) {
	page, err := s.search.Page(c.Request.Context(), c.Param("handle"))
	if err != nil {
		lookupFailed(c, "page", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleProduct(c *gin.Context) {
	selected := search.SelectedOptionsFromQuery(c.Request.URL.Query())
	detail, err := s.search.Product(c.Request.Context(), c.Param("handle"), selected)
	if err != nil {
		lookupFailed(c, "product", err)
		return
	}
	if len(detail.RedirectOptions) > 0 {
		c.Redirect(http.StatusFound, variantLocation(c.Request.URL, detail.RedirectOptions))
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleCollection(c *gin.Context) {
	collection, err := s.search.Collection(c.Request.Context(), c.Param("handle"))
	if err != nil {
		lookupFailed(c, "collection", err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// lookupFailed maps a by-handle lookup error: unknown handles are 404,
// anything else from the backend is 502.
func lookupFailed(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: kind + " not found",
		})
	case errors.Is(err, search.ErrInvalidParams):
		badRequest(c, "invalid_request", err)
	default:
		log.Printf("Lookup error for %s: %v", kind, err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "backend_error",
			Code:    http.StatusBadGateway,
			Message: "failed to load " + kind,
			Details: err.Error(),
		})
	}
}

// variantLocation keeps the request path and unrelated parameters and sets
// each option of the variant.
func variantLocation(u *url.URL, options []storefront.SelectedOption) string {
	values := u.Query()
	for _, o := range options {
		values.Set(o.Name, o.Value)
	}
	return u.Path + "?" + values.Encode()
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Storefront Search API",
		"version":     serviceVersion,
		"description": "Predictive and full search over a commerce storefront backend",
		"features":    []string{"Predictive search", "Full search", "Vendor and type filters", "Cursor pagination", "Redis caching", "Live websocket sessions"},
		"endpoints": map[string]string{
			"GET /search":                     "Full search with vendor/type filters and cursor pagination",
			"GET /api/predictive-search":      "As-you-type search preview",
			"GET /api/predictive-search/ws":   "Live predictive search session",
			"POST /api/search/filters":        "Apply a filter action to a search location",
			"GET /api/search/filters/options": "Filter checkbox options",
			"GET /api/pages/:handle":          "Page lookup",
			"GET /api/products/:handle":       "Product lookup with variant selection",
			"GET /api/collections/:handle":    "Collection lookup",
			"GET /health":                     "Health check",
			"GET /cache/stats":                "Cache statistics",
			"GET /rate-limit/status":          "Rate limit status for the caller",
		},
		"storefront": gin.H{
			"endpoint": s.cfg.Storefront.Endpoint,
			"country":  s.cfg.Storefront.Country,
			"language": s.cfg.Storefront.Language,
		},
	})
}

// parseSearchParams reads the full search parameters from the query string.
func parseSearchParams(c *gin.Context) models.SearchParams {
	values := c.Request.URL.Query()
	state := filters.Parse(values)
	return models.SearchParams{
		Term:      state.Term,
		Filters:   state.Spec(),
		Cursor:    values.Get(filters.ParamCursor),
		Direction: values.Get(filters.ParamDirection),
		Locale:    values.Get("locale"),
	}
}

func cacheUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error:   "cache_unavailable",
		Code:    http.StatusServiceUnavailable,
		Message: "cache not available",
	})
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   code,
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}
