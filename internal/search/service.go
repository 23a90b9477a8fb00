package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"storefront-search-api/internal/config"
	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/storefront"
	"storefront-search-api/pkg/cache"
)

var ErrInvalidParams = errors.New("invalid search parameters")

// MaxPredictiveLimit is the per-group cap on predictive results.
const MaxPredictiveLimit = config.MaxPredictiveLimit

// Backend is the commerce backend as seen by the search core.
type Backend interface {
	PredictiveSearch(ctx context.Context, req storefront.PredictiveRequest) (storefront.PredictiveResult, error)
	Search(ctx context.Context, req storefront.SearchRequest) (*storefront.SearchResult, error)
	Page(ctx context.Context, handle string) (*storefront.Page, error)
	Product(ctx context.Context, handle string, selected []storefront.SelectedOption) (*storefront.Product, error)
	ProductVariants(ctx context.Context, handle string) ([]storefront.Variant, error)
	Collection(ctx context.Context, handle string) (*storefront.Collection, error)
}

// ProductDetail is a product with its selected variant resolved and every
// variant listed for availability display.
type ProductDetail struct {
	Product  *storefront.Product  `json:"product"`
	Variants []storefront.Variant `json:"variants"`
	// RedirectOptions is set when the requested options select no variant.
	// Callers send the client to the first variant's options instead.
	RedirectOptions []storefront.SelectedOption `json:"-"`
}

// trackingParamPrefixes mark query parameters added by search result
// tracking and ad links. They are never product options.
var trackingParamPrefixes = []string{"_sid", "_pos", "_psq", "_ss", "_v", "fbclid"}

// Cache stores search responses. Implementations must tolerate a nil
// receiver in IsAvailable.
type Cache interface {
	IsAvailable() bool
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type Settings struct {
	PredictiveLimit int
	PageBy          int
	PagesLimit      int
	ArticlesLimit   int
	Timeout         time.Duration
}

func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		PredictiveLimit: cfg.Search.PredictiveLimit,
		PageBy:          cfg.Search.PageBy,
		PagesLimit:      cfg.Search.PagesLimit,
		ArticlesLimit:   cfg.Search.ArticlesLimit,
		Timeout:         cfg.Storefront.Timeout(),
	}
}

type Service struct {
	backend    Backend
	cache      Cache
	normalizer *Normalizer
	settings   Settings
}

func NewService(backend Backend, c Cache, normalizer *Normalizer, settings Settings) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer("")
	}
	if settings.PredictiveLimit <= 0 || settings.PredictiveLimit > MaxPredictiveLimit {
		settings.PredictiveLimit = MaxPredictiveLimit
	}
	if settings.PageBy <= 0 {
		settings.PageBy = 8
	}
	if settings.PagesLimit <= 0 {
		settings.PagesLimit = 10
	}
	if settings.ArticlesLimit <= 0 {
		settings.ArticlesLimit = 10
	}
	return &Service{
		backend:    backend,
		cache:      c,
		normalizer: normalizer,
		settings:   settings,
	}
}

func (s *Service) Normalizer() *Normalizer {
	return s.normalizer
}

// PredictiveLimit is the per-group cap applied to predictive requests.
func (s *Service) PredictiveLimit() int {
	return s.settings.PredictiveLimit
}

// Search runs a full search. An empty term returns no results without
// contacting the backend, and a backend failure is logged and answered with
// an empty response.
func (s *Service) Search(ctx context.Context, params models.SearchParams) (*models.SearchResponse, error) {
	startTime := time.Now()

	state, err := validateSearchParams(&params)
	if err != nil {
		return nil, err
	}

	response := &models.SearchResponse{
		Term:    params.Term,
		Results: []models.ResultGroup{},
		Filters: params.Filters,
	}
	if params.Term == "" {
		response.Duration = time.Since(startTime).String()
		return response, nil
	}

	cacheKey := ""
	if s.cacheAvailable() {
		cacheKey = cache.GenerateSearchKey(params)
		var cached models.SearchResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		switch {
		case err != nil:
			log.Printf("Cache read failed for key %s: %v", cacheKey, err)
		case hit:
			cached.Duration = fmt.Sprintf("%s (cached)", time.Since(startTime).String())
			cached.Cached = true
			log.Printf("Cache HIT for key: %s", cacheKey)
			return &cached, nil
		default:
			log.Printf("Cache MISS for key: %s", cacheKey)
		}
	}

	req := storefront.SearchRequest{
		Term:          params.Term,
		Filters:       productFilters(state),
		PageBy:        s.settings.PageBy,
		Cursor:        params.Cursor,
		Direction:     storefront.Direction(params.Direction),
		PagesLimit:    s.settings.PagesLimit,
		ArticlesLimit: s.settings.ArticlesLimit,
	}

	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	raw, err := s.backend.Search(fetchCtx, req)
	if err != nil {
		log.Printf("Full search for %q failed: %v", params.Term, err)
		response.Duration = time.Since(startTime).String()
		return response, nil
	}

	full := s.normalizerFor(params.Locale).NormalizeFull(raw)
	response.Results = full.Set.Results
	response.TotalResults = full.Set.TotalResults
	response.PageInfo = full.PageInfo
	response.Duration = time.Since(startTime).String()

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, response); err != nil {
			log.Printf("Failed to cache results: %v", err)
		} else {
			log.Printf("Cached results for key: %s", cacheKey)
		}
	}

	return response, nil
}

// PredictiveSearch fetches raw predictive results through the cache. It
// satisfies the predictive controller's fetcher.
func (s *Service) PredictiveSearch(ctx context.Context, req storefront.PredictiveRequest) (storefront.PredictiveResult, error) {
	cacheKey := ""
	if s.cacheAvailable() {
		cacheKey = cache.GeneratePredictiveKey(req.Term, req.Limit)
		var cached storefront.PredictiveResult
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("Cache read failed for key %s: %v", cacheKey, err)
		} else if hit {
			log.Printf("Cache HIT for key: %s", cacheKey)
			return cached, nil
		}
	}

	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	raw, err := s.backend.PredictiveSearch(fetchCtx, req)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, raw); err != nil {
			log.Printf("Failed to cache predictive results: %v", err)
		}
	}
	return raw, nil
}

// Predict is the one-shot predictive search. It never fails: an empty term or
// a backend failure yields the empty sentinel.
func (s *Service) Predict(ctx context.Context, term string, limit int) models.SearchResultSet {
	term = strings.TrimSpace(term)
	if term == "" {
		return NoPredictiveSearchResults()
	}
	if limit <= 0 || limit > s.settings.PredictiveLimit {
		limit = s.settings.PredictiveLimit
	}

	raw, err := s.PredictiveSearch(ctx, storefront.PredictiveRequest{Term: term, Limit: limit})
	if err != nil {
		log.Printf("Predictive search for %q failed: %v", term, err)
		return NoPredictiveSearchResults()
	}
	return s.normalizer.NormalizePredictive(raw)
}

// Page resolves a page by handle. Unknown handles return an error wrapping
// storefront.ErrNotFound.
func (s *Service) Page(ctx context.Context, handle string) (*storefront.Page, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: page handle cannot be empty", ErrInvalidParams)
	}
	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.backend.Page(fetchCtx, handle)
}

// Product resolves a product by handle. A product whose only variant is the
// default one always selects it; otherwise selected must name a variant or
// the detail carries the first variant's options to redirect to.
func (s *Service) Product(ctx context.Context, handle string, selected []storefront.SelectedOption) (*ProductDetail, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: product handle cannot be empty", ErrInvalidParams)
	}
	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	product, err := s.backend.Product(fetchCtx, handle, selected)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: product}
	if first, ok := product.FirstVariant(); ok {
		switch {
		case first.IsDefault():
			product.SelectedVariant = &first
		case product.SelectedVariant == nil:
			detail.RedirectOptions = first.SelectedOptions
			return detail, nil
		}
	}

	variants, err := s.backend.ProductVariants(fetchCtx, handle)
	if err != nil {
		log.Printf("Product variants for %q failed: %v", handle, err)
		return detail, nil
	}
	detail.Variants = variants
	return detail, nil
}

// Collection resolves a collection by handle. Unknown handles return an
// error wrapping storefront.ErrNotFound.
func (s *Service) Collection(ctx context.Context, handle string) (*storefront.Collection, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: collection handle cannot be empty", ErrInvalidParams)
	}
	fetchCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.backend.Collection(fetchCtx, handle)
}

// SelectedOptionsFromQuery reads product options from a query string,
// skipping tracking parameters. Options are ordered by name.
func SelectedOptionsFromQuery(values url.Values) []storefront.SelectedOption {
	var options []storefront.SelectedOption
	for name, vals := range values {
		if name == "" || len(vals) == 0 || isTrackingParam(name) {
			continue
		}
		options = append(options, storefront.SelectedOption{Name: name, Value: vals[0]})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })
	return options
}

func isTrackingParam(name string) bool {
	for _, prefix := range trackingParamPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (s *Service) cacheAvailable() bool {
	return s.cache != nil && s.cache.IsAvailable()
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.settings.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.settings.Timeout)
}

func (s *Service) normalizerFor(locale string) *Normalizer {
	if locale == "" {
		return s.normalizer
	}
	return NewNormalizer(locale)
}

// validateSearchParams trims the term, canonicalizes the filters and checks
// the pagination parameters.
func validateSearchParams(params *models.SearchParams) (filters.State, error) {
	params.Term = strings.TrimSpace(params.Term)

	state, err := filters.FromSpec(params.Term, params.Filters)
	if err != nil {
		return filters.State{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	params.Filters = state.Spec()

	switch storefront.Direction(params.Direction) {
	case "", storefront.DirectionNext, storefront.DirectionPrevious:
	default:
		return filters.State{}, fmt.Errorf("%w: invalid direction %q. Valid directions: next, previous", ErrInvalidParams, params.Direction)
	}
	if params.Cursor == "" {
		params.Direction = ""
	} else if params.Direction == "" {
		params.Direction = string(storefront.DirectionNext)
	}

	return state, nil
}

func productFilters(state filters.State) []storefront.ProductFilter {
	clauses := state.Clauses()
	if len(clauses) == 0 {
		return nil
	}
	out := make([]storefront.ProductFilter, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, storefront.ProductFilter{
			Dimension: storefront.FilterDimension(c.Dimension),
			Value:     c.Value,
		})
	}
	return out
}
