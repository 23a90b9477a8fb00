package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/debug"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

var ErrNotFound = errors.New("not found")

// GraphQLError is returned when the backend answers with an errors payload.
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("storefront %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

type Options struct {
	Endpoint    string
	AccessToken string
	Country     string
	Language    string
	Timeout     time.Duration
	Parallelism int
	Debug       bool
}

// Client talks to the commerce backend's GraphQL endpoint. Each call runs on
// a clone of the base collector so callbacks never leak between requests.
type Client struct {
	endpoint    string
	accessToken string
	country     string
	language    string
	collector   *colly.Collector
}

func NewClient(opts Options) (*Client, error) {
	endpoint, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid storefront endpoint: %w", err)
	}
	if endpoint.Scheme == "" || endpoint.Hostname() == "" {
		return nil, fmt.Errorf("invalid storefront endpoint: %q", opts.Endpoint)
	}

	collectorOpts := []colly.CollectorOption{
		colly.AllowedDomains(endpoint.Hostname()),
		colly.AllowURLRevisit(),
		colly.UserAgent("storefront-search-api/1.0"),
	}
	if opts.Debug {
		collectorOpts = append(collectorOpts, colly.Debugger(&debug.LogDebugger{}))
	}
	c := colly.NewCollector(collectorOpts...)

	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: parallelism,
	}); err != nil {
		return nil, fmt.Errorf("storefront limit rule: %w", err)
	}

	return &Client{
		endpoint:    endpoint.String(),
		accessToken: opts.AccessToken,
		country:     strings.ToUpper(opts.Country),
		language:    strings.ToUpper(opts.Language),
		collector:   c,
	}, nil
}

// PredictiveSearch fetches the bounded as-you-type preview for a term.
func (c *Client) PredictiveSearch(ctx context.Context, req PredictiveRequest) (PredictiveResult, error) {
	variables := c.contextVariables()
	variables["searchTerm"] = req.Term
	variables["limit"] = req.Limit
	variables["limitScope"] = "EACH"

	var data struct {
		PredictiveSearch PredictiveResult `json:"predictiveSearch"`
	}
	if err := c.do(ctx, "predictiveSearch", predictiveSearchQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.PredictiveSearch == nil {
		return PredictiveResult{}, nil
	}
	return data.PredictiveSearch, nil
}

// Search runs the full search query. Products page by cursor; pages and
// articles are capped.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	variables := c.contextVariables()
	variables["query"] = req.Term
	variables["pagesFirst"] = req.PagesLimit
	variables["articlesFirst"] = req.ArticlesLimit

	if len(req.Filters) > 0 {
		variables["productFilters"] = req.Filters
	} else {
		variables["productFilters"] = nil
	}

	switch req.Direction {
	case DirectionPrevious:
		variables["last"] = req.PageBy
		variables["startCursor"] = req.Cursor
	default:
		variables["first"] = req.PageBy
		if req.Cursor != "" {
			variables["endCursor"] = req.Cursor
		}
	}

	var data SearchResult
	if err := c.do(ctx, "search", searchQuery, variables, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Page looks up a page by handle. A missing page is ErrNotFound.
func (c *Client) Page(ctx context.Context, handle string) (*Page, error) {
	variables := c.contextVariables()
	variables["handle"] = handle

	var data struct {
		Page *Page `json:"page"`
	}
	if err := c.do(ctx, "page", pageQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Page == nil {
		return nil, fmt.Errorf("page %q: %w", handle, ErrNotFound)
	}
	return data.Page, nil
}

// Product looks up a product by handle together with the variant matching
// selected. A missing product is ErrNotFound.
func (c *Client) Product(ctx context.Context, handle string, selected []SelectedOption) (*Product, error) {
	if selected == nil {
		selected = []SelectedOption{}
	}
	variables := c.contextVariables()
	variables["handle"] = handle
	variables["selectedOptions"] = selected

	var data struct {
		Product *Product `json:"product"`
	}
	if err := c.do(ctx, "product", productQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Product == nil || data.Product.ID == "" {
		return nil, fmt.Errorf("product %q: %w", handle, ErrNotFound)
	}
	return data.Product, nil
}

// ProductVariants lists every variant of a product, up to the backend's
// page size of 250.
func (c *Client) ProductVariants(ctx context.Context, handle string) ([]Variant, error) {
	variables := c.contextVariables()
	variables["handle"] = handle

	var data struct {
		Product *struct {
			Variants VariantConnection `json:"variants"`
		} `json:"product"`
	}
	if err := c.do(ctx, "productVariants", productVariantsQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("product %q: %w", handle, ErrNotFound)
	}
	return data.Product.Variants.Nodes, nil
}

// Collection looks up a collection by handle. A missing collection is
// ErrNotFound.
func (c *Client) Collection(ctx context.Context, handle string) (*Collection, error) {
	variables := c.contextVariables()
	variables["handle"] = handle

	var data struct {
		Collection *Collection `json:"collectionByHandle"`
	}
	if err := c.do(ctx, "collection", collectionByHandleQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, fmt.Errorf("collection %q: %w", handle, ErrNotFound)
	}
	return data.Collection, nil
}

func (c *Client) contextVariables() map[string]any {
	variables := map[string]any{}
	if c.country != "" {
		variables["country"] = c.country
	}
	if c.language != "" {
		variables["language"] = c.language
	}
	return variables
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("storefront %s: encode request: %w", operation, err)
	}

	collector := c.collector.Clone()
	collector.Context = ctx

	var body []byte
	var requestErr error
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		requestErr = fmt.Errorf("storefront %s: status %d: %w", operation, status, err)
	})

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Accept", "application/json")
	if c.accessToken != "" {
		hdr.Set(accessTokenHeader, c.accessToken)
	}

	if err := collector.Request(http.MethodPost, c.endpoint, bytes.NewReader(payload), nil, hdr); err != nil {
		if requestErr != nil {
			return requestErr
		}
		return fmt.Errorf("storefront %s: %w", operation, err)
	}
	if requestErr != nil {
		return requestErr
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("storefront %s: decode response: %w", operation, err)
	}
	if len(envelope.Errors) > 0 {
		gqlErr := &GraphQLError{Operation: operation}
		for _, e := range envelope.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("storefront %s: no data returned", operation)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("storefront %s: decode data: %w", operation, err)
	}

	log.Printf("Storefront %s completed (%d bytes)", operation, len(body))
	return nil
}
