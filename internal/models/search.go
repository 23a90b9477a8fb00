package models

import (
	"strings"
)

// ItemKind is the discriminant of a normalized search result item.
type ItemKind string

const (
	KindQuerySuggestion ItemKind = "query-suggestion"
	KindProduct         ItemKind = "product"
	KindCollection      ItemKind = "collection"
	KindPage            ItemKind = "page"
	KindArticle         ItemKind = "article"
)

// GroupType names a group of results in a result set.
type GroupType string

const (
	GroupQueries     GroupType = "queries"
	GroupProducts    GroupType = "products"
	GroupCollections GroupType = "collections"
	GroupPages       GroupType = "pages"
	GroupArticles    GroupType = "articles"
)

// GroupOrder is the display order of result groups. Clients key their UI
// sections off this order.
var GroupOrder = []GroupType{
	GroupQueries,
	GroupProducts,
	GroupCollections,
	GroupPages,
	GroupArticles,
}

// Kind returns the item kind held by the group.
func (g GroupType) Kind() ItemKind {
	switch g {
	case GroupQueries:
		return KindQuerySuggestion
	case GroupProducts:
		return KindProduct
	case GroupCollections:
		return KindCollection
	case GroupPages:
		return KindPage
	case GroupArticles:
		return KindArticle
	default:
		return ""
	}
}

// SearchType converts the plural group name to the singular backend search
// type, e.g. "articles" -> "ARTICLE".
func (g GroupType) SearchType() string {
	switch g {
	case GroupQueries:
		return "QUERY"
	case GroupProducts:
		return "PRODUCT"
	case GroupCollections:
		return "COLLECTION"
	case GroupPages:
		return "PAGE"
	case GroupArticles:
		return "ARTICLE"
	default:
		return ""
	}
}

// SearchTypes joins the singular search types of several groups with commas.
func SearchTypes(groups ...GroupType) string {
	types := make([]string, 0, len(groups))
	for _, g := range groups {
		types = append(types, g.SearchType())
	}
	return strings.Join(types, ",")
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Money keeps the backend amount verbatim. It is never parsed into a float.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

type SearchResultItem struct {
	Kind        ItemKind `json:"kind"`
	ID          string   `json:"id"`
	Handle      string   `json:"handle,omitempty"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Image       *Image   `json:"image,omitempty"`
	Price       *Money   `json:"price,omitempty"` // products only
	StyledTitle string   `json:"styled_title,omitempty"`
}

// DisplayTitle returns the highlighted title when there is one.
func (i SearchResultItem) DisplayTitle() string {
	if i.StyledTitle != "" {
		return i.StyledTitle
	}
	return i.Title
}

type ResultGroup struct {
	Type  GroupType          `json:"type"`
	Items []SearchResultItem `json:"items"`
}

type SearchResultSet struct {
	Results      []ResultGroup `json:"results"`
	TotalResults int           `json:"total_results"`
}

// Group returns the group of the given type, if present.
func (s SearchResultSet) Group(t GroupType) (ResultGroup, bool) {
	for _, g := range s.Results {
		if g.Type == t {
			return g, true
		}
	}
	return ResultGroup{}, false
}

type PageInfo struct {
	HasNextPage     bool   `json:"has_next_page"`
	HasPreviousPage bool   `json:"has_previous_page"`
	StartCursor     string `json:"start_cursor,omitempty"`
	EndCursor       string `json:"end_cursor,omitempty"`
}

// FilterSpec is the transport form of the vendor/type selections.
// An empty slice means the dimension is unfiltered.
type FilterSpec struct {
	Vendors []string `json:"vendors,omitempty"`
	Types   []string `json:"types,omitempty"`
}

type SearchParams struct {
	Term      string     `json:"term"`
	Filters   FilterSpec `json:"filters"`
	Cursor    string     `json:"cursor,omitempty"`
	Direction string     `json:"direction,omitempty"` // next, previous
	Locale    string     `json:"locale,omitempty"`
}

type SearchResponse struct {
	Term         string        `json:"term"`
	Results      []ResultGroup `json:"results"`
	TotalResults int           `json:"total_results"`
	PageInfo     *PageInfo     `json:"page_info,omitempty"`
	Filters      FilterSpec    `json:"filters"`
	Duration     string        `json:"duration"`
	Cached       bool          `json:"cached,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type PredictiveSearchRequest struct {
	Term  string `json:"q" form:"q"`
	Limit int    `json:"limit" form:"limit"`
}

type PredictiveSearchResponse struct {
	Term         string        `json:"term"`
	Results      []ResultGroup `json:"results"`
	TotalResults int           `json:"total_results"`
	ViewAllURL   string        `json:"view_all_url,omitempty"`
	Duration     string        `json:"duration"`
}
