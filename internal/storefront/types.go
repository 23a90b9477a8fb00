package storefront

import "encoding/json"

// Typenames the search core understands.
const (
	TypeQuerySuggestion = "SearchQuerySuggestion"
	TypeProduct         = "Product"
	TypeCollection      = "Collection"
	TypePage            = "Page"
	TypeArticle         = "Article"
)

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	SKU              string           `json:"sku"`
	AvailableForSale bool             `json:"availableForSale"`
	Image            *Image           `json:"image"`
	Price            *Money           `json:"price"`
	CompareAtPrice   *Money           `json:"compareAtPrice"`
	UnitPrice        *Money           `json:"unitPrice"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

// IsDefault reports whether the variant is the placeholder a product gets
// when it has no real options.
func (v Variant) IsDefault() bool {
	for _, o := range v.SelectedOptions {
		if o.Name == "Title" && o.Value == "Default Title" {
			return true
		}
	}
	return false
}

type VariantConnection struct {
	Nodes []Variant `json:"nodes"`
}

type BlogRef struct {
	Handle string `json:"handle"`
}

// Node is any search result node. Which fields are set depends on Typename;
// nothing about the shape is trusted until the typename has been checked.
type Node struct {
	Typename           string             `json:"__typename"`
	ID                 string             `json:"id"`
	Handle             string             `json:"handle"`
	Title              string             `json:"title"`
	Vendor             string             `json:"vendor"`
	Text               string             `json:"text"`
	StyledText         string             `json:"styledText"`
	Image              *Image             `json:"image"`
	Variants           *VariantConnection `json:"variants"`
	Blog               *BlogRef           `json:"blog"`
	TrackingParameters string             `json:"trackingParameters"`
}

// FirstVariant returns the first variant of a product node.
func (n Node) FirstVariant() (Variant, bool) {
	if n.Variants == nil || len(n.Variants.Nodes) == 0 {
		return Variant{}, false
	}
	return n.Variants.Nodes[0], true
}

// PredictiveResult maps a group name (queries, products, collections,
// pages, articles) to its nodes, exactly as the backend returned them.
type PredictiveResult map[string][]Node

type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
}

type Connection struct {
	Nodes      []Node    `json:"nodes"`
	PageInfo   *PageInfo `json:"pageInfo"`
	TotalCount int       `json:"totalCount"`
}

// SearchResult is the response of the full search query.
type SearchResult struct {
	Products Connection `json:"products"`
	Pages    Connection `json:"pages"`
	Articles Connection `json:"articles"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Page struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	SEO    *SEO   `json:"seo"`
}

type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ImageEdge struct {
	Node Image `json:"node"`
}

type ImageConnection struct {
	Edges []ImageEdge `json:"edges"`
}

// Product is the product detail behind a /products/{handle} result URL.
// SelectedVariant is the variant matching the requested options, if any.
type Product struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Vendor          string            `json:"vendor"`
	Handle          string            `json:"handle"`
	Tags            []string          `json:"tags"`
	Description     string            `json:"description"`
	DescriptionHTML string            `json:"descriptionHtml"`
	Options         []ProductOption   `json:"options"`
	Images          ImageConnection   `json:"images"`
	SelectedVariant *Variant          `json:"selectedVariant"`
	Variants        VariantConnection `json:"variants"`
	SEO             *SEO              `json:"seo"`
}

// FirstVariant returns the product's first variant.
func (p Product) FirstVariant() (Variant, bool) {
	if len(p.Variants.Nodes) == 0 {
		return Variant{}, false
	}
	return p.Variants.Nodes[0], true
}

type Collection struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
	Image  *Image `json:"image"`
}

// FilterDimension names the product attribute a filter clause matches.
type FilterDimension string

const (
	FilterVendor FilterDimension = "vendor"
	FilterType   FilterDimension = "type"
)

// ProductFilter is one backend filter clause.
type ProductFilter struct {
	Dimension FilterDimension
	Value     string
}

func (f ProductFilter) MarshalJSON() ([]byte, error) {
	switch f.Dimension {
	case FilterVendor:
		return json.Marshal(map[string]string{"productVendor": f.Value})
	case FilterType:
		return json.Marshal(map[string]string{"productType": f.Value})
	default:
		return nil, &json.UnsupportedValueError{Str: string(f.Dimension)}
	}
}

// PredictiveRequest asks for an as-you-type preview.
type PredictiveRequest struct {
	Term  string
	Limit int
}

// Direction selects which way a product cursor moves.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// SearchRequest asks for a full search page.
type SearchRequest struct {
	Term          string
	Filters       []ProductFilter
	PageBy        int
	Cursor        string
	Direction     Direction
	PagesLimit    int
	ArticlesLimit int
}
