package search

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"storefront-search-api/internal/models"
	"storefront-search-api/internal/storefront"
)

// expectedTypename is the only typename accepted inside each group.
var expectedTypename = map[models.GroupType]string{
	models.GroupQueries:     storefront.TypeQuerySuggestion,
	models.GroupProducts:    storefront.TypeProduct,
	models.GroupCollections: storefront.TypeCollection,
	models.GroupPages:       storefront.TypePage,
	models.GroupArticles:    storefront.TypeArticle,
}

var pathSegment = map[models.GroupType]string{
	models.GroupProducts:    "products",
	models.GroupCollections: "collections",
	models.GroupPages:       "pages",
	models.GroupArticles:    "blog",
}

// Normalizer maps backend nodes of every shape onto SearchResultItem.
type Normalizer struct {
	localePrefix string
}

func NewNormalizer(localePrefix string) *Normalizer {
	return &Normalizer{localePrefix: cleanPrefix(localePrefix)}
}

// NoPredictiveSearchResults is the empty-term result: all five groups present
// with no items. This is the only place empty groups are materialized.
func NoPredictiveSearchResults() models.SearchResultSet {
	results := make([]models.ResultGroup, 0, len(models.GroupOrder))
	for _, g := range models.GroupOrder {
		results = append(results, models.ResultGroup{Type: g, Items: []models.SearchResultItem{}})
	}
	return models.SearchResultSet{Results: results, TotalResults: 0}
}

// NormalizePredictive builds a result set in display order. Absent or empty
// groups are omitted, malformed nodes are dropped, and TotalResults is the
// number of items kept.
func (n *Normalizer) NormalizePredictive(raw storefront.PredictiveResult) models.SearchResultSet {
	set := models.SearchResultSet{Results: []models.ResultGroup{}}
	for _, g := range models.GroupOrder {
		items := n.normalizeGroup(g, raw[string(g)])
		if len(items) == 0 {
			continue
		}
		set.Results = append(set.Results, models.ResultGroup{Type: g, Items: items})
		set.TotalResults += len(items)
	}
	return set
}

// FullResult is a normalized full search page.
type FullResult struct {
	Set      models.SearchResultSet
	PageInfo *models.PageInfo
}

// NormalizeFull maps the full search response. TotalResults uses the counts
// reported by the backend so that it covers every page of products.
func (n *Normalizer) NormalizeFull(raw *storefront.SearchResult) FullResult {
	out := FullResult{Set: models.SearchResultSet{Results: []models.ResultGroup{}}}
	if raw == nil {
		return out
	}

	connections := map[models.GroupType]storefront.Connection{
		models.GroupProducts: raw.Products,
		models.GroupPages:    raw.Pages,
		models.GroupArticles: raw.Articles,
	}
	for _, g := range models.GroupOrder {
		conn, ok := connections[g]
		if !ok {
			continue
		}
		items := n.normalizeGroup(g, conn.Nodes)
		if len(items) == 0 {
			continue
		}
		out.Set.Results = append(out.Set.Results, models.ResultGroup{Type: g, Items: items})

		total := conn.TotalCount
		if total < len(items) {
			total = len(items)
		}
		out.Set.TotalResults += total
	}

	if info := raw.Products.PageInfo; info != nil {
		out.PageInfo = &models.PageInfo{
			HasNextPage:     info.HasNextPage,
			HasPreviousPage: info.HasPreviousPage,
			StartCursor:     info.StartCursor,
			EndCursor:       info.EndCursor,
		}
	}
	return out
}

func (n *Normalizer) normalizeGroup(g models.GroupType, nodes []storefront.Node) []models.SearchResultItem {
	if len(nodes) == 0 {
		return nil
	}
	items := make([]models.SearchResultItem, 0, len(nodes))
	for i, node := range nodes {
		item, err := n.normalizeNode(g, i, node)
		if err != nil {
			log.Printf("Normalizer: dropping %s node %d: %v", g, i, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

func (n *Normalizer) normalizeNode(g models.GroupType, index int, node storefront.Node) (models.SearchResultItem, error) {
	switch {
	case node.Typename == "":
		return models.SearchResultItem{}, fmt.Errorf("missing __typename")
	case node.Typename != expectedTypename[g]:
		return models.SearchResultItem{}, fmt.Errorf("unexpected __typename %q", node.Typename)
	}

	if g == models.GroupQueries {
		if node.Text == "" {
			return models.SearchResultItem{}, fmt.Errorf("suggestion has no text")
		}
		return n.suggestion(index, node), nil
	}

	if node.Handle == "" {
		return models.SearchResultItem{}, fmt.Errorf("%s %q has no handle", node.Typename, node.ID)
	}

	item := models.SearchResultItem{
		Kind:   g.Kind(),
		ID:     node.ID,
		Handle: node.Handle,
		Title:  node.Title,
		URL:    n.path(pathSegment[g], node.Handle),
		Image:  convertImage(node.Image),
	}

	if g == models.GroupProducts {
		variant, ok := node.FirstVariant()
		if !ok || variant.Price == nil {
			return models.SearchResultItem{}, fmt.Errorf("product %q has no priced variant", node.ID)
		}
		item.Image = convertImage(variant.Image)
		item.Price = &models.Money{
			Amount:       variant.Price.Amount,
			CurrencyCode: variant.Price.CurrencyCode,
		}
	}
	return item, nil
}

func (n *Normalizer) suggestion(index int, node storefront.Node) models.SearchResultItem {
	id := node.ID
	if id == "" {
		id = fmt.Sprintf("query-%d", index)
	}
	styled := node.StyledText
	if styled == "" {
		styled = node.Text
	}
	return models.SearchResultItem{
		Kind:        models.KindQuerySuggestion,
		ID:          id,
		Title:       node.Text,
		StyledTitle: styled,
		URL:         n.Prefixed("/search?" + url.Values{"q": {node.Text}}.Encode()),
	}
}

func (n *Normalizer) path(segment, handle string) string {
	return n.Prefixed("/" + segment + "/" + url.PathEscape(handle))
}

// Prefixed applies the locale prefix to a site-relative path.
func (n *Normalizer) Prefixed(p string) string {
	return n.localePrefix + p
}

func convertImage(img *storefront.Image) *models.Image {
	if img == nil || img.URL == "" {
		return nil
	}
	return &models.Image{
		URL:     img.URL,
		AltText: img.AltText,
		Width:   img.Width,
		Height:  img.Height,
	}
}

func cleanPrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
