package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-search-api/internal/models"
	"storefront-search-api/internal/storefront"
)

func productNode(id, handle, title, amount string) storefront.Node {
	return storefront.Node{
		Typename: storefront.TypeProduct,
		ID:       id,
		Handle:   handle,
		Title:    title,
		Variants: &storefront.VariantConnection{Nodes: []storefront.Variant{{
			ID:    id + "-v1",
			Image: &storefront.Image{URL: "https://cdn.example/" + handle + ".jpg", AltText: title},
			Price: &storefront.Money{Amount: amount, CurrencyCode: "USD"},
		}}},
	}
}

func groupTypes(set models.SearchResultSet) []models.GroupType {
	types := make([]models.GroupType, 0, len(set.Results))
	for _, g := range set.Results {
		types = append(types, g.Type)
	}
	return types
}

func TestNormalizePredictiveNaruto(t *testing.T) {
	raw := storefront.PredictiveResult{
		"pages": {{Typename: storefront.TypePage, ID: "page-1", Handle: "naruto-faq", Title: "Naruto FAQ"}},
		"products": {
			productNode("p1", "naruto-figure", "Naruto Figure", "24.99"),
			productNode("p2", "naruto-plush", "Naruto Plush", "12.00"),
		},
		"queries":     {},
		"collections": nil,
	}

	set := NewNormalizer("").NormalizePredictive(raw)

	assert.Equal(t, []models.GroupType{models.GroupProducts, models.GroupPages}, groupTypes(set))
	assert.Equal(t, 3, set.TotalResults)

	products, ok := set.Group(models.GroupProducts)
	require.True(t, ok)
	require.Len(t, products.Items, 2)
	first := products.Items[0]
	assert.Equal(t, models.KindProduct, first.Kind)
	assert.Equal(t, "/products/naruto-figure", first.URL)
	require.NotNil(t, first.Price)
	assert.Equal(t, "24.99", first.Price.Amount)
	require.NotNil(t, first.Image)
	assert.Equal(t, "https://cdn.example/naruto-figure.jpg", first.Image.URL)

	pages, ok := set.Group(models.GroupPages)
	require.True(t, ok)
	assert.Equal(t, "/pages/naruto-faq", pages.Items[0].URL)
	assert.Nil(t, pages.Items[0].Price)
}

func TestNormalizePredictiveOrderAndKinds(t *testing.T) {
	raw := storefront.PredictiveResult{
		"articles":    {{Typename: storefront.TypeArticle, ID: "a1", Handle: "news", Title: "News"}},
		"pages":       {{Typename: storefront.TypePage, ID: "pg1", Handle: "about", Title: "About"}},
		"collections": {{Typename: storefront.TypeCollection, ID: "c1", Handle: "figures", Title: "Figures"}},
		"products":    {productNode("p1", "goku", "Goku", "30.00")},
		"queries":     {{Typename: storefront.TypeQuerySuggestion, Text: "goku", StyledText: "<mark>go</mark>ku"}},
	}

	set := NewNormalizer("").NormalizePredictive(raw)

	assert.Equal(t, models.GroupOrder, groupTypes(set))
	assert.Equal(t, 5, set.TotalResults)
	for _, g := range set.Results {
		for _, item := range g.Items {
			assert.Equal(t, g.Type.Kind(), item.Kind)
			if item.Kind == models.KindProduct {
				assert.NotNil(t, item.Price)
			} else {
				assert.Nil(t, item.Price, "unexpected price on %s", item.Kind)
			}
		}
	}

	queries, _ := set.Group(models.GroupQueries)
	suggestion := queries.Items[0]
	assert.Equal(t, "query-0", suggestion.ID)
	assert.Equal(t, "/search?q=goku", suggestion.URL)
	assert.Equal(t, "<mark>go</mark>ku", suggestion.DisplayTitle())

	articles, _ := set.Group(models.GroupArticles)
	assert.Equal(t, "/blog/news", articles.Items[0].URL)
}

func TestNormalizePredictiveDropsMalformedNodes(t *testing.T) {
	raw := storefront.PredictiveResult{
		"products": {
			productNode("p1", "ok", "Fine", "1.00"),
			{Typename: "GiftCard", ID: "x", Handle: "gift", Title: "Gift"},
			{Typename: storefront.TypeProduct, ID: "p2", Handle: "no-price", Title: "No price"},
			{ID: "p3", Handle: "untyped", Title: "Untyped"},
		},
		"collections": {{Typename: storefront.TypeCollection, ID: "c1", Handle: "", Title: "No handle"}},
		"queries":     {{Typename: storefront.TypeQuerySuggestion}},
		"pages":       {{Typename: storefront.TypePage, ID: "pg", Handle: "help", Title: "Help"}},
	}

	set := NewNormalizer("").NormalizePredictive(raw)

	assert.Equal(t, []models.GroupType{models.GroupProducts, models.GroupPages}, groupTypes(set))
	assert.Equal(t, 2, set.TotalResults)
	products, _ := set.Group(models.GroupProducts)
	require.Len(t, products.Items, 1)
	assert.Equal(t, "p1", products.Items[0].ID)
}

func TestNormalizePredictiveEmpty(t *testing.T) {
	set := NewNormalizer("").NormalizePredictive(nil)
	assert.Empty(t, set.Results)
	assert.Zero(t, set.TotalResults)
}

func TestNoPredictiveSearchResults(t *testing.T) {
	set := NoPredictiveSearchResults()

	assert.Equal(t, models.GroupOrder, groupTypes(set))
	assert.Zero(t, set.TotalResults)
	for _, g := range set.Results {
		assert.NotNil(t, g.Items)
		assert.Empty(t, g.Items)
	}
}

func TestNormalizerLocalePrefix(t *testing.T) {
	raw := storefront.PredictiveResult{
		"products": {productNode("p1", "goku", "Goku", "30.00")},
		"queries":  {{Typename: storefront.TypeQuerySuggestion, Text: "goku gi"}},
	}

	for _, prefix := range []string{"en-ca", "/en-ca", "/en-ca/"} {
		set := NewNormalizer(prefix).NormalizePredictive(raw)
		products, _ := set.Group(models.GroupProducts)
		assert.Equal(t, "/en-ca/products/goku", products.Items[0].URL, prefix)
		queries, _ := set.Group(models.GroupQueries)
		assert.Equal(t, "/en-ca/search?q=goku+gi", queries.Items[0].URL, prefix)
	}
}

func TestNormalizeFull(t *testing.T) {
	raw := &storefront.SearchResult{
		Products: storefront.Connection{
			TotalCount: 20,
			Nodes: []storefront.Node{
				productNode("p1", "a", "A", "1.00"),
				productNode("p2", "b", "B", "2.00"),
			},
			PageInfo: &storefront.PageInfo{HasNextPage: true, StartCursor: "s", EndCursor: "e"},
		},
		Pages: storefront.Connection{
			Nodes: []storefront.Node{{Typename: storefront.TypePage, ID: "pg", Handle: "faq", Title: "FAQ"}},
		},
	}

	out := NewNormalizer("").NormalizeFull(raw)

	assert.Equal(t, []models.GroupType{models.GroupProducts, models.GroupPages}, groupTypes(out.Set))
	assert.Equal(t, 21, out.Set.TotalResults)
	require.NotNil(t, out.PageInfo)
	assert.True(t, out.PageInfo.HasNextPage)
	assert.Equal(t, "e", out.PageInfo.EndCursor)

	empty := NewNormalizer("").NormalizeFull(nil)
	assert.Empty(t, empty.Set.Results)
	assert.Nil(t, empty.PageInfo)
}
