package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/predictive"
	"storefront-search-api/internal/storefront"
)

type staticFetcher struct{}

func (staticFetcher) PredictiveSearch(_ context.Context, req storefront.PredictiveRequest) (storefront.PredictiveResult, error) {
	return storefront.PredictiveResult{
		"products": {{
			Typename: storefront.TypeProduct,
			ID:       "p1",
			Handle:   req.Term + "-figure",
			Title:    "Figure",
			Variants: &storefront.VariantConnection{Nodes: []storefront.Variant{{
				Price: &storefront.Money{Amount: "24.99", CurrencyCode: "USD"},
			}}},
		}},
	}, nil
}

type recordingSearcher struct {
	params []models.SearchParams
}

func (r *recordingSearcher) Search(_ context.Context, params models.SearchParams) (*models.SearchResponse, error) {
	r.params = append(r.params, params)
	return &models.SearchResponse{Term: params.Term, TotalResults: 4, Filters: params.Filters}, nil
}

func newTestModel(t *testing.T) (*Model, *recordingSearcher) {
	t.Helper()
	controller := predictive.NewController(staticFetcher{}, predictive.Options{})
	t.Cleanup(controller.Close)
	searcher := &recordingSearcher{}
	catalog := filters.Catalog{Vendors: []string{"Bandai", "Funko"}, Types: []string{"Plush"}}
	return NewModel(controller, searcher, catalog), searcher
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTypingDrivesController(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "goku")

	require.Eventually(t, func() bool {
		s := m.controller.Snapshot()
		return s.Term == "goku" && s.State == predictive.StateIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, m.controller.Snapshot().Results.TotalResults)
	assert.Equal(t, "/search?q=goku", m.Location())
}

func TestSelectResultNavigates(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "goku")
	require.Eventually(t, func() bool {
		return m.controller.Snapshot().State == predictive.StateIdle && m.controller.Snapshot().Term == "goku"
	}, time.Second, 5*time.Millisecond)
	m.Update(snapshotMsg(m.controller.Snapshot()))

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "/products/goku-figure", m.navigatedTo)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, paneInput, m.focus)
}

func TestFilterPanelTogglesAndSearches(t *testing.T) {
	m, searcher := newTestModel(t)
	typeText(m, "naruto")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, paneFilters, m.focus)

	// rows: vendor All, Bandai, Funko, type All, Plush
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, "/search?q=naruto&vendor=Funko", m.Location())

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/search?q=naruto&vendor=Funko%7CBandai", m.Location())

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/search?q=naruto", m.Location())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()
	m.Update(msg)
	require.Len(t, searcher.params, 1)
	assert.Equal(t, "naruto", searcher.params[0].Term)
	assert.Empty(t, searcher.params[0].Filters.Vendors)
	assert.Contains(t, m.View(), "4 results")
}

func TestGroupHeading(t *testing.T) {
	assert.Equal(t, "Suggestions", GroupHeading(models.GroupQueries))
	assert.Equal(t, "Products", GroupHeading(models.GroupProducts))
	assert.Equal(t, "Articles", GroupHeading(models.GroupArticles))
}

func TestRenderStyledTitle(t *testing.T) {
	out := RenderStyledTitle("<mark>go</mark>ku <b>gi</b>")
	assert.NotContains(t, out, "<")
	assert.Contains(t, out, "ku")
	assert.Contains(t, out, "gi")
	assert.Equal(t, "plain", RenderStyledTitle("plain"))
}

func TestRenderResults(t *testing.T) {
	set := models.SearchResultSet{
		Results: []models.ResultGroup{{
			Type: models.GroupProducts,
			Items: []models.SearchResultItem{{
				Kind:  models.KindProduct,
				Title: "Naruto Figure",
				URL:   "/products/naruto-figure",
				Price: &models.Money{Amount: "24.9", CurrencyCode: "USD"},
			}},
		}},
		TotalResults: 1,
	}
	out := RenderResults(set, -1)
	assert.Contains(t, out, "Products (1)")
	assert.Contains(t, out, "$24.90")
	assert.Contains(t, out, "/products/naruto-figure")

	empty := RenderResults(models.SearchResultSet{}, -1)
	assert.True(t, strings.Contains(empty, "No results"))
}
