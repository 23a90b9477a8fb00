package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storefront-search-api/internal/models"
	"storefront-search-api/pkg/utils"
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	priceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	urlStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activePanel    = panelStyle.BorderForeground(lipgloss.Color("170"))
)

// GroupHeading renders a group name for display, e.g. "queries" -> "Suggestions".
func GroupHeading(g models.GroupType) string {
	if g == models.GroupQueries {
		return "Suggestions"
	}
	return cases.Title(language.English).String(string(g))
}

// RenderResults renders a result set as plain lines grouped by type. The
// item at selected (in display order) is highlighted; pass -1 for none.
func RenderResults(set models.SearchResultSet, selected int) string {
	var b strings.Builder
	index := 0
	for _, group := range set.Results {
		if len(group.Items) == 0 {
			continue
		}
		b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", GroupHeading(group.Type), len(group.Items))))
		b.WriteString("\n")
		for _, item := range group.Items {
			line := "  " + RenderItem(item)
			if index == selected {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
			index++
		}
	}
	if index == 0 {
		b.WriteString(mutedStyle.Render("No results"))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderItem renders one item: highlighted title, price for products and
// the item URL.
func RenderItem(item models.SearchResultItem) string {
	parts := []string{RenderStyledTitle(item.DisplayTitle())}
	if item.Price != nil {
		parts = append(parts, priceStyle.Render(utils.FormatPrice(*item.Price)))
	}
	parts = append(parts, urlStyle.Render(item.URL))
	return strings.Join(parts, "  ")
}

// RenderStyledTitle highlights the segments of a backend styled title that
// are wrapped in markup tags such as <mark> or <b>.
func RenderStyledTitle(styled string) string {
	var b strings.Builder
	depth := 0
	for len(styled) > 0 {
		open := strings.IndexByte(styled, '<')
		if open < 0 {
			b.WriteString(renderSegment(styled, depth > 0))
			break
		}
		closeIdx := strings.IndexByte(styled[open:], '>')
		if closeIdx < 0 {
			b.WriteString(renderSegment(styled, depth > 0))
			break
		}
		b.WriteString(renderSegment(styled[:open], depth > 0))

		tag := styled[open+1 : open+closeIdx]
		switch {
		case strings.HasPrefix(tag, "/"):
			if depth > 0 {
				depth--
			}
		case !strings.HasSuffix(tag, "/"):
			depth++
		}
		styled = styled[open+closeIdx+1:]
	}
	return b.String()
}

func renderSegment(s string, highlighted bool) string {
	if s == "" || !highlighted {
		return s
	}
	return highlightStyle.Render(s)
}

// RenderSearchResponse renders a full search page with its pagination state.
func RenderSearchResponse(resp *models.SearchResponse) string {
	var b strings.Builder
	b.WriteString(RenderResults(models.SearchResultSet{Results: resp.Results, TotalResults: resp.TotalResults}, -1))

	summary := fmt.Sprintf("%d results for %q", resp.TotalResults, resp.Term)
	if len(resp.Filters.Vendors) > 0 {
		summary += " | vendor: " + strings.Join(resp.Filters.Vendors, ", ")
	}
	if len(resp.Filters.Types) > 0 {
		summary += " | type: " + strings.Join(resp.Filters.Types, ", ")
	}
	if resp.Cached {
		summary += " | cached"
	}
	b.WriteString(statusStyle.Render(summary))
	b.WriteString("\n")

	if info := resp.PageInfo; info != nil {
		if info.HasPreviousPage {
			b.WriteString(statusStyle.Render("previous: --cursor " + info.StartCursor + " --direction previous"))
			b.WriteString("\n")
		}
		if info.HasNextPage {
			b.WriteString(statusStyle.Render("next: --cursor " + info.EndCursor + " --direction next"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// flatten lists the items of a set in display order.
func flatten(set models.SearchResultSet) []models.SearchResultItem {
	var items []models.SearchResultItem
	for _, g := range set.Results {
		items = append(items, g.Items...)
	}
	return items
}
