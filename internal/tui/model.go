package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/predictive"
)

// Searcher runs full searches for the current filter state.
type Searcher interface {
	Search(ctx context.Context, params models.SearchParams) (*models.SearchResponse, error)
}

type pane int

const (
	paneInput pane = iota
	paneResults
	paneFilters
)

type snapshotMsg predictive.Snapshot

type searchDoneMsg struct {
	resp *models.SearchResponse
	err  error
}

// filterRow is one selectable line of the filter panel.
type filterRow struct {
	dimension filters.Dimension
	value     string // empty for the "All" row
}

// Model is the interactive predictive search screen. Typing drives the
// predictive controller; the filter panel edits the filter store and
// ctrl+s runs a full search for the resulting location.
type Model struct {
	controller *predictive.Controller
	store      *filters.Store
	history    *filters.MemoryHistory
	catalog    filters.Catalog
	searcher   Searcher

	input    textinput.Model
	snapshot predictive.Snapshot
	updates  chan predictive.Snapshot
	stop     func()

	focus       pane
	selected    int
	filterRow   int
	full        *models.SearchResponse
	status      string
	err         error
	navigatedTo string
	width       int
}

func NewModel(controller *predictive.Controller, searcher Searcher, catalog filters.Catalog) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search products, collections, pages..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	history := filters.NewMemoryHistory(filters.SearchPath)
	m := &Model{
		controller: controller,
		store:      filters.NewStore(nil, history),
		history:    history,
		catalog:    catalog,
		searcher:   searcher,
		input:      ti,
		snapshot:   controller.Snapshot(),
		updates:    make(chan predictive.Snapshot, 16),
		selected:   -1,
	}
	m.stop = controller.Subscribe(func(s predictive.Snapshot) {
		select {
		case m.updates <- s:
		default:
			// Drop the oldest pending snapshot so the newest always lands.
			select {
			case <-m.updates:
			default:
			}
			m.updates <- s
		}
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForSnapshot())
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.updates)
	}
}

// Location is the full search location for the current term and filters.
func (m *Model) Location() string {
	return m.history.Current()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-10)
		return m, nil

	case snapshotMsg:
		m.snapshot = predictive.Snapshot(msg)
		if m.selected >= len(flatten(m.snapshot.Results)) {
			m.selected = -1
		}
		return m, m.waitForSnapshot()

	case searchDoneMsg:
		m.full, m.err = msg.resp, msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Full search: %d results", msg.resp.TotalResults)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.stop()
		return m, tea.Quit
	case "tab":
		m.cycleFocus()
		return m, nil
	case "ctrl+s":
		return m, m.runFullSearch()
	case "esc":
		if m.focus == paneInput {
			m.controller.Escape()
			m.input.Blur()
			m.focus = paneResults
			return m, nil
		}
		m.controller.ClickOutside()
		return m, nil
	}

	switch m.focus {
	case paneResults:
		return m.handleResultsKey(msg)
	case paneFilters:
		return m.handleFiltersKey(msg)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.controller.Input(value)
		m.store.SetTerm(strings.TrimSpace(value))
		m.selected = -1
	}
	if msg.String() == "down" {
		m.focus = paneResults
		m.input.Blur()
		m.controller.Blur()
		m.selected = 0
	}
	return m, cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := flatten(m.snapshot.Results)
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		} else {
			return m, m.focusInput()
		}
	case "down", "j":
		if m.selected < len(items)-1 {
			m.selected++
		}
	case "enter":
		if m.selected >= 0 && m.selected < len(items) {
			m.navigatedTo = m.controller.Select(items[m.selected])
			m.status = "Navigate to " + m.navigatedTo
			m.input.SetValue("")
			m.store.ClearTerm()
			m.selected = -1
			return m, m.focusInput()
		}
	case "v":
		m.status = "View all: " + m.controller.ViewAllURL()
	}
	return m, nil
}

func (m *Model) handleFiltersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.filterRows()
	switch msg.String() {
	case "up", "k":
		if m.filterRow > 0 {
			m.filterRow--
		}
	case "down", "j":
		if m.filterRow < len(rows)-1 {
			m.filterRow++
		}
	case " ", "enter":
		if m.filterRow < len(rows) {
			m.toggle(rows[m.filterRow])
			m.status = "Location " + m.Location()
		}
	}
	return m, nil
}

func (m *Model) toggle(row filterRow) {
	var err error
	switch {
	case row.value == "":
		err = m.store.Apply(filters.Action{Kind: filters.ActionAll, Dimension: row.dimension})
	default:
		state := m.store.State()
		checked := state.Vendors.Contains(row.value)
		if row.dimension == filters.DimensionType {
			checked = state.Types.Contains(row.value)
		}
		kind := filters.ActionCheck
		if checked {
			kind = filters.ActionUncheck
		}
		err = m.store.Apply(filters.Action{Kind: kind, Dimension: row.dimension, Value: row.value})
	}
	m.err = err
}

func (m *Model) filterRows() []filterRow {
	var rows []filterRow
	for _, p := range m.catalog.Panels(m.store.State()) {
		rows = append(rows, filterRow{dimension: p.Dimension})
		for _, o := range p.Options {
			rows = append(rows, filterRow{dimension: p.Dimension, value: o.Value})
		}
	}
	return rows
}

func (m *Model) runFullSearch() tea.Cmd {
	if m.searcher == nil {
		return nil
	}
	state := m.store.State()
	params := models.SearchParams{Term: state.Term, Filters: state.Spec()}
	searcher := m.searcher
	m.status = "Searching " + m.Location()
	return func() tea.Msg {
		resp, err := searcher.Search(context.Background(), params)
		return searchDoneMsg{resp: resp, err: err}
	}
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case paneInput:
		m.focus = paneResults
		m.input.Blur()
		m.controller.Blur()
		if m.selected < 0 {
			m.selected = 0
		}
	case paneResults:
		m.focus = paneFilters
	default:
		m.focus = paneInput
		m.input.Focus()
		m.controller.Focus(m.input.Value())
	}
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = paneInput
	m.selected = -1
	m.controller.Focus(m.input.Value())
	return m.input.Focus()
}

func (m *Model) View() string {
	var sections []string
	sections = append(sections, m.input.View())

	if m.snapshot.Open {
		results := RenderResults(m.snapshot.Results, m.selected)
		if m.snapshot.State == predictive.StatePending {
			results = mutedStyle.Render("Searching...") + "\n" + results
		}
		style := panelStyle
		if m.focus == paneResults {
			style = activePanel
		}
		sections = append(sections, style.Render(strings.TrimRight(results, "\n")))
	}

	filterStyle := panelStyle
	if m.focus == paneFilters {
		filterStyle = activePanel
	}
	sections = append(sections, filterStyle.Render(m.renderFilters()))

	if m.full != nil {
		sections = append(sections, panelStyle.Render(strings.TrimRight(RenderSearchResponse(m.full), "\n")))
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.err.Error()))
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, mutedStyle.Render("tab: switch pane  enter/space: select  ctrl+s: full search  esc: blur/close  ctrl+c: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderFilters() string {
	var b strings.Builder
	state := m.store.State()
	row := 0
	for _, p := range m.catalog.Panels(state) {
		b.WriteString(headingStyle.Render(dimensionLabel(p.Dimension)))
		b.WriteString("\n")
		lines := []string{checkbox(p.All) + " All"}
		for _, o := range p.Options {
			lines = append(lines, checkbox(o.Checked)+" "+o.Value)
		}
		for _, line := range lines {
			if m.focus == paneFilters && row == m.filterRow {
				line = selectedStyle.Render(line)
			}
			b.WriteString("  " + line + "\n")
			row++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func dimensionLabel(d filters.Dimension) string {
	if d == filters.DimensionVendor {
		return "Vendor"
	}
	return "Product type"
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
