package filters

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-search-api/internal/models"
)

func TestRoundTrip(t *testing.T) {
	states := []State{
		{},
		{Term: "naruto"},
		{Term: "one piece", Vendors: NewSet("Funko")},
		{Vendors: NewSet("Bandai", "Good Smile Company"), Types: NewSet("Plush")},
		{Term: "a&b=c", Vendors: NewSet("Action & Toy Figures"), Types: NewSet("1000 Toys", "Q Posket")},
		{Term: "  spaced  ", Types: NewSet("Hats")},
	}

	// generated states over a small alphabet of values
	values := []string{"Alter", "Sega", "Taito", "Ques Q", "DC Direct"}
	for mask := 0; mask < 1<<len(values); mask++ {
		var vendors, types []string
		for i, v := range values {
			if mask&(1<<i) != 0 {
				vendors = append(vendors, v)
			} else {
				types = append(types, v)
			}
		}
		states = append(states, State{Term: fmt.Sprintf("t%d", mask), Vendors: NewSet(vendors...), Types: NewSet(types...)})
	}

	for _, s := range states {
		encoded := Encode(s, nil)
		// through the wire form as well
		parsed, err := url.ParseQuery(encoded.Encode())
		require.NoError(t, err)

		got := Parse(parsed)
		assert.Truef(t, s.Equal(got), "round trip changed %+v into %+v", s, got)
	}
}

func TestNewSetDropsValuesThatCannotRoundTrip(t *testing.T) {
	s := State{Vendors: NewSet("A|B", " ", "", "Funko", "Funko"), Types: NewSet("|")}
	assert.Equal(t, []string{"Funko"}, s.Vendors.Values())
	assert.True(t, s.Types.IsEmpty())

	got := Parse(Encode(s, nil))
	assert.True(t, s.Equal(got))
}

func TestEmptySetsAreAbsent(t *testing.T) {
	encoded := Encode(State{Term: "naruto"}, nil)

	assert.Equal(t, "naruto", encoded.Get(ParamTerm))
	_, hasVendor := encoded[ParamVendor]
	_, hasType := encoded[ParamType]
	assert.False(t, hasVendor)
	assert.False(t, hasType)

	parsed := Parse(url.Values{ParamTerm: {"naruto"}})
	assert.True(t, parsed.Vendors.IsEmpty())
	assert.True(t, parsed.Types.IsEmpty())
}

func TestParse(t *testing.T) {
	s := Parse(url.Values{
		ParamTerm:   {"dragon ball"},
		ParamVendor: {"Funko|Bandai||Funko"},
		ParamType:   {"Plush"},
	})

	assert.Equal(t, "dragon ball", s.Term)
	assert.Equal(t, []string{"Funko", "Bandai"}, s.Vendors.Values())
	assert.Equal(t, []string{"Plush"}, s.Types.Values())
}

func TestEncodeKeepsUnrelatedParams(t *testing.T) {
	base := url.Values{
		"utm_source":   {"newsletter"},
		ParamCursor:    {"abc"},
		ParamDirection: {"next"},
		ParamVendor:    {"Sega"},
	}

	out := Encode(State{Term: "sonic"}, base)

	assert.Equal(t, "newsletter", out.Get("utm_source"))
	assert.Equal(t, "sonic", out.Get(ParamTerm))
	assert.Empty(t, out.Get(ParamCursor))
	assert.Empty(t, out.Get(ParamDirection))
	assert.Empty(t, out.Get(ParamVendor))
	// base is not modified
	assert.Equal(t, "Sega", base.Get(ParamVendor))
}

func TestClauses(t *testing.T) {
	s := State{Term: "x", Vendors: NewSet("Funko", "Bandai"), Types: NewSet("Plush")}

	assert.Equal(t, []Clause{
		{Dimension: DimensionVendor, Value: "Funko"},
		{Dimension: DimensionVendor, Value: "Bandai"},
		{Dimension: DimensionType, Value: "Plush"},
	}, s.Clauses())

	assert.Nil(t, State{Term: "x"}.Clauses())
}

func TestFromSpec(t *testing.T) {
	s, err := FromSpec("x", models.FilterSpec{Vendors: []string{"Funko", "Funko"}, Types: []string{"Plush"}})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Vendors.Len())
	assert.Equal(t, models.FilterSpec{Vendors: []string{"Funko"}, Types: []string{"Plush"}}, s.Spec())

	_, err = FromSpec("x", models.FilterSpec{Vendors: []string{"A|B"}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStoreCheckUncheck(t *testing.T) {
	history := NewMemoryHistory("/search?q=figure")
	store := NewStore(url.Values{ParamTerm: {"figure"}}, history)

	require.NoError(t, store.SetVendorFilter("Funko", true))
	require.NoError(t, store.SetVendorFilter("Bandai", true))
	require.NoError(t, store.SetVendorFilter("Funko", false))

	current, err := url.Parse(history.Current())
	require.NoError(t, err)
	assert.Equal(t, SearchPath, current.Path)
	assert.Equal(t, "Bandai", current.Query().Get(ParamVendor))
	assert.Equal(t, "figure", current.Query().Get(ParamTerm))
	// every mutation replaced the entry, none pushed a new one
	assert.Equal(t, 1, history.Len())
}

func TestStoreToggleAll(t *testing.T) {
	history := NewMemoryHistory("")
	store := NewStore(url.Values{ParamTerm: {"figure"}, ParamVendor: {"Funko|Bandai"}, ParamType: {"Plush"}}, history)
	require.Equal(t, 2, store.State().Vendors.Len())

	store.ToggleAllVendors()

	assert.True(t, store.State().Vendors.IsEmpty())
	current, err := url.Parse(history.Current())
	require.NoError(t, err)
	_, hasVendor := current.Query()[ParamVendor]
	assert.False(t, hasVendor)
	assert.Equal(t, "Plush", current.Query().Get(ParamType))

	store.ToggleAllTypes()
	assert.Equal(t, "/search?q=figure", history.Current())
}

func TestStoreApply(t *testing.T) {
	history := NewMemoryHistory("")
	store := NewStore(nil, history)

	require.NoError(t, store.Apply(Action{Kind: ActionSetTerm, Value: "gundam"}))
	require.NoError(t, store.Apply(Action{Kind: ActionCheck, Dimension: DimensionType, Value: "Action & Toy Figures"}))
	assert.Equal(t, "/search?q=gundam&type=Action+%26+Toy+Figures", history.Current())

	require.NoError(t, store.Apply(Action{Kind: ActionAll, Dimension: DimensionType}))
	require.NoError(t, store.Apply(Action{Kind: ActionClearTerm}))
	assert.Equal(t, "/search", history.Current())

	assert.Error(t, store.Apply(Action{Kind: "explode"}))
	assert.Error(t, store.Apply(Action{Kind: ActionAll, Dimension: "colour"}))
	assert.ErrorIs(t, store.Apply(Action{Kind: ActionCheck, Dimension: DimensionVendor, Value: " "}), ErrInvalidValue)
}

func TestStoreStateIsCopy(t *testing.T) {
	store := NewStore(url.Values{ParamVendor: {"Funko"}}, nil)
	s := store.State()
	s.Vendors.add("Sega")

	assert.Equal(t, []string{"Funko"}, store.State().Vendors.Values())
}

func TestCatalogPanels(t *testing.T) {
	catalog := Catalog{Vendors: []string{"Funko", "Bandai"}, Types: []string{"Plush"}}
	panels := catalog.Panels(State{Vendors: NewSet("Bandai", "Mystery Co")})

	require.Len(t, panels, 2)
	assert.False(t, panels[0].All)
	assert.Equal(t, []Option{
		{Value: "Funko", Checked: false},
		{Value: "Bandai", Checked: true},
		{Value: "Mystery Co", Checked: true},
	}, panels[0].Options)
	assert.True(t, panels[1].All)
}
