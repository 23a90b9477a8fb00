package filters

import (
	"errors"
	"fmt"
	"strings"

	"storefront-search-api/internal/models"
)

// Dimension is an independent facet. Values OR together within a dimension
// and dimensions AND together.
type Dimension string

const (
	DimensionVendor Dimension = "vendor"
	DimensionType   Dimension = "type"
)

// valueSeparator joins selected values inside a single query parameter.
const valueSeparator = "|"

var ErrInvalidValue = errors.New("invalid filter value")

// State holds the current search term and filter selections. An empty set
// means every value of that dimension is allowed.
type State struct {
	Term    string
	Vendors Set
	Types   Set
}

func (s State) Equal(other State) bool {
	return s.Term == other.Term && s.Vendors.Equal(other.Vendors) && s.Types.Equal(other.Types)
}

// Spec converts the state to its transport form.
func (s State) Spec() models.FilterSpec {
	return models.FilterSpec{
		Vendors: s.Vendors.Values(),
		Types:   s.Types.Values(),
	}
}

// FromSpec builds a state from the transport form, validating every value.
func FromSpec(term string, spec models.FilterSpec) (State, error) {
	state := State{Term: term}
	for _, v := range spec.Vendors {
		if err := ValidateValue(v); err != nil {
			return State{}, err
		}
		state.Vendors.add(v)
	}
	for _, v := range spec.Types {
		if err := ValidateValue(v); err != nil {
			return State{}, err
		}
		state.Types.add(v)
	}
	return state, nil
}

// ValidateValue rejects values that could not survive a URL round trip.
func ValidateValue(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: empty value", ErrInvalidValue)
	}
	if strings.Contains(v, valueSeparator) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidValue, v, valueSeparator)
	}
	return nil
}

// Clause is a single backend filter clause.
type Clause struct {
	Dimension Dimension
	Value     string
}

// Clauses lists one clause per selected value, vendors first. The backend
// composes them; an unfiltered state yields nil.
func (s State) Clauses() []Clause {
	var clauses []Clause
	for _, v := range s.Vendors.values {
		clauses = append(clauses, Clause{Dimension: DimensionVendor, Value: v})
	}
	for _, v := range s.Types.values {
		clauses = append(clauses, Clause{Dimension: DimensionType, Value: v})
	}
	return clauses
}

func (s *State) set(d Dimension) (*Set, error) {
	switch d {
	case DimensionVendor:
		return &s.Vendors, nil
	case DimensionType:
		return &s.Types, nil
	default:
		return nil, fmt.Errorf("unknown filter dimension %q", d)
	}
}
