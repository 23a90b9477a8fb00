package filters

import (
	"fmt"
	"net/url"
	"sync"
)

// Navigator applies a location to the page's history. Replace must rewrite
// the current entry instead of pushing a new one.
type Navigator interface {
	Replace(location string)
}

// Store owns the filter state and is the only writer of the search query
// string. Every action rewrites the location exactly once.
type Store struct {
	mu    sync.Mutex
	state State
	base  url.Values
	nav   Navigator
}

// NewStore creates a store from the current query parameters.
func NewStore(current url.Values, nav Navigator) *Store {
	base := url.Values{}
	for k, v := range current {
		base[k] = append([]string(nil), v...)
	}
	return &Store{
		state: Parse(current),
		base:  base,
		nav:   nav,
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

// Location returns the location that reflects the current state.
func (s *Store) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Location(s.state, s.base)
}

// SetVendorFilter checks or unchecks a single vendor.
func (s *Store) SetVendorFilter(vendor string, checked bool) error {
	return s.setFilter(DimensionVendor, vendor, checked)
}

// SetTypeFilter checks or unchecks a single product type.
func (s *Store) SetTypeFilter(productType string, checked bool) error {
	return s.setFilter(DimensionType, productType, checked)
}

// ToggleAllVendors clears the vendor selection. "All" is the empty set, not
// an enumeration of the known vendors.
func (s *Store) ToggleAllVendors() {
	_ = s.clearDimension(DimensionVendor)
}

// ToggleAllTypes clears the product type selection.
func (s *Store) ToggleAllTypes() {
	_ = s.clearDimension(DimensionType)
}

// Apply runs a named action against the store.
func (s *Store) Apply(action Action) error {
	switch action.Kind {
	case ActionCheck, ActionUncheck:
		return s.setFilter(action.Dimension, action.Value, action.Kind == ActionCheck)
	case ActionAll:
		return s.clearDimension(action.Dimension)
	case ActionSetTerm:
		s.SetTerm(action.Value)
		return nil
	case ActionClearTerm:
		s.ClearTerm()
		return nil
	default:
		return fmt.Errorf("unknown filter action %q", action.Kind)
	}
}

func (s *Store) SetTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Term = term
	s.commit()
}

func (s *Store) ClearTerm() {
	s.SetTerm("")
}

func (s *Store) setFilter(d Dimension, value string, checked bool) error {
	if err := ValidateValue(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.state.set(d)
	if err != nil {
		return err
	}
	if checked {
		set.add(value)
	} else {
		set.remove(value)
	}
	s.commit()
	return nil
}

func (s *Store) clearDimension(d Dimension) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.state.set(d)
	if err != nil {
		return err
	}
	*set = Set{}
	s.commit()
	return nil
}

// commit rewrites the location. Callers hold s.mu so rewrites never
// interleave.
func (s *Store) commit() {
	s.base = Encode(s.state, s.base)
	if s.nav != nil {
		s.nav.Replace(Location(s.state, s.base))
	}
}

func (s *Store) copyState() State {
	return State{
		Term:    s.state.Term,
		Vendors: NewSet(s.state.Vendors.values...),
		Types:   NewSet(s.state.Types.values...),
	}
}
