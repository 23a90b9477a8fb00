package filters

import (
	"net/url"
	"strings"
)

// Query parameter names shared with the search page.
const (
	ParamTerm      = "q"
	ParamVendor    = "vendor"
	ParamType      = "type"
	ParamCursor    = "cursor"
	ParamDirection = "direction"
)

// SearchPath is the full search page.
const SearchPath = "/search"

// Encode writes the state into a copy of base. Unrelated parameters are kept;
// pagination parameters are dropped because a cursor is only valid for the
// filters it was issued under. Empty dimensions remove their parameter.
func Encode(s State, base url.Values) url.Values {
	out := url.Values{}
	for k, v := range base {
		out[k] = append([]string(nil), v...)
	}
	out.Del(ParamCursor)
	out.Del(ParamDirection)

	setParam(out, ParamTerm, s.Term)
	setParam(out, ParamVendor, strings.Join(s.Vendors.values, valueSeparator))
	setParam(out, ParamType, strings.Join(s.Types.values, valueSeparator))
	return out
}

// Parse reads a state from query parameters. An absent parameter means the
// dimension is unfiltered.
func Parse(values url.Values) State {
	return State{
		Term:    values.Get(ParamTerm),
		Vendors: parseSet(values.Get(ParamVendor)),
		Types:   parseSet(values.Get(ParamType)),
	}
}

// ParseQuery parses a raw query string, tolerating a leading '?'.
func ParseQuery(raw string) (State, url.Values, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return State{}, nil, err
	}
	return Parse(values), values, nil
}

// Location renders the search page location for the state.
func Location(s State, base url.Values) string {
	query := Encode(s, base).Encode()
	if query == "" {
		return SearchPath
	}
	return SearchPath + "?" + query
}

func parseSet(raw string) Set {
	var s Set
	if raw == "" {
		return s
	}
	for _, v := range strings.Split(raw, valueSeparator) {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s.add(v)
	}
	return s
}

func setParam(values url.Values, key, value string) {
	if value == "" {
		values.Del(key)
		return
	}
	values.Set(key, value)
}
