package filters

// Set is a string set that remembers insertion order so that serialized
// query strings are stable. Equality ignores order.
type Set struct {
	values []string
}

// NewSet builds a set from values, dropping duplicates and values rejected
// by ValidateValue, so every Set survives a URL round trip.
func NewSet(values ...string) Set {
	var s Set
	for _, v := range values {
		if ValidateValue(v) != nil {
			continue
		}
		s.add(v)
	}
	return s
}

func (s *Set) add(v string) bool {
	if s.Contains(v) {
		return false
	}
	s.values = append(s.values, v)
	return true
}

func (s *Set) remove(v string) bool {
	for i, existing := range s.values {
		if existing == v {
			s.values = append(s.values[:i:i], s.values[i+1:]...)
			return true
		}
	}
	return false
}

func (s Set) Contains(v string) bool {
	for _, existing := range s.values {
		if existing == v {
			return true
		}
	}
	return false
}

func (s Set) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the dimension is unfiltered.
func (s Set) IsEmpty() bool {
	return len(s.values) == 0
}

// Values returns a copy of the values in insertion order.
func (s Set) Values() []string {
	if len(s.values) == 0 {
		return nil
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

func (s Set) Equal(other Set) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for _, v := range s.values {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}
