package genre

import (
	"encoding/json"
	"slices"
	"strings"
)

// Set is a collection of normalized genre names.
type Set map[string]struct{}

// Normalize applies the comparison rules shared by both sides of an
// evaluation: surrounding whitespace is removed and the value is lowercased.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NewSet builds a Set from ground-truth labels. Values that normalize to the
// empty string are skipped.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, value := range values {
		s.add(value)
	}
	return s
}

// ParseIdentified splits a comma-separated model response into a Set.
// An empty or whitespace-only response yields an empty Set.
func ParseIdentified(raw string) Set {
	tokens := strings.Split(raw, ",")
	s := make(Set, len(tokens))
	for _, token := range tokens {
		s.add(token)
	}
	return s
}

func (s Set) add(value string) {
	if normalized := Normalize(value); normalized != "" {
		s[normalized] = struct{}{}
	}
}

// Len returns the number of distinct genres.
func (s Set) Len() int {
	return len(s)
}

// Contains reports whether the normalized form of value is in the set.
func (s Set) Contains(value string) bool {
	_, ok := s[Normalize(value)]
	return ok
}

// Intersect returns the genres present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for g := range s {
		if _, ok := other[g]; ok {
			out[g] = struct{}{}
		}
	}
	return out
}

// SubsetOf reports whether every genre in s is also in other. The empty set
// is a subset of everything.
func (s Set) SubsetOf(other Set) bool {
	for g := range s {
		if _, ok := other[g]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same genres.
func (s Set) Equal(other Set) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}

// Sorted returns the genres in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// String renders the set as a comma-separated sorted list.
func (s Set) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// MarshalJSON encodes the set as a sorted array so output is stable.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON accepts an array of genre names, normalizing each entry.
func (s *Set) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewSet(values...)
	return nil
}
