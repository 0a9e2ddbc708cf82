// Package terms provides glossary term associations and ordered,
// identifier-keyed term sets used throughout the termsync system.
// A term is identified by an opaque URN; two associations are the same
// term exactly when their URNs are equal, regardless of any descriptive
// metadata they carry.
package terms

// Association links a schema field to a glossary term.
// Equality is by URN only; Name and Description are descriptive
// metadata carried along for display purposes.
type Association struct {
	URN         string `json:"urn" yaml:"urn"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// New returns an Association for the given term URN.
func New(urn string) Association {
	return Association{URN: urn}
}

// Set is an ordered sequence of term associations, semantically a set
// keyed by URN. Order is preserved for stable output; when the same URN
// appears more than once the first occurrence keeps its position.
type Set []Association

// NewSet builds a Set from associations, dropping later duplicates by URN.
func NewSet(assocs ...Association) Set {
	set := make(Set, 0, len(assocs))
	return set.Add(assocs...)
}

// Add appends associations whose URNs are not already present and
// returns the extended set. The receiver is not modified.
func (s Set) Add(assocs ...Association) Set {
	out := make(Set, len(s), len(s)+len(assocs))
	copy(out, s)
	seen := make(map[string]struct{}, len(out))
	for _, a := range out {
		seen[a.URN] = struct{}{}
	}
	for _, a := range assocs {
		if _, ok := seen[a.URN]; ok {
			continue
		}
		seen[a.URN] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Contains reports whether the set holds a term with the given URN.
func (s Set) Contains(urn string) bool {
	for _, a := range s {
		if a.URN == urn {
			return true
		}
	}
	return false
}

// URNs returns the identifier set of the terms, in order.
func (s Set) URNs() []string {
	urns := make([]string, len(s))
	for i, a := range s {
		urns[i] = a.URN
	}
	return urns
}

// Filter returns the associations for which keep returns true,
// preserving order. The receiver is not modified.
func (s Set) Filter(keep func(Association) bool) Set {
	out := make(Set, 0, len(s))
	for _, a := range s {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// Without returns the associations whose URNs are absent from exclude,
// preserving order.
func (s Set) Without(exclude map[string]struct{}) Set {
	return s.Filter(func(a Association) bool {
		_, ok := exclude[a.URN]
		return !ok
	})
}

// Concat appends other to the set without re-checking for duplicates.
// Callers must guarantee the two sequences are already disjoint by URN.
func (s Set) Concat(other Set) Set {
	out := make(Set, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	return out
}

// Clone returns a copy of the set backed by fresh storage.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// URNSet returns the URNs as a lookup map.
func (s Set) URNSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, a := range s {
		set[a.URN] = struct{}{}
	}
	return set
}
