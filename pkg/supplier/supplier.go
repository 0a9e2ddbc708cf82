// Package supplier decides which glossary terms should be attached to a
// schema field. A Supplier is a pure function of the field path alone:
// it holds no hidden state and may return an empty set, which callers
// treat as "leave this field untouched."
//
// Two strategies are provided: Func wraps an arbitrary callback, and
// Pattern evaluates an ordered table of field-path patterns, emitting
// one association per matched term URN in table order.
package supplier

import (
	"github.com/metaglot/termsync/internal/matcher"
	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/terms"
)

// Supplier computes the ordered terms to attach to a field path.
type Supplier interface {
	// Terms returns the ordered term associations for the field path.
	// An empty result means the field should be left as-is.
	Terms(fieldPath string) terms.Set
}

// Func adapts an arbitrary callback to the Supplier interface.
// The callback must be a pure function of the field path.
type Func func(fieldPath string) terms.Set

// Terms implements the Supplier interface.
func (f Func) Terms(fieldPath string) terms.Set {
	return f(fieldPath)
}

// Static returns a supplier that attaches the same terms to every field.
func Static(assocs ...terms.Association) Supplier {
	set := terms.NewSet(assocs...)
	return Func(func(string) terms.Set {
		return set.Clone()
	})
}

// None returns a supplier that attaches no terms to any field.
func None() Supplier {
	return Func(func(string) terms.Set { return nil })
}

// Rule is one row of a pattern table: a field-path pattern and the term
// URNs attached to fields it matches.
type Rule struct {
	Pattern string   `json:"pattern" yaml:"pattern"`
	Terms   []string `json:"terms" yaml:"terms"`
}

// MatchAll is the pattern of the table-wide fallback rule.
const MatchAll = matcher.MatchAllPattern

// Pattern evaluates an ordered rule table against field paths. Rule
// patterns are unanchored regular expressions. All rules are evaluated
// for every path; each matching rule contributes one association per
// term URN, in table order. Duplicate URNs across rules are dropped,
// first occurrence wins.
type Pattern struct {
	rules    []Rule
	matchers []matcher.Matcher
}

// NewPattern compiles a rule table into a Pattern supplier.
// Rules with the MatchAll pattern match every field path.
func NewPattern(rules []Rule) (*Pattern, error) {
	p := &Pattern{
		rules:    append([]Rule(nil), rules...),
		matchers: make([]matcher.Matcher, len(rules)),
	}
	for i, rule := range rules {
		if rule.Pattern == "" {
			return nil, errors.NewValidationError("pattern", i, "rule has empty pattern")
		}
		if rule.Pattern == MatchAll {
			continue // nil matcher slot, handled as always-match
		}
		m, err := matcher.New(matcher.Regex, rule.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d (%s)", i, rule.Pattern)
		}
		p.matchers[i] = m
	}
	return p, nil
}

// MustPattern compiles a rule table and panics on error.
func MustPattern(rules []Rule) *Pattern {
	p, err := NewPattern(rules)
	if err != nil {
		panic(err)
	}
	return p
}

// Terms implements the Supplier interface.
func (p *Pattern) Terms(fieldPath string) terms.Set {
	var out terms.Set
	for i, rule := range p.rules {
		if p.matchers[i] != nil && !p.matchers[i].Match(fieldPath) {
			continue
		}
		for _, urn := range rule.Terms {
			out = out.Add(terms.New(urn))
		}
	}
	return out
}

// Rules returns a copy of the compiled rule table.
func (p *Pattern) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}
