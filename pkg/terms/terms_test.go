package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSetDropsDuplicateURNs(t *testing.T) {
	set := NewSet(
		New("urn:li:glossaryTerm:A"),
		New("urn:li:glossaryTerm:B"),
		New("urn:li:glossaryTerm:A"),
	)

	assert.Equal(t, []string{"urn:li:glossaryTerm:A", "urn:li:glossaryTerm:B"}, set.URNs())
}

func TestSetAddPreservesFirstOccurrencePosition(t *testing.T) {
	set := NewSet(New("a"), New("b"))
	out := set.Add(New("b"), New("c"), New("a"))

	assert.Equal(t, []string{"a", "b", "c"}, out.URNs())

	// The receiver is untouched.
	assert.Equal(t, []string{"a", "b"}, set.URNs())
}

func TestSetAddComparesByURNOnly(t *testing.T) {
	set := NewSet(Association{URN: "a", Name: "first"})
	out := set.Add(Association{URN: "a", Name: "second"})

	assert.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Name, "first occurrence wins")
}

func TestSetWithout(t *testing.T) {
	set := NewSet(New("a"), New("b"), New("c"))
	out := set.Without(map[string]struct{}{"b": {}})

	assert.Equal(t, []string{"a", "c"}, out.URNs())
	assert.Equal(t, []string{"a", "b", "c"}, set.URNs())
}

func TestSetContains(t *testing.T) {
	set := NewSet(New("a"))

	assert.True(t, set.Contains("a"))
	assert.False(t, set.Contains("b"))
}

func TestSetConcat(t *testing.T) {
	left := NewSet(New("a"))
	right := NewSet(New("b"), New("c"))

	assert.Equal(t, []string{"a", "b", "c"}, left.Concat(right).URNs())
}

func TestSetCloneIsIndependent(t *testing.T) {
	set := NewSet(Association{URN: "a", Name: "original"})
	clone := set.Clone()
	clone[0].Name = "mutated"

	assert.Equal(t, "original", set[0].Name)
}

func TestNilSetOperations(t *testing.T) {
	var set Set

	assert.Nil(t, set.Clone())
	assert.Empty(t, set.URNs())
	assert.False(t, set.Contains("a"))
	assert.Equal(t, []string{"a"}, set.Add(New("a")).URNs())
}
