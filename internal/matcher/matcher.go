// Package matcher provides pattern matching over schema field paths
// using glob and regex patterns, with compile-time validation.
package matcher

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto attempts to detect the pattern type.
	Auto
)

// MatchAllPattern matches every field path. Pattern tables use it as the
// fallback rule.
const MatchAllPattern = ".*"

// Matcher checks field paths against a compiled pattern.
type Matcher interface {
	// Match checks if the field path matches the pattern
	Match(fieldPath string) bool
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// matcher is the concrete implementation of the Matcher interface.
type matcher struct {
	pattern     string
	patternType PatternType
	compiled    *regexp.Regexp
}

// New creates a new Matcher with the specified pattern and type.
func New(patternType PatternType, pattern string) (Matcher, error) {
	m := &matcher{
		pattern:     pattern,
		patternType: patternType,
	}

	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}

	return m, nil
}

// MustNew creates a new Matcher and panics if there's an error.
func MustNew(patternType PatternType, pattern string) Matcher {
	m, err := New(patternType, pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// compile prepares the pattern for matching.
func (m *matcher) compile() error {
	switch m.patternType {
	case Glob:
		// Validate glob pattern
		if _, err := filepath.Match(m.pattern, ""); err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
	case Regex:
		compiled, err := regexp.Compile(m.pattern)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		m.compiled = compiled
	default:
		return fmt.Errorf("unsupported pattern type: %v", m.patternType)
	}
	return nil
}

// Match checks if the field path matches the pattern.
func (m *matcher) Match(fieldPath string) bool {
	switch m.patternType {
	case Glob:
		matched, _ := filepath.Match(m.pattern, fieldPath)
		return matched
	case Regex:
		return m.compiled.MatchString(fieldPath)
	default:
		return false
	}
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType attempts to detect if a pattern is glob or regex.
func detectPatternType(pattern string) PatternType {
	// Check for common regex metacharacters not used in glob
	regexIndicators := []string{
		"^", "$", "\\d", "\\w", "\\s", "\\D", "\\W", "\\S",
		"(?:", "(?i)", "(?m)", "(?s)",
		"{", "}", "+", "|", "(", ")",
	}

	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}

	// Field paths use dots as separators, so a bare dot alone is not
	// enough to call a pattern a regex.
	if strings.ContainsAny(pattern, "*?[]") {
		return Glob
	}

	return Glob
}

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// IsRegexPattern attempts to detect if a pattern is a regex.
func IsRegexPattern(pattern string) bool {
	return detectPatternType(pattern) == Regex
}
