package reconcile

import (
	"strings"

	"github.com/metaglot/termsync/pkg/errors"
)

// Policy defines how desired term annotations merge with server state.
type Policy string

const (
	// Overwrite discards all server-side term state for the entity.
	Overwrite Policy = "OVERWRITE"

	// Patch unions desired terms with server state and never drops a
	// field that exists only on the server.
	Patch Policy = "PATCH"
)

// ParsePolicy converts a string to a Policy, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToUpper(strings.TrimSpace(s))) {
	case Overwrite:
		return Overwrite, nil
	case Patch:
		return Patch, nil
	default:
		return "", errors.NewValidationError("policy", s, "must be OVERWRITE or PATCH")
	}
}

// String returns the policy name.
func (p Policy) String() string {
	return string(p)
}

// Valid reports whether the policy is a known value.
func (p Policy) Valid() bool {
	return p == Overwrite || p == Patch
}
