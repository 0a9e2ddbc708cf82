package reconcile

import (
	"fmt"

	"github.com/metaglot/termsync/pkg/schema"
)

// Result holds the merged field list for one entity plus counters
// describing what the merge did.
type Result struct {
	// Fields is the final merged schema-field list.
	Fields schema.Fields

	// Policy is the merge policy the result was produced under.
	Policy Policy

	// ServerOnlyFields counts fields carried over from the server
	// because they were absent from the local schema (Patch only).
	ServerOnlyFields int

	// AnnotatedFields counts fields whose term annotation was replaced.
	AnnotatedFields int

	// UntouchedFields counts fields passed through unchanged because
	// the supplier had no terms for them.
	UntouchedFields int
}

// Changed reports whether the merge replaced any annotation or carried
// over any server-only field.
func (r *Result) Changed() bool {
	return r.AnnotatedFields > 0 || r.ServerOnlyFields > 0
}

// Summary returns a one-line description of the merge outcome.
func (r *Result) Summary() string {
	return fmt.Sprintf("%s merge: %d fields (%d annotated, %d untouched, %d from server)",
		r.Policy, len(r.Fields), r.AnnotatedFields, r.UntouchedFields, r.ServerOnlyFields)
}
