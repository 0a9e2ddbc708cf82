// Package reconcile merges desired glossary-term annotations on schema
// fields with an optional server-side snapshot of the same schema,
// under OVERWRITE or PATCH semantics.
//
// The reconciler is a pure, single-pass transform: inputs are never
// mutated, the returned field list is backed by fresh storage, and no
// state survives across calls. Distinct entities may therefore be
// reconciled concurrently without coordination.
package reconcile

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/schema"
	"github.com/metaglot/termsync/pkg/supplier"
	"github.com/metaglot/termsync/pkg/terms"
)

// Reconciler merges desired field terms with server-side schema state.
type Reconciler struct {
	actor string
	now   func() time.Time
	log   *zerolog.Logger
}

// New creates a Reconciler with the given options.
func New(opts ...Option) (*Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		actor: options.actor,
		now:   options.now,
		log:   options.log,
	}, nil
}

// Reconcile produces the merged schema-field list for one entity.
//
// localFields is the desired schema; serverFields is the server-side
// snapshot, nil when the entity has no schema metadata on the server.
// Under Patch, server-only fields are appended verbatim so the merge
// never drops a field that exists on the server. Under Overwrite,
// serverFields is ignored entirely.
//
// replaceExisting controls whether a field's prior term annotation is
// discarded (true) or retained after the newly supplied terms (false).
func (r *Reconciler) Reconcile(localFields, serverFields schema.Fields, policy Policy, replaceExisting bool, sup supplier.Supplier) (*Result, error) {
	if !policy.Valid() {
		return nil, errors.NewValidationError("policy", policy, "unknown merge policy")
	}
	if sup == nil {
		return nil, errors.NewValidationError("supplier", nil, "term supplier cannot be nil")
	}

	working := localFields.Clone()
	result := &Result{Policy: policy}

	// Step A: under Patch, fields present on the server but absent from
	// the local schema are carried over verbatim, and a lookup by
	// fieldPath is kept for the per-field delta in step B. Under
	// Overwrite the lookup stays empty.
	serverIndex := map[string]schema.Field{}
	if policy == Patch && serverFields != nil {
		serverIndex = serverFields.Index(r.log)
		localPaths := make(map[string]struct{}, len(working))
		for _, f := range working {
			localPaths[f.FieldPath] = struct{}{}
		}
		for _, f := range serverFields {
			if _, ok := localPaths[f.FieldPath]; ok {
				continue
			}
			localPaths[f.FieldPath] = struct{}{}
			working = append(working, f.Clone())
			result.ServerOnlyFields++
		}
	}

	// Step B: per-field term merge across the (possibly extended) list.
	merged := make(schema.Fields, 0, len(working))
	for _, field := range working {
		out, changed := r.extendField(field, serverIndex, replaceExisting, sup)
		merged = append(merged, out)
		if changed {
			result.AnnotatedFields++
		} else {
			result.UntouchedFields++
		}
	}

	result.Fields = merged
	return result, nil
}

// extendField applies the per-field merge and reports whether the
// field's annotation was replaced.
func (r *Reconciler) extendField(field schema.Field, serverIndex map[string]schema.Field, replaceExisting bool, sup supplier.Supplier) (schema.Field, bool) {
	desired := sup.Terms(field.FieldPath)
	if len(desired) == 0 {
		// Explicit short-circuit: no terms to add means the field and
		// its existing annotation pass through untouched.
		return field, false
	}

	// Retain the field's existing terms after the newly supplied ones
	// unless the caller asked to replace them.
	if field.Glossary != nil && !replaceExisting {
		desired = desired.Add(field.Glossary.Terms...)
	}

	// Compute the patch delta against the server's terms for this
	// fieldPath, when any exist.
	var serverTerms terms.Set
	var toAdd terms.Set
	if serverField, ok := serverIndex[field.FieldPath]; ok && serverField.Glossary != nil && len(serverField.Glossary.Terms) > 0 {
		serverTerms = serverField.Glossary.Terms
		toAdd = desired.Without(serverTerms.URNSet())
	}

	// An empty delta is ambiguous between "no server baseline existed"
	// and "everything desired already matched server state"; both fall
	// back to the full desired set so Overwrite and first-time Patch
	// add everything.
	if len(toAdd) == 0 {
		toAdd = desired
	}

	// Keep the prior stamp when the field already carried an
	// annotation; mint a fresh one otherwise.
	audit := schema.NewAuditStamp(r.actor, r.now())
	if field.Glossary != nil {
		audit = field.Glossary.Audit
	}

	return field.WithGlossary(&schema.Glossary{
		Terms: toAdd.Add(serverTerms...),
		Audit: audit,
	}), true
}
