package pipeline

import (
	"time"

	"github.com/metaglot/termsync/pkg/reconcile"
	"github.com/metaglot/termsync/pkg/transformer"
)

// Failure records one entity whose mutation could not be applied.
type Failure struct {
	EntityURN string
	Err       error
}

// Report summarizes one pipeline run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	// EntitiesScanned counts entities the run attempted.
	EntitiesScanned int
	// EntitiesChanged counts entities whose aspect was modified.
	EntitiesChanged int
	// EntitiesUnchanged counts entities whose merge was a no-op.
	EntitiesUnchanged int
	// EntitiesFailed counts entities whose mutation failed.
	EntitiesFailed int

	// FieldsAnnotated sums annotated fields across the run.
	FieldsAnnotated int
	// ServerFieldsKept sums server-only fields carried over under Patch.
	ServerFieldsKept int

	// Failures lists the failed entities with their errors.
	Failures []Failure

	// Outcomes holds the per-entity transform results in input order;
	// failed entities leave a nil slot.
	Outcomes []*transformer.Outcome
}

func newReport(runID string, scanned int) *Report {
	return &Report{
		RunID:           runID,
		StartedAt:       time.Now(),
		EntitiesScanned: scanned,
	}
}

func (r *Report) record(merge *reconcile.Result) {
	if merge.Changed() {
		r.EntitiesChanged++
	} else {
		r.EntitiesUnchanged++
	}
	r.FieldsAnnotated += merge.AnnotatedFields
	r.ServerFieldsKept += merge.ServerOnlyFields
}

func (r *Report) fail(entityURN string, err error) {
	r.EntitiesFailed++
	r.Failures = append(r.Failures, Failure{EntityURN: entityURN, Err: err})
}

func (r *Report) finish() {
	r.Duration = time.Since(r.StartedAt)
}

// OK reports whether every entity in the run succeeded.
func (r *Report) OK() bool {
	return r.EntitiesFailed == 0
}
