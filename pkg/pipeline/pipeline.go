// Package pipeline runs the schema-terms transform across batches of
// entities. Entities share no state, so the runner parallelizes at
// entity granularity and collects a per-run report.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/graph"
	"github.com/metaglot/termsync/pkg/logging"
	"github.com/metaglot/termsync/pkg/schema"
	"github.com/metaglot/termsync/pkg/transformer"
)

// DefaultConcurrency bounds parallel entity mutations when the caller
// does not choose a limit.
const DefaultConcurrency = 8

// Entity pairs an entity URN with its current schema metadata aspect.
type Entity struct {
	URN    string
	Aspect *schema.Metadata
}

// Runner applies a schema-terms transformer to batches of entities.
type Runner struct {
	transform   *transformer.SchemaTerms
	sink        graph.Writer
	concurrency int
	log         *zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithConcurrency bounds the number of entities mutated in parallel.
func WithConcurrency(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			return errors.NewValidationError("concurrency", n, "must be at least 1")
		}
		r.concurrency = n
		return nil
	}
}

// WithSink persists each merged aspect after a successful transform.
func WithSink(sink graph.Writer) Option {
	return func(r *Runner) error {
		r.sink = sink
		return nil
	}
}

// WithLogger sets the runner's logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(r *Runner) error {
		if log == nil {
			return errors.NewValidationError("logger", nil, "cannot be nil")
		}
		r.log = log
		return nil
	}
}

// NewRunner creates a batch runner around the given transformer.
func NewRunner(transform *transformer.SchemaTerms, opts ...Option) (*Runner, error) {
	if transform == nil {
		return nil, errors.NewValidationError("transformer", nil, "cannot be nil")
	}
	r := &Runner{
		transform:   transform,
		concurrency: DefaultConcurrency,
		log:         logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run transforms every entity in the batch. A failed entity is recorded
// in the report and does not stop the rest of the batch; Run returns an
// error only when the context is canceled.
func (r *Runner) Run(ctx context.Context, entities []Entity) (*Report, error) {
	report := newReport(uuid.NewString(), len(entities))
	log := r.log.With().Str("run_id", report.RunID).Logger()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	var mu sync.Mutex
	results := make([]*transformer.Outcome, len(entities))

	for i, entity := range entities {
		i, entity := i, entity
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			outcome, err := r.transform.Apply(ctx, entity.URN, entity.Aspect)
			if err == nil && r.sink != nil {
				err = r.sink.PutSchemaMetadata(ctx, entity.URN, outcome.Aspect)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.fail(entity.URN, err)
				log.Error().Err(err).Str("entity", entity.URN).Msg("Entity mutation failed")
				return nil
			}
			results[i] = outcome
			report.record(outcome.Merge)
			return nil
		})
	}

	err := group.Wait()
	report.finish()

	if err != nil {
		return report, errors.Wrap(err, "pipeline run aborted")
	}

	report.Outcomes = results
	log.Info().
		Int("scanned", report.EntitiesScanned).
		Int("changed", report.EntitiesChanged).
		Int("failed", report.EntitiesFailed).
		Dur("duration", report.Duration).
		Msg("Pipeline run complete")

	return report, nil
}
