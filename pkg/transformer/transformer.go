// Package transformer exposes the per-entity schema-terms transform:
// given an entity's schema metadata aspect, it computes the desired
// glossary terms for every field and merges them with server state
// according to the configured policy.
package transformer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/graph"
	"github.com/metaglot/termsync/pkg/logging"
	"github.com/metaglot/termsync/pkg/reconcile"
	"github.com/metaglot/termsync/pkg/schema"
	"github.com/metaglot/termsync/pkg/supplier"
)

// Config is the transformer configuration surface.
type Config struct {
	// Semantics selects the merge policy.
	Semantics reconcile.Policy

	// ReplaceExisting discards a field's prior term annotation instead
	// of retaining it after the newly supplied terms.
	ReplaceExisting bool

	// Supplier computes the terms to attach to each field path.
	Supplier supplier.Supplier

	// SystemActor overrides the actor recorded on freshly minted audit
	// stamps. Empty means the reconciler default.
	SystemActor string
}

// SchemaTerms applies glossary terms to every field of an entity's
// schema metadata aspect.
type SchemaTerms struct {
	config Config
	graph  graph.Client
	rec    *reconcile.Reconciler
	log    *zerolog.Logger
}

// Option configures a SchemaTerms transformer.
type Option func(*SchemaTerms) error

// WithGraph sets the server-state source used for Patch baselines.
func WithGraph(client graph.Client) Option {
	return func(t *SchemaTerms) error {
		t.graph = client
		return nil
	}
}

// WithLogger sets the logger for transform diagnostics.
func WithLogger(log *zerolog.Logger) Option {
	return func(t *SchemaTerms) error {
		if log == nil {
			return errors.NewValidationError("logger", nil, "cannot be nil")
		}
		t.log = log
		return nil
	}
}

// NewSchemaTerms creates the transformer, validating its configuration.
// Patch semantics without a configured graph client is a configuration
// error: it must never silently degrade to Overwrite.
func NewSchemaTerms(config Config, opts ...Option) (*SchemaTerms, error) {
	t := &SchemaTerms{
		config: config,
		log:    logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	if !config.Semantics.Valid() {
		return nil, errors.NewValidationError("semantics", config.Semantics, "must be OVERWRITE or PATCH")
	}
	if config.Supplier == nil {
		return nil, errors.NewValidationError("supplier", nil, "term supplier is required")
	}
	if config.Semantics == reconcile.Patch && t.graph == nil {
		return nil, errors.NewConfigError("transformer",
			"PATCH semantics requires a graph client for server state", nil)
	}

	recOpts := []reconcile.Option{reconcile.WithLogger(t.log)}
	if config.SystemActor != "" {
		recOpts = append(recOpts, reconcile.WithSystemActor(config.SystemActor))
	}
	rec, err := reconcile.New(recOpts...)
	if err != nil {
		return nil, err
	}
	t.rec = rec

	return t, nil
}

// Outcome is the result of transforming one entity's aspect.
type Outcome struct {
	// Aspect is the mutated aspect payload, same shape as the input
	// with the fields list replaced.
	Aspect *schema.Metadata

	// Merge describes what the underlying reconciliation did.
	Merge *reconcile.Result
}

// Apply transforms the entity's schema metadata aspect and returns the
// merged aspect together with merge counters. The input aspect is not
// mutated. Under Patch the server is consulted exactly once; under
// Overwrite it is never consulted.
func (t *SchemaTerms) Apply(ctx context.Context, entityURN string, aspect *schema.Metadata) (*Outcome, error) {
	if err := aspect.Validate(); err != nil {
		return nil, err
	}

	var serverFields schema.Fields
	if t.config.Semantics == reconcile.Patch {
		serverAspect, err := t.graph.GetSchemaMetadata(ctx, entityURN)
		if err != nil {
			return nil, &errors.FetchError{EntityURN: entityURN, Err: err}
		}
		if serverAspect != nil {
			serverFields = serverAspect.Fields
		}
	}

	result, err := t.rec.Reconcile(aspect.Fields, serverFields,
		t.config.Semantics, t.config.ReplaceExisting, t.config.Supplier)
	if err != nil {
		return nil, err
	}

	out := aspect.Clone()
	out.Fields = result.Fields

	t.log.Debug().
		Str("entity", entityURN).
		Str("policy", result.Policy.String()).
		Int("annotated", result.AnnotatedFields).
		Int("server_only", result.ServerOnlyFields).
		Msg("Transformed schema terms aspect")

	return &Outcome{Aspect: out, Merge: result}, nil
}

// TransformAspect transforms the aspect and returns only the mutated
// payload, for callers that do not need merge counters.
func (t *SchemaTerms) TransformAspect(ctx context.Context, entityURN string, aspect *schema.Metadata) (*schema.Metadata, error) {
	outcome, err := t.Apply(ctx, entityURN, aspect)
	if err != nil {
		return nil, err
	}
	return outcome.Aspect, nil
}
