package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaglot/termsync/pkg/graph"
	"github.com/metaglot/termsync/pkg/logging"
	"github.com/metaglot/termsync/pkg/reconcile"
	"github.com/metaglot/termsync/pkg/schema"
	"github.com/metaglot/termsync/pkg/supplier"
	"github.com/metaglot/termsync/pkg/terms"
	"github.com/metaglot/termsync/pkg/transformer"
)

func urnFor(i int) string {
	return fmt.Sprintf("urn:li:dataset:(urn:li:dataPlatform:postgres,table_%d,PROD)", i)
}

func aspectWith(paths ...string) *schema.Metadata {
	fields := make(schema.Fields, len(paths))
	for i, p := range paths {
		fields[i] = schema.Field{FieldPath: p}
	}
	return &schema.Metadata{SchemaName: "t", Fields: fields}
}

func overwriteTransformer(t *testing.T) *transformer.SchemaTerms {
	t.Helper()
	transform, err := transformer.NewSchemaTerms(transformer.Config{
		Semantics: reconcile.Overwrite,
		Supplier:  supplier.Static(terms.New("urn:li:glossaryTerm:Catalogued")),
	}, transformer.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return transform
}

func TestRunTransformsAllEntities(t *testing.T) {
	runner, err := NewRunner(overwriteTransformer(t),
		WithConcurrency(4), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	entities := make([]Entity, 10)
	for i := range entities {
		entities[i] = Entity{URN: urnFor(i), Aspect: aspectWith("id", "name")}
	}

	report, err := runner.Run(context.Background(), entities)
	require.NoError(t, err)

	assert.Equal(t, 10, report.EntitiesScanned)
	assert.Equal(t, 10, report.EntitiesChanged)
	assert.Zero(t, report.EntitiesFailed)
	assert.Equal(t, 20, report.FieldsAnnotated)
	assert.True(t, report.OK())
	assert.NotEmpty(t, report.RunID)

	// Outcomes retain input order regardless of scheduling.
	for i, outcome := range report.Outcomes {
		require.NotNil(t, outcome, "entity %d", i)
		assert.Equal(t, []string{"id", "name"}, outcome.Aspect.Fields.Paths())
	}
}

func TestRunRecordsFailuresWithoutAborting(t *testing.T) {
	runner, err := NewRunner(overwriteTransformer(t),
		WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	entities := []Entity{
		{URN: urnFor(0), Aspect: aspectWith("id")},
		{URN: urnFor(1), Aspect: &schema.Metadata{SchemaName: "broken"}}, // no fields list
		{URN: urnFor(2), Aspect: aspectWith("id")},
	}

	report, err := runner.Run(context.Background(), entities)
	require.NoError(t, err)

	assert.Equal(t, 3, report.EntitiesScanned)
	assert.Equal(t, 2, report.EntitiesChanged)
	assert.Equal(t, 1, report.EntitiesFailed)
	assert.False(t, report.OK())

	require.Len(t, report.Failures, 1)
	assert.Equal(t, urnFor(1), report.Failures[0].EntityURN)
	assert.Nil(t, report.Outcomes[1])
	assert.NotNil(t, report.Outcomes[0])
	assert.NotNil(t, report.Outcomes[2])
}

func TestRunPersistsThroughSink(t *testing.T) {
	sink := graph.NewMemory()
	runner, err := NewRunner(overwriteTransformer(t),
		WithSink(sink), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	entities := []Entity{{URN: urnFor(0), Aspect: aspectWith("id")}}

	report, err := runner.Run(context.Background(), entities)
	require.NoError(t, err)
	require.True(t, report.OK())

	stored, err := sink.GetSchemaMetadata(context.Background(), urnFor(0))
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.Fields[0].Glossary)
	assert.Equal(t, []string{"urn:li:glossaryTerm:Catalogued"}, stored.Fields[0].Glossary.Terms.URNs())
}

func TestRunHonorsCanceledContext(t *testing.T) {
	runner, err := NewRunner(overwriteTransformer(t),
		WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entities := []Entity{{URN: urnFor(0), Aspect: aspectWith("id")}}
	_, err = runner.Run(ctx, entities)
	assert.Error(t, err)
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(nil)
	assert.Error(t, err)

	_, err = NewRunner(overwriteTransformer(t), WithConcurrency(0))
	assert.Error(t, err)
}
