package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaglot/termsync/pkg/schema"
)

func TestMemoryRoundTrip(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	aspect := &schema.Metadata{
		SchemaName: "users",
		Fields:     schema.Fields{{FieldPath: "id"}},
	}
	require.NoError(t, mem.PutSchemaMetadata(ctx, "urn:li:dataset:users", aspect))

	got, err := mem.GetSchemaMetadata(ctx, "urn:li:dataset:users")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "users", got.SchemaName)

	// The store hands out copies, not aliases.
	got.Fields[0].FieldPath = "mutated"
	again, err := mem.GetSchemaMetadata(ctx, "urn:li:dataset:users")
	require.NoError(t, err)
	assert.Equal(t, "id", again.Fields[0].FieldPath)
}

func TestMemoryMissingEntity(t *testing.T) {
	mem := NewMemory()

	got, err := mem.GetSchemaMetadata(context.Background(), "urn:li:dataset:absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryPutValidation(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	err := mem.PutSchemaMetadata(ctx, "", &schema.Metadata{Fields: schema.Fields{}})
	assert.Error(t, err)

	err = mem.PutSchemaMetadata(ctx, "urn:li:dataset:users", &schema.Metadata{})
	assert.Error(t, err)
}

func TestClientFunc(t *testing.T) {
	var gotURN string
	client := ClientFunc(func(_ context.Context, entityURN string) (*schema.Metadata, error) {
		gotURN = entityURN
		return nil, nil
	})

	_, err := client.GetSchemaMetadata(context.Background(), "urn:li:dataset:users")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:dataset:users", gotURN)
}
