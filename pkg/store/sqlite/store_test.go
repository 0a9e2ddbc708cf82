package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/schema"
	"github.com/metaglot/termsync/pkg/terms"
)

const testEntity = "urn:li:dataset:(urn:li:dataPlatform:postgres,public.users,PROD)"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "termsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testAspect() *schema.Metadata {
	return &schema.Metadata{
		SchemaName: "public.users",
		Platform:   "postgres",
		Fields: schema.Fields{
			{
				FieldPath:  "user.email",
				NativeType: "varchar",
				Glossary: &schema.Glossary{
					Terms: terms.NewSet(terms.New("urn:li:glossaryTerm:PII")),
					Audit: schema.NewAuditStamp("urn:li:corpUser:test",
						time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
				},
			},
			{FieldPath: "user.id", NativeType: "bigint"},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := testAspect()
	require.NoError(t, store.PutSchemaMetadata(ctx, testEntity, want))

	got, err := store.GetSchemaMetadata(ctx, testEntity)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, cmp.Diff(want, got))
}

func TestGetMissingEntityReturnsNil(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetSchemaMetadata(context.Background(), "urn:li:dataset:absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutReplacesPreviousAspect(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := testAspect()
	require.NoError(t, store.PutSchemaMetadata(ctx, testEntity, first))

	second := testAspect()
	second.Fields = second.Fields[:1]
	require.NoError(t, store.PutSchemaMetadata(ctx, testEntity, second))

	got, err := store.GetSchemaMetadata(ctx, testEntity)
	require.NoError(t, err)
	assert.Len(t, got.Fields, 1)
}

func TestPutValidatesAspect(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.PutSchemaMetadata(ctx, testEntity, &schema.Metadata{SchemaName: "broken"})
	assert.Error(t, err)

	err = store.PutSchemaMetadata(ctx, "", testAspect())
	assert.Error(t, err)
}

func TestEntitiesOrdered(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSchemaMetadata(ctx, "urn:li:dataset:b", testAspect()))
	require.NoError(t, store.PutSchemaMetadata(ctx, "urn:li:dataset:a", testAspect()))

	urns, err := store.Entities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"urn:li:dataset:a", "urn:li:dataset:b"}, urns)
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.GetSchemaMetadata(context.Background(), testEntity)
	assert.True(t, errors.Is(err, errors.ErrStoreClosed))

	err = store.PutSchemaMetadata(context.Background(), testEntity, testAspect())
	assert.True(t, errors.Is(err, errors.ErrStoreClosed))

	// Closing twice is fine.
	assert.NoError(t, store.Close())
}
