package schema

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/logging"
	"github.com/metaglot/termsync/pkg/terms"
)

func termField(path string, urns ...string) Field {
	assocs := make([]terms.Association, len(urns))
	for i, urn := range urns {
		assocs[i] = terms.New(urn)
	}
	return Field{
		FieldPath: path,
		Glossary: &Glossary{
			Terms: terms.NewSet(assocs...),
			Audit: NewAuditStamp("urn:li:corpUser:test", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name    string
		aspect  *Metadata
		wantErr bool
	}{
		{
			name:    "nil aspect",
			aspect:  nil,
			wantErr: true,
		},
		{
			name:    "missing fields list",
			aspect:  &Metadata{SchemaName: "users"},
			wantErr: true,
		},
		{
			name:    "empty fields list is valid",
			aspect:  &Metadata{SchemaName: "users", Fields: Fields{}},
			wantErr: false,
		},
		{
			name: "field with empty path",
			aspect: &Metadata{
				SchemaName: "users",
				Fields:     Fields{{FieldPath: ""}},
			},
			wantErr: true,
		},
		{
			name: "valid",
			aspect: &Metadata{
				SchemaName: "users",
				Fields:     Fields{{FieldPath: "id"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.aspect.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFieldCloneIsDeep(t *testing.T) {
	original := termField("user.email", "urn:li:glossaryTerm:PII")
	original.Tags = []string{"pii"}

	clone := original.Clone()
	clone.Glossary.Terms[0].URN = "urn:li:glossaryTerm:Other"
	clone.Tags[0] = "mutated"

	assert.Equal(t, "urn:li:glossaryTerm:PII", original.Glossary.Terms[0].URN)
	assert.Equal(t, "pii", original.Tags[0])
}

func TestMetadataCloneIsDeep(t *testing.T) {
	original := &Metadata{
		SchemaName: "users",
		Platform:   "postgres",
		Fields:     Fields{termField("user.email", "urn:li:glossaryTerm:PII")},
	}

	clone := original.Clone()
	require.Empty(t, cmp.Diff(original, clone))

	clone.Fields[0].Glossary = nil
	assert.NotNil(t, original.Fields[0].Glossary)
}

func TestFieldsIndexKeepsFirstDuplicate(t *testing.T) {
	log := logging.NewTestLogger(t)

	fields := Fields{
		{FieldPath: "a", Description: "first"},
		{FieldPath: "a", Description: "second"},
		{FieldPath: "b"},
	}

	idx := fields.Index(log.Logger)

	assert.Len(t, idx, 2)
	assert.Equal(t, "first", idx["a"].Description)
	assert.True(t, log.Contains("Duplicate fieldPath"))
}

func TestWithGlossaryDoesNotAliasInput(t *testing.T) {
	original := Field{FieldPath: "a", Tags: []string{"x"}}
	annotation := &Glossary{Terms: terms.NewSet(terms.New("urn:li:glossaryTerm:T"))}

	out := original.WithGlossary(annotation)
	out.Tags[0] = "mutated"

	assert.Equal(t, "x", original.Tags[0])
	assert.Nil(t, original.Glossary)
}
