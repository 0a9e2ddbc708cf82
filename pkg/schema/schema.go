// Package schema defines the schema metadata aspect: the ordered list of
// schema fields attached to an entity, each optionally annotated with
// glossary terms and an audit stamp recording who established them.
package schema

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/terms"
)

// AspectName identifies the schema metadata aspect on an entity.
const AspectName = "schemaMetadata"

// AuditStamp records who established a field's term set and when.
// An existing stamp is never recomputed; a fresh one is minted only when
// a field had no prior term annotation.
type AuditStamp struct {
	Time  time.Time `json:"time" yaml:"time"`
	Actor string    `json:"actor" yaml:"actor"`
}

// NewAuditStamp mints a stamp for the given actor at the given time.
func NewAuditStamp(actor string, at time.Time) AuditStamp {
	return AuditStamp{Time: at, Actor: actor}
}

// Glossary is a field's term annotation: the ordered term set plus the
// audit stamp under which it was established.
type Glossary struct {
	Terms terms.Set  `json:"terms" yaml:"terms"`
	Audit AuditStamp `json:"auditStamp" yaml:"auditStamp"`
}

// Clone returns a deep copy of the annotation.
func (g *Glossary) Clone() *Glossary {
	if g == nil {
		return nil
	}
	return &Glossary{
		Terms: g.Terms.Clone(),
		Audit: g.Audit,
	}
}

// Field is one column/field of an entity's schema. FieldPath is the join
// key between local and server field lists and is expected unique within
// one schema. Attributes other than Glossary are opaque to the merge and
// pass through unchanged.
type Field struct {
	FieldPath   string    `json:"fieldPath" yaml:"fieldPath"`
	NativeType  string    `json:"nativeType,omitempty" yaml:"nativeType,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Nullable    bool      `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Glossary    *Glossary `json:"glossaryTerms,omitempty" yaml:"glossaryTerms,omitempty"`
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Tags != nil {
		out.Tags = append([]string(nil), f.Tags...)
	}
	out.Glossary = f.Glossary.Clone()
	return out
}

// WithGlossary returns a copy of the field carrying the given annotation.
func (f Field) WithGlossary(g *Glossary) Field {
	out := f.Clone()
	out.Glossary = g
	return out
}

// Fields is an ordered list of schema fields.
type Fields []Field

// Clone returns a deep copy of the list.
func (fs Fields) Clone() Fields {
	if fs == nil {
		return nil
	}
	out := make(Fields, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}

// Paths returns the field paths in list order.
func (fs Fields) Paths() []string {
	paths := make([]string, len(fs))
	for i, f := range fs {
		paths[i] = f.FieldPath
	}
	return paths
}

// Index builds a lookup from fieldPath to field. Field paths are
// expected unique within one list; on a duplicate the first occurrence
// wins and a warning is logged.
func (fs Fields) Index(log *zerolog.Logger) map[string]Field {
	idx := make(map[string]Field, len(fs))
	for _, f := range fs {
		if _, ok := idx[f.FieldPath]; ok {
			if log != nil {
				log.Warn().
					Str("field_path", f.FieldPath).
					Msg("Duplicate fieldPath in schema field list, keeping first occurrence")
			}
			continue
		}
		idx[f.FieldPath] = f
	}
	return idx
}

// Metadata is the schema metadata aspect payload for one entity.
// Only Fields is touched by term reconciliation; the remaining
// attributes pass through unchanged.
type Metadata struct {
	SchemaName string `json:"schemaName" yaml:"schemaName"`
	Platform   string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Version    int64  `json:"version,omitempty" yaml:"version,omitempty"`
	Fields     Fields `json:"fields" yaml:"fields"`
}

// Clone returns a deep copy of the aspect.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	out := *m
	out.Fields = m.Fields.Clone()
	return &out
}

// Validate checks the aspect has the shape reconciliation requires.
// A nil aspect or a nil fields list is malformed and must be rejected
// before any merge logic runs.
func (m *Metadata) Validate() error {
	if m == nil {
		return &errors.AspectError{Aspect: AspectName, Message: "aspect payload is nil"}
	}
	if m.Fields == nil {
		return &errors.AspectError{Aspect: AspectName, Message: "fields list is missing"}
	}
	for i, f := range m.Fields {
		if f.FieldPath == "" {
			return errors.NewValidationError("fields", i, "field has empty fieldPath")
		}
	}
	return nil
}
