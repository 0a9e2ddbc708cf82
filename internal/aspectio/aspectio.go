// Package aspectio reads and writes entity schema aspects as YAML
// documents, the interchange format of the termsync CLI.
package aspectio

import (
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/schema"
)

// Entity is one entry of an aspect document.
type Entity struct {
	URN    string           `yaml:"urn"`
	Schema *schema.Metadata `yaml:"schema"`
}

// Document is a YAML file holding schema aspects for one or more
// entities.
type Document struct {
	Entities []Entity `yaml:"entities"`
}

// Read decodes an aspect document and validates every aspect before
// returning, so malformed input fails ahead of any merge work.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading aspect document")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding aspect document")
	}

	if len(doc.Entities) == 0 {
		return nil, errors.NewValidationError("entities", nil, "document has no entities")
	}
	for i, e := range doc.Entities {
		if e.URN == "" {
			return nil, errors.NewValidationError("urn", i, "entity has empty urn")
		}
		if err := e.Schema.Validate(); err != nil {
			return nil, errors.Wrapf(err, "entity %s", e.URN)
		}
	}

	return &doc, nil
}

// ReadFile reads an aspect document from disk.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Write encodes an aspect document as YAML with stable formatting.
func Write(w io.Writer, doc *Document) error {
	data, err := yaml.MarshalWithOptions(doc,
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return errors.Wrap(err, "encoding aspect document")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "writing aspect document")
	}
	return nil
}

// WriteFile writes an aspect document to disk.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() { _ = f.Close() }()
	return Write(f, doc)
}
