// Package graph defines the contract for retrieving server-side schema
// metadata. The reconciler treats the fetch as a single synchronous call
// per entity; retries, caching, and transport concerns belong to the
// implementation behind the interface.
package graph

import (
	"context"
	"sync"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/schema"
)

// Client retrieves the currently persisted schema metadata for entities.
type Client interface {
	// GetSchemaMetadata returns the persisted schema aspect for the
	// entity, or a nil aspect with no error when the entity has no
	// schema metadata. Any other failure propagates to the caller.
	GetSchemaMetadata(ctx context.Context, entityURN string) (*schema.Metadata, error)
}

// Writer persists merged schema metadata. Implementations that also
// serve reads should satisfy both Client and Writer.
type Writer interface {
	// PutSchemaMetadata persists the schema aspect for the entity,
	// replacing any previous version.
	PutSchemaMetadata(ctx context.Context, entityURN string, aspect *schema.Metadata) error
}

// Store combines read and write access to schema metadata.
type Store interface {
	Client
	Writer
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, entityURN string) (*schema.Metadata, error)

// GetSchemaMetadata implements the Client interface.
func (f ClientFunc) GetSchemaMetadata(ctx context.Context, entityURN string) (*schema.Metadata, error) {
	return f(ctx, entityURN)
}

// Memory is an in-process Store keyed by entity URN, used by tests and
// as a baseline source for single-shot CLI runs. It is safe for
// concurrent use.
type Memory struct {
	mu      sync.RWMutex
	aspects map[string]*schema.Metadata
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{aspects: make(map[string]*schema.Metadata)}
}

// GetSchemaMetadata implements the Client interface.
func (m *Memory) GetSchemaMetadata(_ context.Context, entityURN string) (*schema.Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	aspect, ok := m.aspects[entityURN]
	if !ok {
		return nil, nil
	}
	return aspect.Clone(), nil
}

// PutSchemaMetadata implements the Writer interface.
func (m *Memory) PutSchemaMetadata(_ context.Context, entityURN string, aspect *schema.Metadata) error {
	if entityURN == "" {
		return errors.NewValidationError("entityURN", entityURN, "cannot be empty")
	}
	if err := aspect.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.aspects[entityURN] = aspect.Clone()
	return nil
}
