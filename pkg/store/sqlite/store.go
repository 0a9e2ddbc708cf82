// Package sqlite implements a local schema-metadata store on SQLite.
// It serves as the server-state source behind the graph.Client contract
// for Patch baselines and persists merged aspects between runs.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/schema"
)

//go:embed schema.sql
var schemaSQL string

// Store is a graph.Store backed by a SQLite database file.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open opens (creating if necessary) the store at the given path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", path, "cannot be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening metadata store")
	}

	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY churn on concurrent pipeline writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing metadata store schema")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// GetSchemaMetadata implements the graph.Client interface. A missing
// entity yields a nil aspect with no error, which callers treat as
// "no server baseline."
func (s *Store) GetSchemaMetadata(ctx context.Context, entityURN string) (*schema.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.ErrStoreClosed
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT aspect FROM schema_aspects WHERE entity_urn = ?`, entityURN,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading aspect for %s", entityURN)
	}

	var aspect schema.Metadata
	if err := json.Unmarshal([]byte(payload), &aspect); err != nil {
		return nil, &errors.AspectError{
			EntityURN: entityURN,
			Aspect:    schema.AspectName,
			Message:   "stored payload does not decode: " + err.Error(),
		}
	}

	return &aspect, nil
}

// PutSchemaMetadata implements the graph.Writer interface, replacing any
// previously persisted aspect for the entity and bumping its version.
func (s *Store) PutSchemaMetadata(ctx context.Context, entityURN string, aspect *schema.Metadata) error {
	if entityURN == "" {
		return errors.NewValidationError("entityURN", entityURN, "cannot be empty")
	}
	if err := aspect.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(aspect)
	if err != nil {
		return errors.Wrapf(err, "encoding aspect for %s", entityURN)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrStoreClosed
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schema_aspects (entity_urn, aspect, version, updated_at)
		 VALUES (?, ?, 0, ?)
		 ON CONFLICT(entity_urn) DO UPDATE SET
		     aspect = excluded.aspect,
		     version = schema_aspects.version + 1,
		     updated_at = excluded.updated_at`,
		entityURN, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "writing aspect for %s", entityURN)
	}

	return nil
}

// Entities returns the URNs of all stored entities, ordered.
func (s *Store) Entities(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_urn FROM schema_aspects ORDER BY entity_urn`)
	if err != nil {
		return nil, errors.Wrap(err, "listing entities")
	}
	defer func() { _ = rows.Close() }()

	var urns []string
	for rows.Next() {
		var urn string
		if err := rows.Scan(&urn); err != nil {
			return nil, errors.Wrap(err, "scanning entity row")
		}
		urns = append(urns, urn)
	}
	return urns, rows.Err()
}
