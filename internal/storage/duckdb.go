// Package storage implements the tick and alert stores on DuckDB.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/persistence"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"go.uber.org/zap"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var (
	_ persistence.TickStore  = (*DuckDBStore)(nil)
	_ persistence.AlertStore = (*DuckDBStore)(nil)
)

// DuckDBStore persists ticks and alerts in a single DuckDB database.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
}

// NewDuckDBStore opens the database at path and creates the schema.
// Use MemoryPath for a throwaway database.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create data directory", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open database", err)
	}

	store := &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		path:   path,
	}

	if err := store.Initialize(context.Background()); err != nil {
		db.Close()

		return nil, err
	}

	log.Debug("Opened DuckDB store", zap.String("path", path))

	return store, nil
}

// Initialize creates the tables if they do not exist.
func (s *DuckDBStore) Initialize(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ticks (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			price DOUBLE NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_symbol_time ON ticks (symbol, timestamp)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			alert_condition TEXT NOT NULL,
			target_price TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create schema", err)
		}
	}

	return nil
}

// Path returns the database location.
func (s *DuckDBStore) Path() string {
	return s.path
}

// Close releases the database.
func (s *DuckDBStore) Close() error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil

	return nil
}
