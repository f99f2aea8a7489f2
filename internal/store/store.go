package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/katalog/internal/catalog"
)

var _ catalog.Store = (*Store)(nil)

// Store is the SQLite catalog backend.
type Store struct {
	db *sql.DB

	// Now stamps createdAt and updatedAt. Replaced in tests.
	Now func() time.Time
}

// New returns a Store using db. The schema must already exist.
func New(db *sql.DB) *Store {
	return &Store{db: db, Now: time.Now}
}

// Close closes the underlying database.
func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// querier is implemented by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// stamp returns the current time truncated to the stored precision.
func (s *Store) stamp() (time.Time, int64) {
	ms := s.Now().UnixMilli()
	return time.UnixMilli(ms), ms
}

// inTx runs fn in a transaction, committing if it returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
