// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides persistence for all entities. Queries are written with `?`
// bindvars and rebound through sqlx for the active driver, so the same store
// runs on lib/pq in production and go-sqlite3 in tests.
type Store struct {
	ext sqlx.ExtContext
}

// New creates a Store bound to a database handle.
func New(db *sqlx.DB) *Store {
	return &Store{ext: db}
}

// Transact runs fn inside a transaction. The Store passed to fn is bound to
// the transaction; all read-modify-write sequences (guards, cascades, tag
// rebuilds) go through here. A Transact call on an already transaction-bound
// Store joins the current transaction.
func (s *Store) Transact(ctx context.Context, fn func(*Store) error) error {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return fn(s)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Store{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Failed to rollback transaction: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// get runs a single-row query and maps sql.ErrNoRows to ErrNotFound.
func (s *Store) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, s.ext, dest, s.ext.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, s.ext, dest, s.ext.Rebind(query), args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.ext.ExecContext(ctx, s.ext.Rebind(query), args...)
}
