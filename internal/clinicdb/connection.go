// Package clinicdb is the data access layer for the cleaned clinic MySQL
// schema. Every entity model keys writes on source_id, the natural key
// carried over from the origin system, so re-applying the same source data
// is always an overwrite and never a duplicate.
package clinicdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/metrics"
	"toothpickeve.com/migrate/internal/reconcile"
)

// Execer is the statement surface the entity models need. *sql.DB, *sql.Tx
// and Session all satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DB is one open connection pool to the target store.
type DB struct {
	sqlDB *sql.DB
}

// Connect opens and verifies the target connection. Failure here is fatal
// for the whole run.
func Connect(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach MySQL: %w", err)
	}

	log.Info().Msg("MySQL connection initialized successfully")
	return &DB{sqlDB: db}, nil
}

// Close closes the pool.
func (db *DB) Close() error {
	if db.sqlDB != nil {
		return db.sqlDB.Close()
	}
	return nil
}

// SQL exposes the raw handle for read-side queries (name listings, counts).
func (db *DB) SQL() *sql.DB {
	return db.sqlDB
}

// Session groups statements into commit batches. A transaction is begun
// lazily on first write and replaced after each Commit, giving the fixed
// commit cadence the reconciler wants without wrapping whole stages in one
// transaction. Not safe for concurrent use; migration runs are
// single-threaded by design.
type Session struct {
	db *DB
	tx *sql.Tx
}

// NewSession starts a commit session.
func (db *DB) NewSession() *Session {
	return &Session{db: db}
}

// ExecContext runs a statement inside the current batch transaction.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.tx == nil {
		tx, err := s.db.sqlDB.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin batch transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx.ExecContext(ctx, query, args...)
}

// Commit closes the current batch. The next write opens a fresh one.
func (s *Session) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	start := time.Now()
	err := s.tx.Commit()
	s.tx = nil

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordMySQLOperation("commit", status)
	metrics.RecordMySQLOperationDuration("commit", time.Since(start))

	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Close rolls back any uncommitted remainder. Stages commit on success, so
// a rollback here only happens on an abandoned stage.
func (s *Session) Close() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	return err
}

// upsert runs one natural-key upsert and classifies the affected-row count:
// 1 inserted, 2 updated, 0 unchanged.
func upsert(ctx context.Context, exec Execer, query string, args ...any) (reconcile.Outcome, error) {
	start := time.Now()
	res, err := exec.ExecContext(ctx, query, args...)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordMySQLOperation("upsert", "error")
		metrics.RecordMySQLOperationDuration("upsert", elapsed)
		return reconcile.OutcomeErrored, err
	}

	metrics.RecordMySQLOperation("upsert", "success")
	metrics.RecordMySQLOperationDuration("upsert", elapsed)

	affected, err := res.RowsAffected()
	if err != nil {
		return reconcile.OutcomeErrored, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return reconcile.ClassifyUpsert(affected), nil
}
