package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/metrics"
)

// MigrationLog appends per-row audit records. It writes on the raw pool, not
// a batch session, so records survive even when the batch they describe is
// rolled back.
type MigrationLog struct {
	db *DB
}

// NewMigrationLog wires the audit log to a connection.
func NewMigrationLog(db *DB) *MigrationLog {
	return &MigrationLog{db: db}
}

// Record appends one audit entry.
func (l *MigrationLog) Record(ctx context.Context, table, sourceID, operation, status, message string) error {
	start := time.Now()
	_, err := l.db.sqlDB.ExecContext(ctx, `
		INSERT INTO migration_log (table_name, source_id, operation, status, message)
		VALUES (?, ?, ?, ?, ?)`,
		table, sourceID, operation, status, message)

	opStatus := "success"
	if err != nil {
		opStatus = "error"
	}
	metrics.RecordMySQLOperation("log", opStatus)
	metrics.RecordMySQLOperationDuration("log", time.Since(start))

	if err != nil {
		return fmt.Errorf("failed to record migration log entry: %w", err)
	}
	return nil
}
