package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/metrics"
	"toothpickeve.com/migrate/internal/source"
)

// ApplyFunc transforms one raw row and applies it against the target store,
// returning the row's outcome. It must not panic, but the engine assumes it
// might anyway.
type ApplyFunc func(ctx context.Context, row source.Row) Result

// Committer is the target store's commit hook. The engine commits every
// BatchSize rows and once more at stage end; batch boundaries are checkpoint
// granularity only and carry no semantic meaning.
type Committer interface {
	Commit(ctx context.Context) error
}

// OutcomeSink records skipped and errored rows for operator audit, typically
// the migration_log table. Optional.
type OutcomeSink interface {
	Record(ctx context.Context, table, sourceID, operation, status, message string) error
}

// Engine runs one stage: it walks the source rows, applies each exactly
// once, and guarantees that one row's failure never aborts the batch or the
// run. A panic inside the apply function is converted to an errored row and
// processing continues with the next row.
type Engine struct {
	Table     string
	BatchSize int
	// RowLimit caps processed rows when positive (test mode).
	RowLimit int
	// Debug echoes each error immediately instead of only at stage end.
	Debug     bool
	Committer Committer
	Sink      OutcomeSink
	RunLog    *RunLog
}

// Run processes every row the iterator yields. The returned error is
// stage-fatal (source read failure or final commit failure); per-row
// failures are counted in Stats, never returned.
func (e *Engine) Run(ctx context.Context, rows source.Iterator, apply ApplyFunc) (*Stats, error) {
	start := time.Now()
	stats := &Stats{Table: e.Table}

	log.Info().Str("table", e.Table).Msg("Stage started")

	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	for {
		row, ok := rows.Next()
		if !ok {
			break
		}
		stats.Read++

		res := e.applySafe(ctx, row, apply)
		stats.add(res)
		metrics.RecordRowOutcome(e.Table, string(res.Outcome))
		e.record(ctx, res)

		if stats.Read%batchSize == 0 {
			e.commit(ctx)
			log.Info().
				Str("table", e.Table).
				Int("processed", stats.Read).
				Msg("Stage progress")
		}

		if e.RowLimit > 0 && stats.Read >= e.RowLimit {
			log.Info().
				Str("table", e.Table).
				Int("limit", e.RowLimit).
				Msg("Test mode row limit reached")
			break
		}
	}

	if err := rows.Err(); err != nil {
		e.commit(ctx)
		return stats, fmt.Errorf("failed to read %s source rows: %w", e.Table, err)
	}

	if e.Committer != nil {
		if err := e.Committer.Commit(ctx); err != nil {
			return stats, fmt.Errorf("failed to commit %s stage: %w", e.Table, err)
		}
	}

	stats.Duration = time.Since(start)
	metrics.RecordStageDuration(e.Table, stats.Duration)

	log.Info().
		Str("table", e.Table).
		Int("read", stats.Read).
		Int("inserted", stats.Inserted).
		Int("updated", stats.Updated).
		Int("unchanged", stats.Unchanged).
		Int("skipped", stats.Skipped).
		Int("errored", stats.Errored).
		Int("unresolved_refs", stats.Unresolved).
		Dur("duration", stats.Duration).
		Msg("Stage completed")

	return stats, nil
}

// applySafe isolates one row: a panic inside transform or apply becomes an
// errored row so rows k+1..N still run.
func (e *Engine) applySafe(ctx context.Context, row source.Row, apply ApplyFunc) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Errored("", fmt.Errorf("panic while processing row: %v", r))
		}
	}()
	return apply(ctx, row)
}

func (e *Engine) commit(ctx context.Context) {
	if e.Committer == nil {
		return
	}
	if err := e.Committer.Commit(ctx); err != nil {
		// Rows already applied in earlier batches stay applied; upsert
		// idempotence makes the re-run after a failed checkpoint safe.
		log.Error().Err(err).Str("table", e.Table).Msg("Batch commit failed")
	}
}

func (e *Engine) record(ctx context.Context, res Result) {
	switch res.Outcome {
	case OutcomeSkipped:
		line := fmt.Sprintf("%s: %s", res.SourceID, res.Reason)
		if e.RunLog != nil {
			e.RunLog.Skip(line)
		}
		if e.Sink != nil {
			if err := e.Sink.Record(ctx, e.Table, res.SourceID, "skip", "skipped", res.Reason); err != nil {
				log.Warn().Err(err).Msg("Failed to record skipped row")
			}
		}
		log.Debug().
			Str("table", e.Table).
			Str("source_id", res.SourceID).
			Str("reason", res.Reason).
			Msg("Row skipped")

	case OutcomeErrored:
		line := fmt.Sprintf("%s: %v", res.SourceID, res.Err)
		if e.RunLog != nil {
			e.RunLog.Error(line)
		}
		if e.Sink != nil {
			if err := e.Sink.Record(ctx, e.Table, res.SourceID, "upsert", "error", res.Err.Error()); err != nil {
				log.Warn().Err(err).Msg("Failed to record errored row")
			}
		}
		if e.Debug {
			log.Error().
				Str("table", e.Table).
				Str("source_id", res.SourceID).
				Err(res.Err).
				Msg("Row failed")
		}
	}

	for _, ref := range res.Unresolved {
		if e.RunLog != nil {
			e.RunLog.Skip(fmt.Sprintf("%s: unresolved reference: %s", res.SourceID, ref))
		}
		log.Warn().
			Str("table", e.Table).
			Str("source_id", res.SourceID).
			Str("reference", ref).
			Msg("Reference not resolved, written as null")
	}
}
