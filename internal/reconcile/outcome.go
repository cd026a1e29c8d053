// Package reconcile applies transformed source records against the canonical
// store exactly once each, classifying every row into an explicit outcome
// instead of steering control flow through exceptions. Filtered and
// unresolved rows are expected conditions, not errors.
package reconcile

import "time"

// Outcome is the terminal classification of one processed row.
type Outcome string

const (
	// OutcomeInserted: the natural key did not exist and a row was created.
	OutcomeInserted Outcome = "inserted"
	// OutcomeUpdated: the natural key existed and mapped fields were overwritten.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged: the natural key existed and the overwrite changed
	// nothing. A re-run over unchanged source data lands every row here,
	// which is what makes idempotence directly observable.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeSkipped: a business predicate rejected the row before apply.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeErrored: transform or apply failed; the row was abandoned.
	OutcomeErrored Outcome = "errored"
)

// ClassifyUpsert maps MySQL's affected-row count for an
// INSERT ... ON DUPLICATE KEY UPDATE to an outcome: 1 means a fresh insert,
// 2 means an existing row was overwritten with different values, 0 means the
// overwrite was a no-op.
func ClassifyUpsert(rowsAffected int64) Outcome {
	switch rowsAffected {
	case 1:
		return OutcomeInserted
	case 2:
		return OutcomeUpdated
	default:
		return OutcomeUnchanged
	}
}

// Result is the engine-facing outcome of one row.
type Result struct {
	SourceID string
	Outcome  Outcome
	// Reason explains a skip ("filtered", "invalid name", ...).
	Reason string
	// Err holds the failure for errored rows.
	Err error
	// Unresolved lists referential lookups that missed. The row is still
	// written with nil references so it stays auditable; these are warnings,
	// not skips.
	Unresolved []string
}

// Applied wraps an upsert classification.
func Applied(sourceID string, outcome Outcome) Result {
	return Result{SourceID: sourceID, Outcome: outcome}
}

// Skipped marks a row rejected by a business predicate.
func Skipped(sourceID, reason string) Result {
	return Result{SourceID: sourceID, Outcome: OutcomeSkipped, Reason: reason}
}

// Errored marks a row abandoned after a failure.
func Errored(sourceID string, err error) Result {
	return Result{SourceID: sourceID, Outcome: OutcomeErrored, Err: err}
}

// Stats aggregates one stage's outcomes.
type Stats struct {
	Table      string
	Read       int
	Inserted   int
	Updated    int
	Unchanged  int
	Skipped    int
	Errored    int
	Unresolved int
	Duration   time.Duration
}

func (s *Stats) add(r Result) {
	switch r.Outcome {
	case OutcomeInserted:
		s.Inserted++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeErrored:
		s.Errored++
	}
	s.Unresolved += len(r.Unresolved)
}
