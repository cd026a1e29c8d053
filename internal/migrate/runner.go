// Package migrate orchestrates the migration pipelines: stage ordering,
// per-stage engine wiring, fatal-error containment and end-of-run
// verification. The stage transforms themselves live next to their pipeline.
package migrate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/config"
	"toothpickeve.com/migrate/internal/normalize"
	"toothpickeve.com/migrate/internal/reconcile"
	"toothpickeve.com/migrate/internal/resolve"
	"toothpickeve.com/migrate/internal/source"
)

// Runner holds the shared machinery of one migration run.
type Runner struct {
	cfg          *config.Config
	db           *clinicdb.DB
	sink         reconcile.OutcomeSink
	genderPolicy normalize.GenderPolicy
	phonePolicy  normalize.PhonePolicy
}

// NewRunner wires a run against the target store. The config must already be
// validated; policy tokens that fail to parse fall back to their defaults.
func NewRunner(cfg *config.Config, db *clinicdb.DB) *Runner {
	gp, err := normalize.ParseGenderPolicy(cfg.GenderPolicy)
	if err != nil {
		log.Warn().Err(err).Msg("Falling back to strict gender policy")
	}
	pp, err := normalize.ParsePhonePolicy(cfg.PhonePolicy)
	if err != nil {
		log.Warn().Err(err).Msg("Falling back to digits phone policy")
	}
	return &Runner{
		cfg:          cfg,
		db:           db,
		sink:         clinicdb.NewMigrationLog(db),
		genderPolicy: gp,
		phonePolicy:  pp,
	}
}

// Report is the outcome of one pipeline run.
type Report struct {
	// Stages holds per-stage outcome counts in execution order.
	Stages []*reconcile.Stats
	// Failed lists stages that aborted on a fatal error. Later stages still
	// ran; a partially loaded run is recoverable by re-running.
	Failed []string
	// Counts holds the end-of-run verification row counts per table.
	Counts map[string]int
}

// stage is one named unit of pipeline work.
type stage struct {
	table string
	run   func(ctx context.Context) (*reconcile.Stats, error)
}

// runStages executes the stages in order. A stage failure is logged and
// recorded, never propagated; reference data for later stages may be
// incomplete but the later stages are still worth running.
func (r *Runner) runStages(ctx context.Context, stages []stage) *Report {
	report := &Report{}
	for _, st := range stages {
		stats, err := st.run(ctx)
		if stats != nil {
			report.Stages = append(report.Stages, stats)
		}
		if err != nil {
			report.Failed = append(report.Failed, st.table)
			log.Error().Err(err).Str("table", st.table).Msg("Stage failed, continuing with remaining stages")
		}
	}

	counts, err := r.db.Counts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Verification counts failed")
	} else {
		report.Counts = counts
		for _, table := range clinicdb.Tables {
			if n, ok := counts[table]; ok {
				log.Info().Str("table", table).Int("rows", n).Msg("Verification count")
			}
		}
	}
	return report
}

// runStageWith runs one engine pass over a source iterator, committing
// through the session the stage's models write with. Both the iterator and
// the session are closed here; stage transforms only build them.
func (r *Runner) runStageWith(ctx context.Context, table string, rows source.Iterator, session *clinicdb.Session, apply reconcile.ApplyFunc) (*reconcile.Stats, error) {
	defer session.Close()
	defer rows.Close()

	runLog := reconcile.NewRunLog(r.cfg.LogsDir, table)
	eng := &reconcile.Engine{
		Table:     table,
		BatchSize: r.cfg.BatchSize,
		RowLimit:  r.rowLimit(),
		Debug:     r.cfg.DebugMode,
		Committer: session,
		Sink:      r.sink,
		RunLog:    runLog,
	}

	stats, err := eng.Run(ctx, rows, apply)
	if flushErr := runLog.Flush(); flushErr != nil {
		log.Warn().Err(flushErr).Str("table", table).Msg("Failed to write stage log files")
	}
	return stats, err
}

func (r *Runner) rowLimit() int {
	if r.cfg.TestMode {
		return r.cfg.TestModeLimit
	}
	return 0
}

// patientIndex builds the name index over every patient stored so far.
func (r *Runner) patientIndex(ctx context.Context) (*resolve.NameIndex, error) {
	entries, err := r.db.ListPatientNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build patient name index: %w", err)
	}
	idx := resolve.Build("patient", entries)
	log.Info().Int("entries", idx.Len()).Int("collisions", idx.Collisions()).Msg("Patient name index built")
	return idx, nil
}

// doctorIndex builds the name index over every doctor stored so far.
func (r *Runner) doctorIndex(ctx context.Context) (*resolve.NameIndex, error) {
	entries, err := r.db.ListDoctorNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build doctor name index: %w", err)
	}
	idx := resolve.Build("doctor", entries)
	log.Info().Int("entries", idx.Len()).Int("collisions", idx.Collisions()).Msg("Doctor name index built")
	return idx, nil
}

// truncateIfRequested empties the data tables when the run asked for a clean
// load.
func (r *Runner) truncateIfRequested(ctx context.Context) error {
	if !r.cfg.TruncateFirst {
		return nil
	}
	log.Info().Msg("Clearing existing data before migration")
	return r.db.TruncateAll(ctx)
}

// lookupRef resolves one free-text name reference against an index. The
// returned ref is nil on a miss; note carries the miss for the row's
// unresolved list, empty when the source had no reference at all.
func lookupRef(idx *resolve.NameIndex, raw any, kind string) (ref *string, note string) {
	text, ok := normalize.Stringify(raw)
	if !ok {
		return nil, ""
	}
	id, found := idx.Lookup(text)
	if !found {
		return nil, fmt.Sprintf("%s %q", kind, text)
	}
	return &id, ""
}
