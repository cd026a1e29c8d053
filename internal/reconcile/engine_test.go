package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toothpickeve.com/migrate/internal/source"
)

type fakeCommitter struct {
	commits int
	fail    error
}

func (c *fakeCommitter) Commit(ctx context.Context) error {
	c.commits++
	return c.fail
}

type sinkRecord struct {
	table, sourceID, operation, status, message string
}

type fakeSink struct {
	records []sinkRecord
}

func (s *fakeSink) Record(ctx context.Context, table, sourceID, operation, status, message string) error {
	s.records = append(s.records, sinkRecord{table, sourceID, operation, status, message})
	return nil
}

func rows(n int) source.Iterator {
	out := make([]source.Row, n)
	for i := range out {
		out[i] = source.Row{"id": fmt.Sprintf("%d", i+1)}
	}
	return source.NewSliceIterator(out)
}

func TestClassifyUpsert(t *testing.T) {
	tests := []struct {
		affected int64
		want     Outcome
	}{
		{1, OutcomeInserted},
		{2, OutcomeUpdated},
		{0, OutcomeUnchanged},
	}
	for _, tt := range tests {
		if got := ClassifyUpsert(tt.affected); got != tt.want {
			t.Errorf("ClassifyUpsert(%d) = %s, want %s", tt.affected, got, tt.want)
		}
	}
}

func TestEngineRunCountsOutcomes(t *testing.T) {
	committer := &fakeCommitter{}
	eng := &Engine{Table: "patients", BatchSize: 3, Committer: committer}

	apply := func(ctx context.Context, row source.Row) Result {
		id, _ := row.Get("id").(string)
		switch id {
		case "2":
			return Skipped(id, "filtered")
		case "4":
			return Errored(id, errors.New("boom"))
		case "5":
			return Applied(id, OutcomeUpdated)
		default:
			return Applied(id, OutcomeInserted)
		}
	}

	stats, err := eng.Run(context.Background(), rows(7), apply)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.Read != 7 || stats.Inserted != 4 || stats.Updated != 1 || stats.Skipped != 1 || stats.Errored != 1 {
		t.Errorf("stats = %+v", stats)
	}
	// Two batch commits (rows 3 and 6) plus the final one.
	if committer.commits != 3 {
		t.Errorf("commits = %d, want 3", committer.commits)
	}
}

func TestEngineIsolatesPanickingRow(t *testing.T) {
	eng := &Engine{Table: "patients", BatchSize: 10, Committer: &fakeCommitter{}}

	apply := func(ctx context.Context, row source.Row) Result {
		id, _ := row.Get("id").(string)
		if id == "2" {
			panic("bad row")
		}
		return Applied(id, OutcomeInserted)
	}

	stats, err := eng.Run(context.Background(), rows(4), apply)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Errored != 1 {
		t.Errorf("Errored = %d, want 1 (panicking row)", stats.Errored)
	}
	if stats.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3 (rows after the panic still apply)", stats.Inserted)
	}
}

func TestEngineRowLimit(t *testing.T) {
	eng := &Engine{Table: "patients", BatchSize: 10, RowLimit: 2, Committer: &fakeCommitter{}}

	applied := 0
	apply := func(ctx context.Context, row source.Row) Result {
		applied++
		id, _ := row.Get("id").(string)
		return Applied(id, OutcomeInserted)
	}

	stats, err := eng.Run(context.Background(), rows(50), apply)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Read != 2 || applied != 2 {
		t.Errorf("read %d rows, applied %d, want 2 each", stats.Read, applied)
	}
}

func TestEngineRecordsSkipsAndErrorsToSink(t *testing.T) {
	sink := &fakeSink{}
	eng := &Engine{Table: "invoices", BatchSize: 10, Committer: &fakeCommitter{}, Sink: sink}

	apply := func(ctx context.Context, row source.Row) Result {
		id, _ := row.Get("id").(string)
		if id == "1" {
			return Skipped(id, "expense record")
		}
		return Errored(id, errors.New("duplicate key"))
	}

	if _, err := eng.Run(context.Background(), rows(2), apply); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(sink.records) != 2 {
		t.Fatalf("sink records = %d, want 2", len(sink.records))
	}
	if sink.records[0].status != "skipped" || sink.records[0].message != "expense record" {
		t.Errorf("first record = %+v", sink.records[0])
	}
	if sink.records[1].status != "error" {
		t.Errorf("second record = %+v", sink.records[1])
	}
}

func TestEngineUnchangedRowsOnRerun(t *testing.T) {
	eng := &Engine{Table: "patients", BatchSize: 10, Committer: &fakeCommitter{}}

	apply := func(ctx context.Context, row source.Row) Result {
		id, _ := row.Get("id").(string)
		return Applied(id, ClassifyUpsert(0))
	}

	stats, err := eng.Run(context.Background(), rows(5), apply)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Unchanged != 5 || stats.Inserted != 0 || stats.Updated != 0 {
		t.Errorf("re-run stats = %+v, want all unchanged", stats)
	}
}

func TestRunLogFlush(t *testing.T) {
	dir := t.TempDir()
	rl := NewRunLog(dir, "doctors")
	rl.Skip("17: Beirut Lab Services (filtered)")
	rl.Error("22: connection reset")

	if err := rl.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	skipped, err := os.ReadFile(filepath.Join(dir, "doctors_skipped.log"))
	if err != nil {
		t.Fatalf("skipped log missing: %v", err)
	}
	if !strings.Contains(string(skipped), "Beirut Lab Services") {
		t.Errorf("skipped log content: %q", skipped)
	}

	if _, err := os.ReadFile(filepath.Join(dir, "doctors_errors.log")); err != nil {
		t.Errorf("errors log missing: %v", err)
	}
}

func TestRunLogEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	rl := NewRunLog(dir, "patients")
	if err := rl.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files, found %d", len(entries))
	}
}
