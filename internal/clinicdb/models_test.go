package clinicdb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"toothpickeve.com/migrate/internal/reconcile"
)

type fakeResult struct {
	affected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

type fakeExecer struct {
	affected int64
	fail     error
	queries  []string
	args     [][]any
}

func (e *fakeExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	if e.fail != nil {
		return nil, e.fail
	}
	return fakeResult{affected: e.affected}, nil
}

func strPtr(s string) *string { return &s }

func TestPatientUpsertOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     reconcile.Outcome
	}{
		{"insert", 1, reconcile.OutcomeInserted},
		{"update", 2, reconcile.OutcomeUpdated},
		{"no-op", 0, reconcile.OutcomeUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecer{affected: tt.affected}
			model := NewPatientModel(exec)

			outcome, err := model.Upsert(context.Background(), &Patient{
				SourceID:  "P1",
				FirstName: strPtr("John"),
				LastName:  strPtr("Smith"),
			})
			if err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			if outcome != tt.want {
				t.Errorf("outcome = %s, want %s", outcome, tt.want)
			}
		})
	}
}

func TestPatientUpsertRequiresSourceID(t *testing.T) {
	model := NewPatientModel(&fakeExecer{affected: 1})
	outcome, err := model.Upsert(context.Background(), &Patient{})
	if err == nil {
		t.Fatal("expected error for missing source id")
	}
	if outcome != reconcile.OutcomeErrored {
		t.Errorf("outcome = %s, want errored", outcome)
	}
}

func TestPatientUpsertStatementShape(t *testing.T) {
	exec := &fakeExecer{affected: 1}
	model := NewPatientModel(exec)

	if _, err := model.Upsert(context.Background(), &Patient{SourceID: "P1"}); err != nil {
		t.Fatal(err)
	}
	if len(exec.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(exec.queries))
	}
	q := exec.queries[0]
	if !strings.Contains(q, "ON DUPLICATE KEY UPDATE") {
		t.Error("statement is not an upsert")
	}
	if strings.Count(q, "?") != len(exec.args[0]) {
		t.Errorf("placeholders %d != args %d", strings.Count(q, "?"), len(exec.args[0]))
	}
	if exec.args[0][0] != "P1" {
		t.Errorf("first arg = %v, want source id", exec.args[0][0])
	}
}

func TestEveryModelStatementShape(t *testing.T) {
	exec := &fakeExecer{affected: 1}
	ctx := context.Background()

	upserts := []struct {
		name string
		call func() (reconcile.Outcome, error)
	}{
		{"doctor", func() (reconcile.Outcome, error) {
			return NewDoctorModel(exec).Upsert(ctx, &Doctor{SourceID: "D1"})
		}},
		{"appointment", func() (reconcile.Outcome, error) {
			return NewAppointmentModel(exec).Upsert(ctx, &Appointment{SourceID: "A1"})
		}},
		{"invoice", func() (reconcile.Outcome, error) {
			return NewInvoiceModel(exec).Upsert(ctx, &Invoice{SourceID: "I1"})
		}},
		{"invoice item", func() (reconcile.Outcome, error) {
			return NewInvoiceItemModel(exec).Upsert(ctx, &InvoiceItem{SourceID: "II1"})
		}},
		{"payment", func() (reconcile.Outcome, error) {
			return NewPaymentModel(exec).Upsert(ctx, &Payment{SourceID: "PY1"})
		}},
		{"treatment", func() (reconcile.Outcome, error) {
			return NewTreatmentModel(exec).Upsert(ctx, &Treatment{SourceID: "T1"})
		}},
		{"inventory", func() (reconcile.Outcome, error) {
			return NewInventoryModel(exec).Upsert(ctx, &InventoryItem{SourceID: "S1"})
		}},
		{"relationship", func() (reconcile.Outcome, error) {
			return NewRelationshipModel(exec).Upsert(ctx, &PatientRelationship{SourceID: "R1"})
		}},
	}

	for _, tt := range upserts {
		t.Run(tt.name, func(t *testing.T) {
			before := len(exec.queries)
			outcome, err := tt.call()
			if err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			if outcome != reconcile.OutcomeInserted {
				t.Errorf("outcome = %s, want inserted", outcome)
			}
			q := exec.queries[before]
			if !strings.Contains(q, "ON DUPLICATE KEY UPDATE") {
				t.Error("statement is not an upsert")
			}
			if strings.Count(q, "?") != len(exec.args[before]) {
				t.Errorf("placeholders %d != args %d", strings.Count(q, "?"), len(exec.args[before]))
			}
		})
	}
}

func TestUpsertErrorPropagates(t *testing.T) {
	exec := &fakeExecer{fail: errors.New("deadlock")}
	model := NewDoctorModel(exec)

	outcome, err := model.Upsert(context.Background(), &Doctor{SourceID: "D1"})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if outcome != reconcile.OutcomeErrored {
		t.Errorf("outcome = %s, want errored", outcome)
	}
}

func TestTableDDLCoversEveryTable(t *testing.T) {
	for _, table := range Tables {
		ddl, ok := tableDDL[table]
		if !ok {
			t.Errorf("no DDL for table %s", table)
			continue
		}
		if !strings.Contains(ddl, table) {
			t.Errorf("DDL for %s does not name the table", table)
		}
		if table != "migration_log" && !strings.Contains(ddl, "UNIQUE KEY") {
			t.Errorf("DDL for %s has no natural key constraint", table)
		}
	}
}
