package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/reconcile"
)

// Treatment is one row of the treatments table.
type Treatment struct {
	SourceID       string
	PatientID      *string
	DoctorID       *string
	ToothNumber    *string
	ProcedureCode  *string
	ProcedureName  *string
	ProcedureGroup *string
	TreatmentPlan  *string
	Status         *string
	Price          *float64
	PlannedDate    *time.Time
	StartDate      *time.Time
	CompletionDate *time.Time
	Notes          *string
}

// TreatmentModel writes treatments keyed on source_id.
type TreatmentModel struct {
	exec Execer
}

// NewTreatmentModel wires a treatment model to a statement executor.
func NewTreatmentModel(exec Execer) *TreatmentModel {
	return &TreatmentModel{exec: exec}
}

const treatmentUpsert = `
	INSERT INTO treatments (
		source_id, patient_id, doctor_id, tooth_number, procedure_code,
		procedure_name, procedure_group, treatment_plan, status, price,
		planned_date, start_date, completion_date, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		patient_id = VALUES(patient_id),
		doctor_id = VALUES(doctor_id),
		tooth_number = VALUES(tooth_number),
		procedure_code = VALUES(procedure_code),
		procedure_name = VALUES(procedure_name),
		procedure_group = VALUES(procedure_group),
		treatment_plan = VALUES(treatment_plan),
		status = VALUES(status),
		price = VALUES(price),
		planned_date = VALUES(planned_date),
		start_date = VALUES(start_date),
		completion_date = VALUES(completion_date),
		notes = VALUES(notes)`

// Upsert writes one treatment and classifies the write.
func (m *TreatmentModel) Upsert(ctx context.Context, t *Treatment) (reconcile.Outcome, error) {
	if t.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("treatment without source id")
	}
	return upsert(ctx, m.exec, treatmentUpsert,
		t.SourceID, t.PatientID, t.DoctorID, t.ToothNumber, t.ProcedureCode,
		t.ProcedureName, t.ProcedureGroup, t.TreatmentPlan, t.Status,
		t.Price, t.PlannedDate, t.StartDate, t.CompletionDate, t.Notes)
}
