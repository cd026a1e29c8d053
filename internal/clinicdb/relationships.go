package clinicdb

import (
	"context"
	"fmt"

	"toothpickeve.com/migrate/internal/reconcile"
)

// PatientRelationship links two patients (guardian, spouse, sibling).
// Both sides carry patient source ids.
type PatientRelationship struct {
	SourceID         string
	PatientID        *string
	RelatedPatientID *string
	RelationshipType *string
}

// RelationshipModel writes patient relationships keyed on source_id.
type RelationshipModel struct {
	exec Execer
}

// NewRelationshipModel wires a relationship model to a statement executor.
func NewRelationshipModel(exec Execer) *RelationshipModel {
	return &RelationshipModel{exec: exec}
}

const relationshipUpsert = `
	INSERT INTO patient_relationships (
		source_id, patient_id, related_patient_id, relationship_type
	) VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		patient_id = VALUES(patient_id),
		related_patient_id = VALUES(related_patient_id),
		relationship_type = VALUES(relationship_type)`

// Upsert writes one relationship and classifies the write.
func (m *RelationshipModel) Upsert(ctx context.Context, r *PatientRelationship) (reconcile.Outcome, error) {
	if r.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("relationship without source id")
	}
	return upsert(ctx, m.exec, relationshipUpsert,
		r.SourceID, r.PatientID, r.RelatedPatientID, r.RelationshipType)
}
