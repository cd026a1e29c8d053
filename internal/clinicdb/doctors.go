package clinicdb

import (
	"context"
	"fmt"

	"toothpickeve.com/migrate/internal/reconcile"
	"toothpickeve.com/migrate/internal/resolve"
)

// Doctor is one row of the doctors table.
type Doctor struct {
	SourceID        string
	Title           *string
	FirstName       *string
	LastName        *string
	Specialization  *string
	Qualification   *string
	LicenseNumber   *string
	Phone           *string
	PhoneAlt        *string
	Email           *string
	ConsultationFee *float64
}

// DoctorModel writes doctors keyed on source_id.
type DoctorModel struct {
	exec Execer
}

// NewDoctorModel wires a doctor model to a statement executor.
func NewDoctorModel(exec Execer) *DoctorModel {
	return &DoctorModel{exec: exec}
}

const doctorUpsert = `
	INSERT INTO doctors (
		source_id, title, first_name, last_name, specialization,
		qualification, license_number, phone, phone_alt, email,
		consultation_fee
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		title = VALUES(title),
		first_name = VALUES(first_name),
		last_name = VALUES(last_name),
		specialization = VALUES(specialization),
		qualification = VALUES(qualification),
		license_number = VALUES(license_number),
		phone = VALUES(phone),
		phone_alt = VALUES(phone_alt),
		email = VALUES(email),
		consultation_fee = VALUES(consultation_fee)`

// Upsert writes one doctor and classifies the write.
func (m *DoctorModel) Upsert(ctx context.Context, d *Doctor) (reconcile.Outcome, error) {
	if d.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("doctor without source id")
	}
	return upsert(ctx, m.exec, doctorUpsert,
		d.SourceID, d.Title, d.FirstName, d.LastName, d.Specialization,
		d.Qualification, d.LicenseNumber, d.Phone, d.PhoneAlt, d.Email,
		d.ConsultationFee)
}

// ListDoctorNames returns the name-resolution entries for every stored
// doctor, in storage order.
func (db *DB) ListDoctorNames(ctx context.Context) ([]resolve.Entry, error) {
	return db.listNames(ctx, "doctors")
}
