package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/reconcile"
	"toothpickeve.com/migrate/internal/resolve"
)

// Patient is one row of the patients table. Optional fields are pointers;
// nil writes SQL NULL.
type Patient struct {
	SourceID      string
	FirstName     *string
	LastName      *string
	FatherName    *string
	MotherName    *string
	IDNumber      *string
	DateOfBirth   *time.Time
	Gender        *string
	MaritalStatus *string
	Nationality   *string
	Phone         *string
	PhoneAlt      *string
	Email         *string
	AddressLine1  *string
	AddressLine2  *string
	City          *string
	State         *string
	ZipCode       *string
	BloodGroup    *string
	Allergies     *string
}

// PatientModel writes patients keyed on source_id.
type PatientModel struct {
	exec Execer
}

// NewPatientModel wires a patient model to a statement executor.
func NewPatientModel(exec Execer) *PatientModel {
	return &PatientModel{exec: exec}
}

const patientUpsert = `
	INSERT INTO patients (
		source_id, first_name, last_name, father_name, mother_name, id_nb,
		date_of_birth, gender, marital_status, nationality, phone, phone_alt,
		email, address_line1, address_line2, city, state, zip_code,
		blood_group, allergies
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		first_name = VALUES(first_name),
		last_name = VALUES(last_name),
		father_name = VALUES(father_name),
		mother_name = VALUES(mother_name),
		id_nb = VALUES(id_nb),
		date_of_birth = VALUES(date_of_birth),
		gender = VALUES(gender),
		marital_status = VALUES(marital_status),
		nationality = VALUES(nationality),
		phone = VALUES(phone),
		phone_alt = VALUES(phone_alt),
		email = VALUES(email),
		address_line1 = VALUES(address_line1),
		address_line2 = VALUES(address_line2),
		city = VALUES(city),
		state = VALUES(state),
		zip_code = VALUES(zip_code),
		blood_group = VALUES(blood_group),
		allergies = VALUES(allergies)`

// Upsert writes one patient and classifies the write.
func (m *PatientModel) Upsert(ctx context.Context, p *Patient) (reconcile.Outcome, error) {
	if p.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("patient without source id")
	}
	return upsert(ctx, m.exec, patientUpsert,
		p.SourceID, p.FirstName, p.LastName, p.FatherName, p.MotherName,
		p.IDNumber, p.DateOfBirth, p.Gender, p.MaritalStatus, p.Nationality,
		p.Phone, p.PhoneAlt, p.Email, p.AddressLine1, p.AddressLine2,
		p.City, p.State, p.ZipCode, p.BloodGroup, p.Allergies)
}

// ListPatientNames returns the name-resolution entries for every stored
// patient, in storage order.
func (db *DB) ListPatientNames(ctx context.Context) ([]resolve.Entry, error) {
	return db.listNames(ctx, "patients")
}

func (db *DB) listNames(ctx context.Context, table string) ([]resolve.Entry, error) {
	rows, err := db.sqlDB.QueryContext(ctx,
		"SELECT source_id, first_name, last_name FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s names: %w", table, err)
	}
	defer rows.Close()

	var entries []resolve.Entry
	for rows.Next() {
		var e resolve.Entry
		if err := rows.Scan(&e.SourceID, &e.FirstName, &e.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan %s name row: %w", table, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s names: %w", table, err)
	}
	return entries, nil
}
