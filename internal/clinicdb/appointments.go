package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/reconcile"
)

// Appointment is one row of the appointments table. PatientID and DoctorID
// carry patient/doctor source ids; nil means the reference could not be
// resolved from the source data.
type Appointment struct {
	SourceID        string
	PatientID       *string
	DoctorID        *string
	AppointmentDate *time.Time
	AppointmentTime *string
	DurationMinutes *int
	Room            *string
	Status          *string
	Notes           *string
}

// AppointmentModel writes appointments keyed on source_id.
type AppointmentModel struct {
	exec Execer
}

// NewAppointmentModel wires an appointment model to a statement executor.
func NewAppointmentModel(exec Execer) *AppointmentModel {
	return &AppointmentModel{exec: exec}
}

const appointmentUpsert = `
	INSERT INTO appointments (
		source_id, patient_id, doctor_id, appointment_date, appointment_time,
		duration_minutes, room, status, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		patient_id = VALUES(patient_id),
		doctor_id = VALUES(doctor_id),
		appointment_date = VALUES(appointment_date),
		appointment_time = VALUES(appointment_time),
		duration_minutes = VALUES(duration_minutes),
		room = VALUES(room),
		status = VALUES(status),
		notes = VALUES(notes)`

// Upsert writes one appointment and classifies the write.
func (m *AppointmentModel) Upsert(ctx context.Context, a *Appointment) (reconcile.Outcome, error) {
	if a.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("appointment without source id")
	}
	return upsert(ctx, m.exec, appointmentUpsert,
		a.SourceID, a.PatientID, a.DoctorID, a.AppointmentDate,
		a.AppointmentTime, a.DurationMinutes, a.Room, a.Status, a.Notes)
}
