package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/reconcile"
)

// Payment is one row of the payments table. OriginalAmount preserves the
// pre-conversion figure when the source recorded a different currency.
type Payment struct {
	SourceID        string
	InvoiceID       *string
	PatientID       *string
	PaymentMethod   *string
	Amount          *float64
	OriginalAmount  *float64
	Currency        *string
	ReferenceNumber *string
	PaymentDate     *time.Time
	DeletedAt       *time.Time
}

// PaymentModel writes payments keyed on source_id.
type PaymentModel struct {
	exec Execer
}

// NewPaymentModel wires a payment model to a statement executor.
func NewPaymentModel(exec Execer) *PaymentModel {
	return &PaymentModel{exec: exec}
}

const paymentUpsert = `
	INSERT INTO payments (
		source_id, invoice_id, patient_id, payment_method, amount,
		original_amount, currency, reference_number, payment_date, deleted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		invoice_id = VALUES(invoice_id),
		patient_id = VALUES(patient_id),
		payment_method = VALUES(payment_method),
		amount = VALUES(amount),
		original_amount = VALUES(original_amount),
		currency = VALUES(currency),
		reference_number = VALUES(reference_number),
		payment_date = VALUES(payment_date),
		deleted_at = VALUES(deleted_at)`

// Upsert writes one payment and classifies the write.
func (m *PaymentModel) Upsert(ctx context.Context, p *Payment) (reconcile.Outcome, error) {
	if p.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("payment without source id")
	}
	return upsert(ctx, m.exec, paymentUpsert,
		p.SourceID, p.InvoiceID, p.PatientID, p.PaymentMethod, p.Amount,
		p.OriginalAmount, p.Currency, p.ReferenceNumber, p.PaymentDate,
		p.DeletedAt)
}
