package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/reconcile"
)

// Invoice is one row of the invoices table.
type Invoice struct {
	SourceID      string
	PatientID     *string
	DoctorID      *string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Status        *string
	Currency      *string
	DiscountType  *string
	DiscountValue *float64
	TotalAmount   *float64
	AmountPaid    *float64
	BalanceDue    *float64
	Notes         *string
}

// InvoiceModel writes invoices keyed on source_id.
type InvoiceModel struct {
	exec Execer
}

// NewInvoiceModel wires an invoice model to a statement executor.
func NewInvoiceModel(exec Execer) *InvoiceModel {
	return &InvoiceModel{exec: exec}
}

const invoiceUpsert = `
	INSERT INTO invoices (
		source_id, patient_id, doctor_id, invoice_date, due_date, status,
		currency, discount_type, discount_value, total_amount, amount_paid,
		balance_due, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		patient_id = VALUES(patient_id),
		doctor_id = VALUES(doctor_id),
		invoice_date = VALUES(invoice_date),
		due_date = VALUES(due_date),
		status = VALUES(status),
		currency = VALUES(currency),
		discount_type = VALUES(discount_type),
		discount_value = VALUES(discount_value),
		total_amount = VALUES(total_amount),
		amount_paid = VALUES(amount_paid),
		balance_due = VALUES(balance_due),
		notes = VALUES(notes)`

// Upsert writes one invoice and classifies the write.
func (m *InvoiceModel) Upsert(ctx context.Context, inv *Invoice) (reconcile.Outcome, error) {
	if inv.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("invoice without source id")
	}
	return upsert(ctx, m.exec, invoiceUpsert,
		inv.SourceID, inv.PatientID, inv.DoctorID, inv.InvoiceDate,
		inv.DueDate, inv.Status, inv.Currency, inv.DiscountType,
		inv.DiscountValue, inv.TotalAmount, inv.AmountPaid, inv.BalanceDue,
		inv.Notes)
}
