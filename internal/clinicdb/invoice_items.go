package clinicdb

import (
	"context"
	"fmt"

	"toothpickeve.com/migrate/internal/reconcile"
)

// InvoiceItem is one row of the invoice_items table. InvoiceID carries the
// parent invoice's source id.
type InvoiceItem struct {
	SourceID    string
	InvoiceID   *string
	Description *string
	UnitPrice   *float64
	Quantity    *int
	TotalAmount *float64
}

// InvoiceItemModel writes invoice items keyed on source_id.
type InvoiceItemModel struct {
	exec Execer
}

// NewInvoiceItemModel wires an invoice item model to a statement executor.
func NewInvoiceItemModel(exec Execer) *InvoiceItemModel {
	return &InvoiceItemModel{exec: exec}
}

const invoiceItemUpsert = `
	INSERT INTO invoice_items (
		source_id, invoice_id, description, unit_price, quantity, total_amount
	) VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		invoice_id = VALUES(invoice_id),
		description = VALUES(description),
		unit_price = VALUES(unit_price),
		quantity = VALUES(quantity),
		total_amount = VALUES(total_amount)`

// Upsert writes one invoice item and classifies the write.
func (m *InvoiceItemModel) Upsert(ctx context.Context, it *InvoiceItem) (reconcile.Outcome, error) {
	if it.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("invoice item without source id")
	}
	return upsert(ctx, m.exec, invoiceItemUpsert,
		it.SourceID, it.InvoiceID, it.Description, it.UnitPrice,
		it.Quantity, it.TotalAmount)
}
