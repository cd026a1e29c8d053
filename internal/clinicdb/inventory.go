package clinicdb

import (
	"context"
	"fmt"
	"time"

	"toothpickeve.com/migrate/internal/reconcile"
)

// InventoryItem is one row of the inventory table. Quantities are decimal
// because some stock is tracked in fractional units.
type InventoryItem struct {
	SourceID                string
	Category                *string
	Name                    *string
	SKU                     *string
	Description             *string
	UnitOfMeasure           *string
	Size                    *string
	QuantityInStock         *float64
	UnitSize                *float64
	AveragePurchasePrice    *float64
	SellingPrice            *float64
	MinimumQuantityWarning  *float64
	MinimumQuantityCritical *float64
	Currency                *string
	DeletedAt               *time.Time
}

// InventoryModel writes inventory items keyed on source_id.
type InventoryModel struct {
	exec Execer
}

// NewInventoryModel wires an inventory model to a statement executor.
func NewInventoryModel(exec Execer) *InventoryModel {
	return &InventoryModel{exec: exec}
}

const inventoryUpsert = `
	INSERT INTO inventory (
		source_id, category, name, sku, description, unit_of_measure, size,
		quantity_in_stock, unit_size, average_purchase_price, selling_price,
		minimum_quantity_warning, minimum_quantity_critical, currency,
		deleted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		category = VALUES(category),
		name = VALUES(name),
		sku = VALUES(sku),
		description = VALUES(description),
		unit_of_measure = VALUES(unit_of_measure),
		size = VALUES(size),
		quantity_in_stock = VALUES(quantity_in_stock),
		unit_size = VALUES(unit_size),
		average_purchase_price = VALUES(average_purchase_price),
		selling_price = VALUES(selling_price),
		minimum_quantity_warning = VALUES(minimum_quantity_warning),
		minimum_quantity_critical = VALUES(minimum_quantity_critical),
		currency = VALUES(currency),
		deleted_at = VALUES(deleted_at)`

// Upsert writes one inventory item and classifies the write.
func (m *InventoryModel) Upsert(ctx context.Context, it *InventoryItem) (reconcile.Outcome, error) {
	if it.SourceID == "" {
		return reconcile.OutcomeErrored, fmt.Errorf("inventory item without source id")
	}
	return upsert(ctx, m.exec, inventoryUpsert,
		it.SourceID, it.Category, it.Name, it.SKU, it.Description,
		it.UnitOfMeasure, it.Size, it.QuantityInStock, it.UnitSize,
		it.AveragePurchasePrice, it.SellingPrice, it.MinimumQuantityWarning,
		it.MinimumQuantityCritical, it.Currency, it.DeletedAt)
}
