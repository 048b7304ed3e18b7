// Package warehouse provides the Warehouse catalog.
// Warehouses are the named storage locations stock can be received into.
package warehouse

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	entity.Catalog

	// Address is the physical address
	Address string `db:"address" json:"address,omitempty"`

	// Description
	Description string `db:"description" json:"description,omitempty"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}

// CanAcceptStock returns true if the warehouse may receive new entries.
func (w *Warehouse) CanAcceptStock() bool {
	return w.Active && !w.DeletionMark
}
