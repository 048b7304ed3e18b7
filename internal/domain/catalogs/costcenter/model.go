// Package costcenter provides the CostCenter catalog. Stock exits and
// purchase requests are charged against a cost center.
package costcenter

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
)

// CostCenter represents an accounting cost center.
type CostCenter struct {
	entity.Catalog

	// Description
	Description string `db:"description" json:"description,omitempty"`
}

// NewCostCenter creates a new CostCenter with required fields.
func NewCostCenter(code, name string) *CostCenter {
	return &CostCenter{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *CostCenter) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
