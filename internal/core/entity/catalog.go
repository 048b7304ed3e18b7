package entity

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Products, Employees, Warehouses, CostCenters.
type Catalog struct {
	BaseEntity
	AuditFields

	// Code is a human-readable identifier (unique)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Active controls whether the item is offered in pickers and
	// accepted as a reference by new operations
	Active bool `db:"active" json:"active"`
}

// NewCatalog creates a new active Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity:  NewBaseEntity(),
		AuditFields: NewAuditFields(),
		Code:        code,
		Name:        name,
		Active:      true,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Deactivate hides the item from pickers without deleting history.
func (c *Catalog) Deactivate() {
	c.Active = false
}

// Activate makes the item selectable again.
func (c *Catalog) Activate() {
	c.Active = true
}
