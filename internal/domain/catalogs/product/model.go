// Package product provides the Product catalog: the items tracked by the
// stock ledger and requested through the purchase workflow.
package product

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
)

// Category defines how an item leaves the storeroom.
type Category string

const (
	// CategoryConsumable is used up by the receiving employee
	CategoryConsumable Category = "consumable"
	// CategoryReturnable is lent out and expected back (tools, equipment)
	CategoryReturnable Category = "returnable"
)

// Product represents a stock item.
type Product struct {
	entity.Catalog

	// Unit is the unit of measure (e.g. "un", "cx", "kg")
	Unit string `db:"unit" json:"unit"`

	// Category defines whether the item is consumable or returnable
	Category Category `db:"category" json:"category"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name, unit string, category Category) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		Unit:     unit,
		Category: category,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if !isValidCategory(p.Category) {
		return apperror.NewValidation("invalid product category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}

	return nil
}

// IsReturnable returns true for items expected back after use.
func (p *Product) IsReturnable() bool {
	return p.Category == CategoryReturnable
}

func isValidCategory(c Category) bool {
	switch c {
	case CategoryConsumable, CategoryReturnable:
		return true
	}
	return false
}
