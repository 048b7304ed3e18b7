// Package finplan provides the FinancialPlan catalog: budget lines that
// purchase requests draw from.
package finplan

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
)

// FinancialPlan represents a budget line.
type FinancialPlan struct {
	entity.Catalog

	// Budget is the allocated amount for the plan
	Budget types.Money `db:"budget" json:"budget"`
}

// NewFinancialPlan creates a new FinancialPlan with required fields.
func NewFinancialPlan(code, name string, budget types.Money) *FinancialPlan {
	return &FinancialPlan{
		Catalog: entity.NewCatalog(code, name),
		Budget:  budget,
	}
}

// Validate implements entity.Validatable interface.
func (f *FinancialPlan) Validate(ctx context.Context) error {
	if err := f.Catalog.Validate(ctx); err != nil {
		return err
	}

	if f.Budget.IsNegative() {
		return apperror.NewValidation("budget cannot be negative").
			WithDetail("field", "budget")
	}

	return nil
}
