// Package employee provides the Employee catalog. Employees withdraw and
// return stock and raise purchase requests.
package employee

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
)

// Employee represents a company employee.
type Employee struct {
	entity.Catalog

	// Registration is the badge/payroll number
	Registration string `db:"registration" json:"registration"`

	// Role is the job title
	Role string `db:"role" json:"role,omitempty"`
}

// NewEmployee creates a new Employee with required fields.
func NewEmployee(code, name, registration string) *Employee {
	return &Employee{
		Catalog:      entity.NewCatalog(code, name),
		Registration: registration,
	}
}

// Validate implements entity.Validatable interface.
func (e *Employee) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}

	if e.Registration == "" {
		return apperror.NewValidation("registration is required").
			WithDetail("field", "registration")
	}

	return nil
}
