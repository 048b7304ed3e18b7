package finplan

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Repository defines the interface for FinancialPlan persistence.
type Repository interface {
	domain.CatalogRepository[*FinancialPlan]
}
