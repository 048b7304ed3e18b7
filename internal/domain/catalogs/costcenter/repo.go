package costcenter

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Repository defines the interface for CostCenter persistence.
type Repository interface {
	domain.CatalogRepository[*CostCenter]
}
