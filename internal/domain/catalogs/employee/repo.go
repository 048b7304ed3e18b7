package employee

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Repository defines the interface for Employee persistence.
type Repository interface {
	domain.CatalogRepository[*Employee]
}
