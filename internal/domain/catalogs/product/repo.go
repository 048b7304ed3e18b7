package product

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]
}
