package warehouse

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// GetByName retrieves an active warehouse by exact name.
	// Ledger locations are stored by name, not by ID.
	GetByName(ctx context.Context, name string) (*Warehouse, error)
}
