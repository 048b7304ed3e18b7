package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*warehouse.Warehouse](
			txManager,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// GetByName retrieves a warehouse by its exact name.
// Stock balances reference warehouses by name, not by ID.
func (r *WarehouseRepo) GetByName(ctx context.Context, name string) (*warehouse.Warehouse, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[warehouse.Warehouse]()...).
		From(warehouseTable).
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
