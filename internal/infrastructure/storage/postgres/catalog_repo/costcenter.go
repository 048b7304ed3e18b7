package catalog_repo

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
)

const costCenterTable = "cat_cost_centers"

// CostCenterRepo implements costcenter.Repository.
type CostCenterRepo struct {
	*BaseCatalogRepo[*costcenter.CostCenter]
}

// NewCostCenterRepo creates a new cost center repository.
func NewCostCenterRepo(txManager *postgres.TxManager) *CostCenterRepo {
	return &CostCenterRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*costcenter.CostCenter](
			txManager,
			costCenterTable,
			postgres.ExtractDBColumns[costcenter.CostCenter](),
			func() *costcenter.CostCenter { return &costcenter.CostCenter{} },
		),
	}
}
