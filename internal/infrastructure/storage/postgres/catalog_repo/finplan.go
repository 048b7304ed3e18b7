package catalog_repo

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
)

const financialPlanTable = "cat_financial_plans"

// FinancialPlanRepo implements finplan.Repository.
type FinancialPlanRepo struct {
	*BaseCatalogRepo[*finplan.FinancialPlan]
}

// NewFinancialPlanRepo creates a new financial plan repository.
func NewFinancialPlanRepo(txManager *postgres.TxManager) *FinancialPlanRepo {
	return &FinancialPlanRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*finplan.FinancialPlan](
			txManager,
			financialPlanTable,
			postgres.ExtractDBColumns[finplan.FinancialPlan](),
			func() *finplan.FinancialPlan { return &finplan.FinancialPlan{} },
		),
	}
}
