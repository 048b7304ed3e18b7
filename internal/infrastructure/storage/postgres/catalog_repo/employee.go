package catalog_repo

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
)

const employeeTable = "cat_employees"

// EmployeeRepo implements employee.Repository.
type EmployeeRepo struct {
	*BaseCatalogRepo[*employee.Employee]
}

// NewEmployeeRepo creates a new employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*employee.Employee](
			txManager,
			employeeTable,
			postgres.ExtractDBColumns[employee.Employee](),
			func() *employee.Employee { return &employee.Employee{} },
		),
	}
}
