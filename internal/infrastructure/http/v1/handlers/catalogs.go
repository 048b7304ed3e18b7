package handlers

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/product"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/http/v1/dto"
)

// Type aliases keep the generic handler signatures readable in the router.
type ProductHTTPHandler = CatalogHandler[
	*product.Product,
	dto.CreateProductRequest,
	dto.UpdateProductRequest,
]

// NewProductHandler wires the generic catalog handler to the product service.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHTTPHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

type EmployeeHTTPHandler = CatalogHandler[
	*employee.Employee,
	dto.CreateEmployeeRequest,
	dto.UpdateEmployeeRequest,
]

func NewEmployeeHandler(base *BaseHandler, service *employee.Service) *EmployeeHTTPHandler {
	config := CatalogHandlerConfig[
		*employee.Employee,
		dto.CreateEmployeeRequest,
		dto.UpdateEmployeeRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "employee",
		MapCreateDTO: func(req dto.CreateEmployeeRequest) *employee.Employee {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateEmployeeRequest, existing *employee.Employee) *employee.Employee {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *employee.Employee) any {
			return dto.FromEmployee(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

type WarehouseHTTPHandler = CatalogHandler[
	*warehouse.Warehouse,
	dto.CreateWarehouseRequest,
	dto.UpdateWarehouseRequest,
]

func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHTTPHandler {
	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "warehouse",
		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

type CostCenterHTTPHandler = CatalogHandler[
	*costcenter.CostCenter,
	dto.CreateCostCenterRequest,
	dto.UpdateCostCenterRequest,
]

func NewCostCenterHandler(base *BaseHandler, service *costcenter.Service) *CostCenterHTTPHandler {
	config := CatalogHandlerConfig[
		*costcenter.CostCenter,
		dto.CreateCostCenterRequest,
		dto.UpdateCostCenterRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "cost center",
		MapCreateDTO: func(req dto.CreateCostCenterRequest) *costcenter.CostCenter {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCostCenterRequest, existing *costcenter.CostCenter) *costcenter.CostCenter {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *costcenter.CostCenter) any {
			return dto.FromCostCenter(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

type FinancialPlanHTTPHandler = CatalogHandler[
	*finplan.FinancialPlan,
	dto.CreateFinancialPlanRequest,
	dto.UpdateFinancialPlanRequest,
]

func NewFinancialPlanHandler(base *BaseHandler, service *finplan.Service) *FinancialPlanHTTPHandler {
	config := CatalogHandlerConfig[
		*finplan.FinancialPlan,
		dto.CreateFinancialPlanRequest,
		dto.UpdateFinancialPlanRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "financial plan",
		MapCreateDTO: func(req dto.CreateFinancialPlanRequest) *finplan.FinancialPlan {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateFinancialPlanRequest, existing *finplan.FinancialPlan) *finplan.FinancialPlan {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *finplan.FinancialPlan) any {
			return dto.FromFinancialPlan(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
