package dto

import (
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/product"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
)

// --- Product ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code     string           `json:"code"`
	Name     string           `json:"name" binding:"required"`
	Unit     string           `json:"unit" binding:"required"`
	Category product.Category `json:"category" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	return product.NewProduct(r.Code, r.Name, r.Unit, r.Category)
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code     string           `json:"code"`
	Name     string           `json:"name" binding:"required"`
	Unit     string           `json:"unit" binding:"required"`
	Category product.Category `json:"category" binding:"required"`
	Active   bool             `json:"active"`
	Version  int              `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.Unit = r.Unit
	p.Category = r.Category
	p.Active = r.Active
	p.Version = r.Version
}

// ProductResponse is the response body for a product.
type ProductResponse struct {
	CatalogResponse
	Unit     string           `json:"unit"`
	Category product.Category `json:"category"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		Unit:            p.Unit,
		Category:        p.Category,
	}
}

// --- Employee ---

type CreateEmployeeRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	Registration string `json:"registration" binding:"required"`
	Role         string `json:"role"`
}

func (r *CreateEmployeeRequest) ToEntity() *employee.Employee {
	e := employee.NewEmployee(r.Code, r.Name, r.Registration)
	e.Role = r.Role
	return e
}

type UpdateEmployeeRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	Registration string `json:"registration" binding:"required"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
	Version      int    `json:"version" binding:"required"`
}

func (r *UpdateEmployeeRequest) ApplyTo(e *employee.Employee) {
	e.Code = r.Code
	e.Name = r.Name
	e.Registration = r.Registration
	e.Role = r.Role
	e.Active = r.Active
	e.Version = r.Version
}

type EmployeeResponse struct {
	CatalogResponse
	Registration string `json:"registration"`
	Role         string `json:"role,omitempty"`
}

func FromEmployee(e *employee.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		CatalogResponse: FromCatalog(e.Catalog),
		Registration:    e.Registration,
		Role:            e.Role,
	}
}

// --- Warehouse ---

type CreateWarehouseRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Address = r.Address
	wh.Description = r.Description
	return wh
}

type UpdateWarehouseRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	Version     int    `json:"version" binding:"required"`
}

func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Address = r.Address
	wh.Description = r.Description
	wh.Active = r.Active
	wh.Version = r.Version
}

type WarehouseResponse struct {
	CatalogResponse
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}

func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		CatalogResponse: FromCatalog(wh.Catalog),
		Address:         wh.Address,
		Description:     wh.Description,
	}
}

// --- Cost Center ---

type CreateCostCenterRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (r *CreateCostCenterRequest) ToEntity() *costcenter.CostCenter {
	cc := costcenter.NewCostCenter(r.Code, r.Name)
	cc.Description = r.Description
	return cc
}

type UpdateCostCenterRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	Version     int    `json:"version" binding:"required"`
}

func (r *UpdateCostCenterRequest) ApplyTo(cc *costcenter.CostCenter) {
	cc.Code = r.Code
	cc.Name = r.Name
	cc.Description = r.Description
	cc.Active = r.Active
	cc.Version = r.Version
}

type CostCenterResponse struct {
	CatalogResponse
	Description string `json:"description,omitempty"`
}

func FromCostCenter(cc *costcenter.CostCenter) *CostCenterResponse {
	return &CostCenterResponse{
		CatalogResponse: FromCatalog(cc.Catalog),
		Description:     cc.Description,
	}
}

// --- Financial Plan ---

type CreateFinancialPlanRequest struct {
	Code   string      `json:"code"`
	Name   string      `json:"name" binding:"required"`
	Budget types.Money `json:"budget"`
}

func (r *CreateFinancialPlanRequest) ToEntity() *finplan.FinancialPlan {
	return finplan.NewFinancialPlan(r.Code, r.Name, r.Budget)
}

type UpdateFinancialPlanRequest struct {
	Code    string      `json:"code"`
	Name    string      `json:"name" binding:"required"`
	Budget  types.Money `json:"budget"`
	Active  bool        `json:"active"`
	Version int         `json:"version" binding:"required"`
}

func (r *UpdateFinancialPlanRequest) ApplyTo(fp *finplan.FinancialPlan) {
	fp.Code = r.Code
	fp.Name = r.Name
	fp.Budget = r.Budget
	fp.Active = r.Active
	fp.Version = r.Version
}

type FinancialPlanResponse struct {
	CatalogResponse
	Budget types.Money `json:"budget"`
}

func FromFinancialPlan(fp *finplan.FinancialPlan) *FinancialPlanResponse {
	return &FinancialPlanResponse{
		CatalogResponse: FromCatalog(fp.Catalog),
		Budget:          fp.Budget,
	}
}
