package ledger

import (
	"context"
	"fmt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/product"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/logger"
)

// ProductLookup resolves products referenced by movement lines.
type ProductLookup interface {
	GetByID(ctx context.Context, id id.ID) (*product.Product, error)
}

// EmployeeLookup resolves employees referenced by movements.
type EmployeeLookup interface {
	GetByID(ctx context.Context, id id.ID) (*employee.Employee, error)
}

// CostCenterLookup resolves cost centers charged by exits.
type CostCenterLookup interface {
	GetByID(ctx context.Context, id id.ID) (*costcenter.CostCenter, error)
}

// WarehouseLookup resolves inbound locations against the warehouse catalog.
type WarehouseLookup interface {
	GetByName(ctx context.Context, name string) (*warehouse.Warehouse, error)
}

// Service provides the stock ledger operations. Every mutation runs as a
// single transaction: either the whole batch applies, with one record per
// line, or nothing does.
type Service struct {
	repo        Repository
	txManager   tx.Manager
	products    ProductLookup
	employees   EmployeeLookup
	costCenters CostCenterLookup
	warehouses  WarehouseLookup
}

// NewService creates a new ledger service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	products ProductLookup,
	employees EmployeeLookup,
	costCenters CostCenterLookup,
	warehouses WarehouseLookup,
) *Service {
	return &Service{
		repo:        repo,
		txManager:   txManager,
		products:    products,
		employees:   employees,
		costCenters: costCenters,
		warehouses:  warehouses,
	}
}

// RecordEntry applies an inbound batch at a warehouse location.
// Balances missing for a (product, location) pair are created at zero
// before the increment. Returns the appended records.
func (s *Service) RecordEntry(ctx context.Context, actorID string, in EntryInput) ([]entity.EntryRecord, error) {
	if err := validateActor(actorID); err != nil {
		return nil, err
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.Location == "" {
		return nil, apperror.NewValidation("location is required").WithDetail("field", "location")
	}

	switch in.Kind {
	case entity.EntryKindPurchase:
		if in.EmployeeID != nil {
			return nil, apperror.NewValidation("employee must not be set for purchase entries").
				WithDetail("field", "employeeId")
		}
	case entity.EntryKindReturn:
		if in.EmployeeID == nil {
			return nil, apperror.NewValidation("employee is required for return entries").
				WithDetail("field", "employeeId")
		}
	default:
		return nil, apperror.NewValidation("invalid entry kind").
			WithDetail("field", "kind").WithDetail("value", string(in.Kind))
	}

	wh, err := s.warehouses.GetByName(ctx, in.Location)
	if err != nil {
		return nil, err
	}
	if !wh.CanAcceptStock() {
		return nil, apperror.NewValidation("warehouse is not active").
			WithDetail("location", in.Location)
	}

	if in.EmployeeID != nil {
		if err := s.checkActiveEmployee(ctx, *in.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := s.checkActiveProducts(ctx, in.Lines); err != nil {
		return nil, err
	}

	records := make([]entity.EntryRecord, 0, len(in.Lines))
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		records = records[:0]
		for _, line := range in.Lines {
			balance, err := s.repo.LockOrCreateBalance(ctx, line.ProductID, in.Location)
			if err != nil {
				return fmt.Errorf("lock balance for %s: %w", line.ProductID, err)
			}
			newQty := balance.Quantity.Add(line.Quantity)
			if err := s.repo.UpdateBalanceQuantity(ctx, line.ProductID, in.Location, newQty); err != nil {
				return fmt.Errorf("update balance for %s: %w", line.ProductID, err)
			}

			rec := entity.EntryRecord{
				MovementBase: entity.NewMovementBase(line.ProductID, line.Quantity, actorID),
				Location:     in.Location,
				Kind:         in.Kind,
				EmployeeID:   in.EmployeeID,
			}
			records = append(records, rec)
		}
		return s.repo.CreateEntryRecords(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recorded stock entry",
		"location", in.Location,
		"kind", in.Kind,
		"lines", len(records),
	)
	return records, nil
}

// RecordExit applies an outbound batch withdrawn by an employee against a
// cost center. Every line must have an existing balance covering its
// quantity; exits never create balances.
func (s *Service) RecordExit(ctx context.Context, actorID string, in ExitInput) ([]entity.ExitRecord, error) {
	if err := validateActor(actorID); err != nil {
		return nil, err
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.Location == "" {
		return nil, apperror.NewValidation("location is required").WithDetail("field", "location")
	}
	if id.IsNil(in.EmployeeID) {
		return nil, apperror.NewValidation("employee is required").WithDetail("field", "employeeId")
	}
	if id.IsNil(in.CostCenterID) {
		return nil, apperror.NewValidation("cost center is required").WithDetail("field", "costCenterId")
	}

	if err := s.checkActiveEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	cc, err := s.costCenters.GetByID(ctx, in.CostCenterID)
	if err != nil {
		return nil, err
	}
	if !cc.Active {
		return nil, apperror.NewValidation("cost center is not active").
			WithDetail("costCenterId", in.CostCenterID.String())
	}
	if err := s.checkProductsExist(ctx, in.Lines); err != nil {
		return nil, err
	}

	records := make([]entity.ExitRecord, 0, len(in.Lines))
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		records = records[:0]
		for _, line := range in.Lines {
			if err := s.debitBalance(ctx, line, in.Location); err != nil {
				return err
			}

			rec := entity.ExitRecord{
				MovementBase: entity.NewMovementBase(line.ProductID, line.Quantity, actorID),
				Location:     in.Location,
				EmployeeID:   in.EmployeeID,
				CostCenterID: in.CostCenterID,
				Note:         in.Note,
			}
			records = append(records, rec)
		}
		return s.repo.CreateExitRecords(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recorded stock exit",
		"location", in.Location,
		"employee_id", in.EmployeeID,
		"lines", len(records),
	)
	return records, nil
}

// RecordTransfer moves a batch from one location to another. The source
// balance must cover each line; the destination balance is created at
// zero when missing. Exactly one record is written per line.
func (s *Service) RecordTransfer(ctx context.Context, actorID string, in TransferInput) ([]entity.TransferRecord, error) {
	if err := validateActor(actorID); err != nil {
		return nil, err
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if in.Source == "" || in.Destination == "" {
		return nil, apperror.NewValidation("source and destination are required")
	}
	if in.Source == in.Destination {
		return nil, apperror.NewValidation("source and destination must differ").
			WithDetail("location", in.Source)
	}

	wh, err := s.warehouses.GetByName(ctx, in.Destination)
	if err != nil {
		return nil, err
	}
	if !wh.CanAcceptStock() {
		return nil, apperror.NewValidation("destination warehouse is not active").
			WithDetail("location", in.Destination)
	}

	if in.EmployeeID != nil {
		if err := s.checkActiveEmployee(ctx, *in.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := s.checkProductsExist(ctx, in.Lines); err != nil {
		return nil, err
	}

	records := make([]entity.TransferRecord, 0, len(in.Lines))
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		records = records[:0]
		for _, line := range in.Lines {
			if err := s.debitBalance(ctx, line, in.Source); err != nil {
				return err
			}

			dest, err := s.repo.LockOrCreateBalance(ctx, line.ProductID, in.Destination)
			if err != nil {
				return fmt.Errorf("lock destination balance for %s: %w", line.ProductID, err)
			}
			destQty := dest.Quantity.Add(line.Quantity)
			if err := s.repo.UpdateBalanceQuantity(ctx, line.ProductID, in.Destination, destQty); err != nil {
				return fmt.Errorf("update destination balance for %s: %w", line.ProductID, err)
			}

			rec := entity.TransferRecord{
				MovementBase: entity.NewMovementBase(line.ProductID, line.Quantity, actorID),
				Source:       in.Source,
				Destination:  in.Destination,
				EmployeeID:   in.EmployeeID,
				Note:         in.Note,
			}
			records = append(records, rec)
		}
		return s.repo.CreateTransferRecords(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recorded stock transfer",
		"source", in.Source,
		"destination", in.Destination,
		"lines", len(records),
	)
	return records, nil
}

// debitBalance locks the (product, location) balance, verifies it covers
// the line and writes the decremented quantity. Must run inside the
// operation's transaction.
func (s *Service) debitBalance(ctx context.Context, line Line, location string) error {
	balance, err := s.repo.GetBalanceForUpdate(ctx, line.ProductID, location)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("stock balance", line.ProductID.String()).
				WithDetail("location", location)
		}
		return fmt.Errorf("get balance for %s: %w", line.ProductID, err)
	}

	if balance.Quantity < line.Quantity {
		return apperror.NewInsufficientStock(
			line.ProductID.String(),
			line.Quantity.Int64(),
			balance.Quantity.Int64(),
		).WithDetail("location", location)
	}

	updated := balance.Quantity.Sub(line.Quantity)
	if err := s.repo.UpdateBalanceQuantity(ctx, line.ProductID, location, updated); err != nil {
		return fmt.Errorf("update balance for %s: %w", line.ProductID, err)
	}
	return nil
}

// --- Queries ---

// LocationsWithStock returns distinct locations holding a positive balance.
func (s *Service) LocationsWithStock(ctx context.Context, productID *id.ID) ([]string, error) {
	return s.repo.LocationsWithStock(ctx, productID)
}

// ProductsAtLocation returns positive balances at one location, for
// exit and transfer pickers.
func (s *Service) ProductsAtLocation(ctx context.Context, location string) ([]BalanceRow, error) {
	if location == "" {
		return nil, apperror.NewValidation("location is required").WithDetail("field", "location")
	}
	return s.repo.ProductsAtLocation(ctx, location)
}

// Balances returns the filtered balances view.
func (s *Service) Balances(ctx context.Context, filter BalanceFilter) (domain.ListResult[BalanceRow], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.ListBalances(ctx, filter)
}

// History returns the filtered movement history.
func (s *Service) History(ctx context.Context, filter HistoryFilter) (domain.ListResult[HistoryRecord], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.ListHistory(ctx, filter)
}

// --- Validation helpers ---

func validateActor(actorID string) error {
	if actorID == "" {
		return apperror.NewUnauthorized("movement requires an authenticated actor")
	}
	return nil
}

func validateLines(lines []Line) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line is required").WithDetail("field", "lines")
	}
	for i, line := range lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation(fmt.Sprintf("line %d: product is required", i)).
				WithDetail("line", i)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("line %d: quantity must be positive", i)).
				WithDetail("line", i).
				WithDetail("quantity", line.Quantity.Int64())
		}
	}
	return nil
}

func (s *Service) checkActiveEmployee(ctx context.Context, employeeID id.ID) error {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.Active {
		return apperror.NewValidation("employee is not active").
			WithDetail("employeeId", employeeID.String())
	}
	return nil
}

// checkActiveProducts gates inbound movements: no new stock of a
// discontinued product.
func (s *Service) checkActiveProducts(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if !p.Active {
			return apperror.NewValidation("product is not active").
				WithDetail("productId", line.ProductID.String())
		}
	}
	return nil
}

// checkProductsExist gates outbound movements. Stock received while a
// product was active must stay withdrawable after it is deactivated, so
// exits and transfers only require the product to exist.
func (s *Service) checkProductsExist(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		if _, err := s.products.GetByID(ctx, line.ProductID); err != nil {
			return err
		}
	}
	return nil
}
