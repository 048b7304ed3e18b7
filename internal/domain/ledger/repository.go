package ledger

import (
	"context"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
)

// Repository defines persistence operations for the stock ledger.
// Balance mutations must run inside a transaction opened by the caller;
// the *ForUpdate methods take row locks that live until commit.
type Repository interface {
	// Balance operations

	// GetBalance returns the current balance without locking.
	GetBalance(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error)

	// GetBalanceForUpdate returns the balance with a row lock.
	// Returns NotFound if the (product, location) pair has never been stocked.
	GetBalanceForUpdate(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error)

	// LockOrCreateBalance inserts a zero balance if the pair is missing,
	// then returns it with a row lock. Used by inbound movements.
	LockOrCreateBalance(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error)

	// UpdateBalanceQuantity sets the locked balance to a new quantity.
	UpdateBalanceQuantity(ctx context.Context, productID id.ID, location string, quantity types.Quantity) error

	// Record operations (insert-only)

	CreateEntryRecords(ctx context.Context, records []entity.EntryRecord) error
	CreateExitRecords(ctx context.Context, records []entity.ExitRecord) error
	CreateTransferRecords(ctx context.Context, records []entity.TransferRecord) error

	// Queries

	// LocationsWithStock returns distinct locations holding a positive
	// balance, optionally restricted to one product.
	LocationsWithStock(ctx context.Context, productID *id.ID) ([]string, error)

	// ProductsAtLocation returns positive balances at a location.
	ProductsAtLocation(ctx context.Context, location string) ([]BalanceRow, error)

	// ListBalances returns the filtered, paged balances view.
	ListBalances(ctx context.Context, filter BalanceFilter) (domain.ListResult[BalanceRow], error)

	// ListHistory returns the filtered, paged movement history.
	ListHistory(ctx context.Context, filter HistoryFilter) (domain.ListResult[HistoryRecord], error)
}
