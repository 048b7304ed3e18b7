// Package ledger_repo provides the PostgreSQL implementation of the stock ledger.
package ledger_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/ledger"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
)

const (
	balancesTable  = "stock_balances"
	entriesTable   = "stock_entries"
	exitsTable     = "stock_exits"
	transfersTable = "stock_transfers"
	productsTable  = "cat_products"
)

// StockRepo implements ledger.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// GetBalance returns the current balance without locking.
func (r *StockRepo) GetBalance(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(
		"product_id", "location", "quantity", "last_movement_at", "updated_at",
	).From(balancesTable).
		Where(squirrel.Eq{"product_id": productID, "location": location}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return balance, apperror.NewNotFound("stock balance", productID.String()).
				WithDetail("location", location)
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns the balance with a row lock held until commit.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error) {
	var balance entity.StockBalance

	sql := `
		SELECT product_id, location, quantity, last_movement_at, updated_at
		FROM stock_balances
		WHERE product_id = $1 AND location = $2
		FOR UPDATE
	`

	if err := pgxscan.Get(ctx, r.querier(ctx), &balance, sql, productID, location); err != nil {
		if pgxscan.NotFound(err) {
			return balance, apperror.NewNotFound("stock balance", productID.String()).
				WithDetail("location", location)
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// LockOrCreateBalance inserts a zero balance if the pair is missing, then
// locks it. The INSERT .. ON CONFLICT DO NOTHING keeps concurrent first
// movements from racing on creation.
func (r *StockRepo) LockOrCreateBalance(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error) {
	insertSQL := `
		INSERT INTO stock_balances (product_id, location, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, 0, now(), now())
		ON CONFLICT (product_id, location) DO NOTHING
	`
	if _, err := r.querier(ctx).Exec(ctx, insertSQL, productID, location); err != nil {
		return entity.StockBalance{}, fmt.Errorf("provision balance: %w", err)
	}

	return r.GetBalanceForUpdate(ctx, productID, location)
}

// UpdateBalanceQuantity sets the locked balance to a new quantity.
func (r *StockRepo) UpdateBalanceQuantity(ctx context.Context, productID id.ID, location string, quantity types.Quantity) error {
	sql := `
		UPDATE stock_balances
		SET quantity = $3, last_movement_at = now(), updated_at = now()
		WHERE product_id = $1 AND location = $2
	`

	result, err := r.querier(ctx).Exec(ctx, sql, productID, location, quantity)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stock balance", productID.String()).
			WithDetail("location", location)
	}

	return nil
}

// CreateEntryRecords batch inserts entry records.
func (r *StockRepo) CreateEntryRecords(ctx context.Context, records []entity.EntryRecord) error {
	if len(records) == 0 {
		return nil
	}

	columns := []string{
		"id", "product_id", "quantity", "actor_id", "created_at",
		"location", "kind", "employee_id",
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []any{
				rec.ID, rec.ProductID, rec.Quantity, rec.ActorID, rec.CreatedAt,
				rec.Location, rec.Kind, rec.EmployeeID,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, entriesTable, columns, rows); err != nil {
			return fmt.Errorf("copy entry records: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(entriesTable).Columns(columns...)
	for _, rec := range records {
		q = q.Values(
			rec.ID, rec.ProductID, rec.Quantity, rec.ActorID, rec.CreatedAt,
			rec.Location, rec.Kind, rec.EmployeeID,
		)
	}

	return r.execInsert(ctx, q, "entry records")
}

// CreateExitRecords batch inserts exit records.
func (r *StockRepo) CreateExitRecords(ctx context.Context, records []entity.ExitRecord) error {
	if len(records) == 0 {
		return nil
	}

	columns := []string{
		"id", "product_id", "quantity", "actor_id", "created_at",
		"location", "employee_id", "cost_center_id", "note",
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []any{
				rec.ID, rec.ProductID, rec.Quantity, rec.ActorID, rec.CreatedAt,
				rec.Location, rec.EmployeeID, rec.CostCenterID, rec.Note,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, exitsTable, columns, rows); err != nil {
			return fmt.Errorf("copy exit records: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(exitsTable).Columns(columns...)
	for _, rec := range records {
		q = q.Values(
			rec.ID, rec.ProductID, rec.Quantity, rec.ActorID, rec.CreatedAt,
			rec.Location, rec.EmployeeID, rec.CostCenterID, rec.Note,
		)
	}

	return r.execInsert(ctx, q, "exit records")
}

// CreateTransferRecords batch inserts transfer records.
func (r *StockRepo) CreateTransferRecords(ctx context.Context, records []entity.TransferRecord) error {
	if len(records) == 0 {
		return nil
	}

	columns := []string{
		"id", "product_id", "quantity", "actor_id", "created_at",
		"source", "destination", "employee_id", "note",
	}

	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(records))
		for _, rec := range records {
			rows = append(rows, []any{
				rec.ID, rec.ProductID, rec.Quantity, rec.ActorID, rec.CreatedAt,
				rec.Source, rec.Destination, rec.EmployeeID, rec.Note,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, transfersTable, columns, rows); err != nil {
			return fmt.Errorf("copy transfer records: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(transfersTable).Columns(columns...)
	for _, rec := range records {
		q = q.Values(
			rec.ID, rec.ProductID, rec.Quantity, rec.ActorID, rec.CreatedAt,
			rec.Source, rec.Destination, rec.EmployeeID, rec.Note,
		)
	}

	return r.execInsert(ctx, q, "transfer records")
}

func (r *StockRepo) execInsert(ctx context.Context, q squirrel.InsertBuilder, what string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

// LocationsWithStock returns distinct locations holding a positive balance.
func (r *StockRepo) LocationsWithStock(ctx context.Context, productID *id.ID) ([]string, error) {
	q := r.builder.Select("DISTINCT location").
		From(balancesTable).
		Where(squirrel.Gt{"quantity": 0}).
		OrderBy("location")

	if productID != nil {
		q = q.Where(squirrel.Eq{"product_id": *productID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var locations []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &locations, sql, args...); err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}

	return locations, nil
}

// ProductsAtLocation returns positive balances at a location.
func (r *StockRepo) ProductsAtLocation(ctx context.Context, location string) ([]ledger.BalanceRow, error) {
	q := r.balancesView().
		Where(squirrel.Eq{"b.location": location}).
		Where(squirrel.Gt{"b.quantity": 0}).
		OrderBy("p.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.BalanceRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return rows, nil
}

// ListBalances returns the filtered, paged balances view.
func (r *StockRepo) ListBalances(ctx context.Context, filter ledger.BalanceFilter) (domain.ListResult[ledger.BalanceRow], error) {
	result := domain.ListResult[ledger.BalanceRow]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.balancesView()

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"b.location": pattern},
		})
	}
	if filter.Location != "" {
		q = q.Where(squirrel.Eq{"b.location": filter.Location})
	}
	if filter.Unit != "" {
		q = q.Where(squirrel.Eq{"p.unit": filter.Unit})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"p.category": filter.Category})
	}
	if filter.Quantity != nil {
		q = q.Where(squirrel.Eq{"b.quantity": *filter.Quantity})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"b.product_id": *filter.ProductID})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count balances: %w", err)
	}

	q = q.OrderBy("p.name", "b.location")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select balances: %w", err)
	}

	return result, nil
}

func (r *StockRepo) balancesView() squirrel.SelectBuilder {
	return r.builder.Select(
		"b.product_id",
		"p.name AS product_name",
		"p.unit",
		"p.category",
		"p.active AS product_active",
		"b.location",
		"b.quantity",
	).From(balancesTable + " b").
		Join(productsTable + " p ON p.id = b.product_id")
}

// ListHistory returns movements of all kinds in one reverse-chronological
// listing, built as a UNION over the three record tables.
func (r *StockRepo) ListHistory(ctx context.Context, filter ledger.HistoryFilter) (domain.ListResult[ledger.HistoryRecord], error) {
	result := domain.ListResult[ledger.HistoryRecord]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	union, args := r.buildHistoryUnion(filter)
	if union == "" {
		return result, nil
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM (%s) sub", union)
	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, args...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count history: %w", err)
	}

	pageSQL := fmt.Sprintf("%s ORDER BY created_at DESC", union)
	if filter.Limit > 0 {
		pageSQL += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		pageSQL += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, pageSQL, args...); err != nil {
		return result, fmt.Errorf("select history: %w", err)
	}

	return result, nil
}

func (r *StockRepo) buildHistoryUnion(filter ledger.HistoryFilter) (string, []any) {
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sharedConds := func(alias string) []string {
		var conds []string
		if filter.ProductID != nil {
			conds = append(conds, fmt.Sprintf("%s.product_id = %s", alias, next(*filter.ProductID)))
		}
		if filter.From != nil {
			conds = append(conds, fmt.Sprintf("%s.created_at >= %s", alias, next(*filter.From)))
		}
		if filter.To != nil {
			conds = append(conds, fmt.Sprintf("%s.created_at < %s", alias, next(*filter.To)))
		}
		return conds
	}

	where := func(conds []string) string {
		if len(conds) == 0 {
			return ""
		}
		return " WHERE " + strings.Join(conds, " AND ")
	}

	wantKind := func(kind entity.MovementKind) bool {
		return filter.Kind == nil || *filter.Kind == kind
	}

	var branches []string

	if wantKind(entity.MovementKindEntry) {
		conds := sharedConds("e")
		if filter.Location != "" {
			conds = append(conds, "e.location = "+next(filter.Location))
		}
		branches = append(branches, `
			SELECT 'entry' AS kind, e.id, e.product_id, p.name AS product_name, e.quantity,
				e.location, '' AS destination,
				e.kind::text AS entry_kind, e.employee_id, NULL::uuid AS cost_center_id, '' AS note,
				e.actor_id, e.created_at
			FROM stock_entries e
			JOIN cat_products p ON p.id = e.product_id`+where(conds))
	}

	if wantKind(entity.MovementKindExit) {
		conds := sharedConds("x")
		if filter.Location != "" {
			conds = append(conds, "x.location = "+next(filter.Location))
		}
		branches = append(branches, `
			SELECT 'exit' AS kind, x.id, x.product_id, p.name AS product_name, x.quantity,
				x.location, '' AS destination,
				NULL::text AS entry_kind, x.employee_id, x.cost_center_id, x.note,
				x.actor_id, x.created_at
			FROM stock_exits x
			JOIN cat_products p ON p.id = x.product_id`+where(conds))
	}

	if wantKind(entity.MovementKindTransfer) {
		conds := sharedConds("t")
		if filter.Location != "" {
			loc := next(filter.Location)
			conds = append(conds, fmt.Sprintf("(t.source = %s OR t.destination = %s)", loc, loc))
		}
		branches = append(branches, `
			SELECT 'transfer' AS kind, t.id, t.product_id, p.name AS product_name, t.quantity,
				t.source AS location, t.destination,
				NULL::text AS entry_kind, t.employee_id, NULL::uuid AS cost_center_id, t.note,
				t.actor_id, t.created_at
			FROM stock_transfers t
			JOIN cat_products p ON p.id = t.product_id`+where(conds))
	}

	if len(branches) == 0 {
		return "", nil
	}

	return strings.Join(branches, "\n\t\t\tUNION ALL\n"), args
}

// Ensure interface compliance.
var _ ledger.Repository = (*StockRepo)(nil)
