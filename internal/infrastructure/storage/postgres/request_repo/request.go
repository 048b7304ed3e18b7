// Package request_repo provides the PostgreSQL implementation of the
// purchase-request workflow storage.
package request_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/requests"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
)

const (
	requestsTable   = "doc_purchase_requests"
	linesTable      = "doc_purchase_request_lines"
	quotationsTable = "doc_purchase_request_quotations"
)

// RequestRepo implements requests.Repository.
type RequestRepo struct {
	txManager  *postgres.TxManager
	builder    squirrel.StatementBuilderType
	selectCols []string
}

// NewRequestRepo creates a new purchase request repository.
func NewRequestRepo(txManager *postgres.TxManager) *RequestRepo {
	return &RequestRepo{
		txManager:  txManager,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		selectCols: postgres.ExtractDBColumns[requests.Request](),
	}
}

func (r *RequestRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts the request and its lines.
func (r *RequestRepo) Create(ctx context.Context, req *requests.Request) error {
	data := postgres.StructToMap(req)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder.Insert(requestsTable).SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	return r.saveLines(ctx, req.ID, req.Lines)
}

// GetByID retrieves the request with its lines.
func (r *RequestRepo) GetByID(ctx context.Context, requestID id.ID) (*requests.Request, error) {
	return r.get(ctx, requestID, false)
}

// GetForUpdate retrieves the request with a row lock.
func (r *RequestRepo) GetForUpdate(ctx context.Context, requestID id.ID) (*requests.Request, error) {
	return r.get(ctx, requestID, true)
}

func (r *RequestRepo) get(ctx context.Context, requestID id.ID, forUpdate bool) (*requests.Request, error) {
	req := &requests.Request{}

	q := r.builder.Select(r.selectCols...).
		From(requestsTable).
		Where(squirrel.Eq{"id": requestID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), req, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("request", requestID.String())
		}
		return nil, fmt.Errorf("get request: %w", err)
	}

	lines, err := r.getLines(ctx, requestID)
	if err != nil {
		return nil, err
	}
	req.Lines = lines

	return req, nil
}

// Update rewrites the request and its lines with optimistic locking.
func (r *RequestRepo) Update(ctx context.Context, req *requests.Request) error {
	data := postgres.StructToMap(req)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue // managed by repo
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder.Update(requestsTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Where(squirrel.Eq{"version": req.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("request", req.ID.String())
	}

	return r.saveLines(ctx, req.ID, req.Lines)
}

// UpdateStatus moves the request to a new status, guarded by the expected
// version.
func (r *RequestRepo) UpdateStatus(ctx context.Context, requestID id.ID, to requests.Status, expectedVersion int) error {
	q := r.builder.Update(requestsTable).
		Set("status", to).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": requestID}).
		Where(squirrel.Eq{"version": expectedVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update status: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("request", requestID.String())
	}

	return nil
}

// List retrieves requests with filtering and pagination. Lines are not
// loaded for listings.
func (r *RequestRepo) List(ctx context.Context, filter requests.Filter) (domain.ListResult[*requests.Request], error) {
	result := domain.ListResult[*requests.Request]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.Select(r.selectCols...).
		From(requestsTable).
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RequesterID != nil {
		q = q.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"justification": pattern},
		})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC")
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
		return result, fmt.Errorf("list requests: %w", err)
	}

	return result, nil
}

// AddQuotation attaches a quotation to a request.
func (r *RequestRepo) AddQuotation(ctx context.Context, quote *requests.Quotation) error {
	q := r.builder.Insert(quotationsTable).
		Columns("id", "request_id", "supplier_name", "amount", "file_name", "uploaded_by", "uploaded_at").
		Values(quote.ID, quote.RequestID, quote.SupplierName, quote.Amount, quote.FileName, quote.UploadedBy, quote.UploadedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert quotation: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}

	return nil
}

// ListQuotations returns the quotations of a request.
func (r *RequestRepo) ListQuotations(ctx context.Context, requestID id.ID) ([]requests.Quotation, error) {
	q := r.builder.Select(
		"id", "request_id", "supplier_name", "amount", "file_name", "uploaded_by", "uploaded_at",
	).From(quotationsTable).
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("uploaded_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var quotes []requests.Quotation
	if err := pgxscan.Select(ctx, r.querier(ctx), &quotes, sql, args...); err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}

	return quotes, nil
}

func (r *RequestRepo) getLines(ctx context.Context, requestID id.ID) ([]requests.RequestLine, error) {
	q := r.builder.Select("id", "request_id", "product_id", "quantity", "detail").
		From(linesTable).
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []requests.RequestLine
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *RequestRepo) saveLines(ctx context.Context, requestID id.ID, lines []requests.RequestLine) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + linesTable + " WHERE request_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, requestID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(linesTable).
		Columns("id", "request_id", "product_id", "quantity", "detail")
	for _, line := range lines {
		q = q.Values(line.ID, requestID, line.ProductID, line.Quantity, line.Detail)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ requests.Repository = (*RequestRepo)(nil)
