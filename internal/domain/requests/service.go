package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	appctx "github.com/FeliPerrelliACT/Almoxarifado/internal/core/context"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/tx"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/logger"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/numerator"
)

// PermissionApprove is required to settle a request (approve or reject).
const PermissionApprove = "requests:approve"

// NumberGenerator issues sequential request numbers.
type NumberGenerator interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error)
}

// Auditor records workflow changes in the audit trail.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// EmployeeLookup resolves the requesting employee.
type EmployeeLookup interface {
	GetByID(ctx context.Context, id id.ID) (*employee.Employee, error)
}

// CostCenterLookup resolves the charged cost center.
type CostCenterLookup interface {
	GetByID(ctx context.Context, id id.ID) (*costcenter.CostCenter, error)
}

// PlanLookup resolves the financial plan being drawn from.
type PlanLookup interface {
	GetByID(ctx context.Context, id id.ID) (*finplan.FinancialPlan, error)
}

// Service provides the purchase-request workflow.
type Service struct {
	repo        Repository
	txManager   tx.Manager
	numbers     NumberGenerator
	auditor     Auditor
	employees   EmployeeLookup
	costCenters CostCenterLookup
	plans       PlanLookup
}

// NewService creates a new request workflow service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numbers NumberGenerator,
	auditor Auditor,
	employees EmployeeLookup,
	costCenters CostCenterLookup,
	plans PlanLookup,
) *Service {
	return &Service{
		repo:        repo,
		txManager:   txManager,
		numbers:     numbers,
		auditor:     auditor,
		employees:   employees,
		costCenters: costCenters,
		plans:       plans,
	}
}

// Create registers a new draft request on behalf of actor.
func (s *Service) Create(ctx context.Context, actor *appctx.UserContext, req *Request) error {
	if actor == nil || actor.UserID == "" {
		return apperror.NewUnauthorized("request requires an authenticated actor")
	}
	if err := req.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return err
	}

	req.Status = StatusDraft
	req.CreatedBy = actor.UserID
	req.UpdatedBy = actor.UserID

	number, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig("REQ"), nil, time.Now())
	if err != nil {
		return fmt.Errorf("generate request number: %w", err)
	}
	req.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, req)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, req.ID, "create", map[string]any{
		"number": req.Number,
		"status": string(req.Status),
	})
	logger.Info(ctx, "created purchase request", "number", req.Number)
	return nil
}

// Update rewrites the body of a request that is still editable.
func (s *Service) Update(ctx context.Context, actor *appctx.UserContext, req *Request) error {
	if actor == nil || actor.UserID == "" {
		return apperror.NewUnauthorized("request requires an authenticated actor")
	}
	if err := req.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if !current.Status.Editable() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("request in status %s cannot be edited", current.Status)).
			WithDetail("status", string(current.Status))
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return err
	}

	req.Status = current.Status
	req.Number = current.Number
	req.UpdatedBy = actor.UserID

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, req)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, req.ID, "update", map[string]any{"number": req.Number})
	return nil
}

// GetByID retrieves a request with its lines.
func (s *Service) GetByID(ctx context.Context, requestID id.ID) (*Request, error) {
	return s.repo.GetByID(ctx, requestID)
}

// List retrieves requests with filtering.
func (s *Service) List(ctx context.Context, filter Filter) (domain.ListResult[*Request], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// Transition moves a request to a new workflow status. Approval and
// rejection require the approve permission and a settling actor distinct
// from the request's author.
func (s *Service) Transition(ctx context.Context, actor *appctx.UserContext, requestID id.ID, to Status, comment string) (*Request, error) {
	if actor == nil || actor.UserID == "" {
		return nil, apperror.NewUnauthorized("transition requires an authenticated actor")
	}
	if !to.IsValid() || to == StatusDraft {
		return nil, apperror.NewValidation("invalid target status").
			WithDetail("field", "status").WithDetail("value", string(to))
	}

	var req *Request
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		if !req.Status.CanTransitionTo(to) {
			return apperror.NewInvalidTransition(string(req.Status), string(to))
		}

		if to == StatusApproved || to == StatusRejected {
			if !hasApprovePermission(actor) {
				return apperror.NewForbidden("approve permission required")
			}
			if req.CreatedBy == actor.UserID {
				return apperror.NewForbidden("requests cannot be settled by their author")
			}
		}

		from := req.Status
		if err := s.repo.UpdateStatus(ctx, requestID, to, req.Version); err != nil {
			return err
		}
		req.Status = to
		req.Touch()

		s.audit(ctx, requestID, "transition", map[string]any{
			"from":    string(from),
			"to":      string(to),
			"comment": comment,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "request status changed",
		"number", req.Number, "status", req.Status)
	return req, nil
}

// Cancel moves a non-terminal request to cancelled.
func (s *Service) Cancel(ctx context.Context, actor *appctx.UserContext, requestID id.ID, comment string) (*Request, error) {
	return s.Transition(ctx, actor, requestID, StatusCancelled, comment)
}

// AddQuotation attaches a supplier quotation to a request being quoted.
func (s *Service) AddQuotation(ctx context.Context, actor *appctx.UserContext, requestID id.ID, q *Quotation) error {
	if actor == nil || actor.UserID == "" {
		return apperror.NewUnauthorized("quotation requires an authenticated actor")
	}
	if err := q.Validate(ctx); err != nil {
		return err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusQuoting {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("quotations can only be added in status %s", StatusQuoting)).
			WithDetail("status", string(req.Status))
	}

	q.ID = id.New()
	q.RequestID = requestID
	q.UploadedBy = actor.UserID
	q.UploadedAt = time.Now().UTC()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.AddQuotation(ctx, q)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, requestID, "update", map[string]any{
		"quotation": q.SupplierName,
		"amount":    q.Amount.String(),
	})
	return nil
}

// Quotations returns the quotations attached to a request.
func (s *Service) Quotations(ctx context.Context, requestID id.ID) ([]Quotation, error) {
	if _, err := s.repo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.repo.ListQuotations(ctx, requestID)
}

func (s *Service) checkReferences(ctx context.Context, req *Request) error {
	emp, err := s.employees.GetByID(ctx, req.RequesterID)
	if err != nil {
		return err
	}
	if !emp.Active {
		return apperror.NewValidation("requester is not active").
			WithDetail("requesterId", req.RequesterID.String())
	}

	cc, err := s.costCenters.GetByID(ctx, req.CostCenterID)
	if err != nil {
		return err
	}
	if !cc.Active {
		return apperror.NewValidation("cost center is not active").
			WithDetail("costCenterId", req.CostCenterID.String())
	}

	plan, err := s.plans.GetByID(ctx, req.FinancialPlanID)
	if err != nil {
		return err
	}
	if !plan.Active {
		return apperror.NewValidation("financial plan is not active").
			WithDetail("financialPlanId", req.FinancialPlanID.String())
	}
	return nil
}

func (s *Service) audit(ctx context.Context, requestID id.ID, action string, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.LogChange(ctx, "purchase_request", requestID, action, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "request_id", requestID, "error", err)
	}
}

func hasApprovePermission(actor *appctx.UserContext) bool {
	if actor.IsAdmin {
		return true
	}
	for _, p := range actor.Permissions {
		if p == PermissionApprove {
			return true
		}
	}
	return false
}
