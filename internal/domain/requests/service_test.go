package requests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	appctx "github.com/FeliPerrelliACT/Almoxarifado/internal/core/context"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/finplan"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/numerator"
)

type fakeRequestRepo struct {
	requests   map[id.ID]*Request
	quotations map[id.ID][]Quotation
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests:   make(map[id.ID]*Request),
		quotations: make(map[id.ID][]Quotation),
	}
}

func (r *fakeRequestRepo) Create(_ context.Context, req *Request) error {
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, requestID id.ID) (*Request, error) {
	req, ok := r.requests[requestID]
	if !ok {
		return nil, apperror.NewNotFound("request", requestID.String())
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequestRepo) GetForUpdate(ctx context.Context, requestID id.ID) (*Request, error) {
	return r.GetByID(ctx, requestID)
}

func (r *fakeRequestRepo) Update(_ context.Context, req *Request) error {
	if _, ok := r.requests[req.ID]; !ok {
		return apperror.NewNotFound("request", req.ID.String())
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, requestID id.ID, to Status, expectedVersion int) error {
	req, ok := r.requests[requestID]
	if !ok {
		return apperror.NewNotFound("request", requestID.String())
	}
	if req.Version != expectedVersion {
		return apperror.NewConcurrentModification("request", requestID.String())
	}
	req.Status = to
	req.Version++
	return nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter Filter) (domain.ListResult[*Request], error) {
	var items []*Request
	for _, req := range r.requests {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		items = append(items, req)
	}
	return domain.ListResult[*Request]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRequestRepo) AddQuotation(_ context.Context, q *Quotation) error {
	r.quotations[q.RequestID] = append(r.quotations[q.RequestID], *q)
	return nil
}

func (r *fakeRequestRepo) ListQuotations(_ context.Context, requestID id.ID) ([]Quotation, error) {
	return r.quotations[requestID], nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeNumbers struct{ n int }

func (f *fakeNumbers) GetNextNumber(_ context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
	f.n++
	return fmt.Sprintf("%s-%d-%05d", cfg.Prefix, period.Year(), f.n), nil
}

type auditEntry struct {
	entityID id.ID
	action   string
	changes  map[string]any
}

type fakeAuditor struct{ entries []auditEntry }

func (f *fakeAuditor) LogChange(_ context.Context, _ string, entityID id.ID, action string, changes map[string]any) error {
	f.entries = append(f.entries, auditEntry{entityID: entityID, action: action, changes: changes})
	return nil
}

type fakeEmployees struct{ m map[id.ID]*employee.Employee }

func (f fakeEmployees) GetByID(_ context.Context, eid id.ID) (*employee.Employee, error) {
	if e, ok := f.m[eid]; ok {
		return e, nil
	}
	return nil, apperror.NewNotFound("employee", eid.String())
}

type fakeCostCenters struct{ m map[id.ID]*costcenter.CostCenter }

func (f fakeCostCenters) GetByID(_ context.Context, cid id.ID) (*costcenter.CostCenter, error) {
	if c, ok := f.m[cid]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("cost center", cid.String())
}

type fakePlans struct{ m map[id.ID]*finplan.FinancialPlan }

func (f fakePlans) GetByID(_ context.Context, pid id.ID) (*finplan.FinancialPlan, error) {
	if p, ok := f.m[pid]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("financial plan", pid.String())
}

type workflowFixture struct {
	svc     *Service
	repo    *fakeRequestRepo
	auditor *fakeAuditor

	requester *employee.Employee
	cc        *costcenter.CostCenter
	plan      *finplan.FinancialPlan
	productID id.ID
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	requester := employee.NewEmployee("E001", "Maria Souza", "12345")
	cc := costcenter.NewCostCenter("CC-10", "Maintenance")
	plan := finplan.NewFinancialPlan("FP-2026", "Operations 2026", types.MustMoney("100000"))

	repo := newFakeRequestRepo()
	auditor := &fakeAuditor{}
	svc := NewService(
		repo,
		passthroughTx{},
		&fakeNumbers{},
		auditor,
		fakeEmployees{m: map[id.ID]*employee.Employee{requester.ID: requester}},
		fakeCostCenters{m: map[id.ID]*costcenter.CostCenter{cc.ID: cc}},
		fakePlans{m: map[id.ID]*finplan.FinancialPlan{plan.ID: plan}},
	)

	return &workflowFixture{
		svc:       svc,
		repo:      repo,
		auditor:   auditor,
		requester: requester,
		cc:        cc,
		plan:      plan,
		productID: id.New(),
	}
}

func (f *workflowFixture) newRequest(t *testing.T) *Request {
	t.Helper()
	req := NewRequest(f.requester.ID, f.cc.ID, f.plan.ID, "restock consumables")
	req.AddLine(f.productID, types.Quantity(10), "")
	return req
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func requesterCtx() *appctx.UserContext {
	return &appctx.UserContext{UserID: "user-requester", Username: "maria"}
}

func approverCtx() *appctx.UserContext {
	return &appctx.UserContext{
		UserID:      "user-approver",
		Username:    "chief",
		Permissions: []string{PermissionApprove},
	}
}

func TestCreateAssignsNumberAndDraftStatus(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)

	err := f.svc.Create(context.Background(), requesterCtx(), req)
	require.NoError(t, err)

	stored, err := f.svc.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Equal(t, fmt.Sprintf("REQ-%d-00001", time.Now().Year()), stored.Number)
	assert.Equal(t, "user-requester", stored.CreatedBy)

	require.Len(t, f.auditor.entries, 1)
	assert.Equal(t, "create", f.auditor.entries[0].action)
}

func TestCreateRejectsInactiveReferences(t *testing.T) {
	f := newWorkflowFixture(t)
	f.cc.Deactivate()

	err := f.svc.Create(context.Background(), requesterCtx(), f.newRequest(t))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, errCode(t, err))
}

func TestCreateRequiresLines(t *testing.T) {
	f := newWorkflowFixture(t)
	req := NewRequest(f.requester.ID, f.cc.ID, f.plan.ID, "nothing in particular")

	err := f.svc.Create(context.Background(), requesterCtx(), req)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, errCode(t, err))
}

func TestUpdateOnlyWhileEditable(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	require.NoError(t, f.svc.Create(context.Background(), requesterCtx(), req))

	req.Justification = "restock consumables, urgent"
	require.NoError(t, f.svc.Update(context.Background(), requesterCtx(), req))

	_, err := f.svc.Transition(context.Background(), requesterCtx(), req.ID, StatusSubmitted, "")
	require.NoError(t, err)

	err = f.svc.Update(context.Background(), requesterCtx(), req)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, errCode(t, err))
}

func TestTransitionFollowsWorkflow(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	require.NoError(t, f.svc.Create(context.Background(), requesterCtx(), req))

	ctx := context.Background()
	for _, to := range []Status{StatusSubmitted, StatusQuoting, StatusEvaluating} {
		_, err := f.svc.Transition(ctx, requesterCtx(), req.ID, to, "")
		require.NoError(t, err, "transition to %s", to)
	}

	updated, err := f.svc.Transition(ctx, approverCtx(), req.ID, StatusApproved, "budget fits")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)

	last := f.auditor.entries[len(f.auditor.entries)-1]
	assert.Equal(t, "transition", last.action)
	assert.Equal(t, "evaluating", last.changes["from"])
	assert.Equal(t, "approved", last.changes["to"])
	assert.Equal(t, "budget fits", last.changes["comment"])
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	require.NoError(t, f.svc.Create(context.Background(), requesterCtx(), req))

	_, err := f.svc.Transition(context.Background(), approverCtx(), req.ID, StatusApproved, "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidTransition, errCode(t, err))

	stored, _ := f.svc.GetByID(context.Background(), req.ID)
	assert.Equal(t, StatusDraft, stored.Status)
}

func TestApprovalRequiresPermission(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Create(ctx, requesterCtx(), req))
	for _, to := range []Status{StatusSubmitted, StatusQuoting, StatusEvaluating} {
		_, err := f.svc.Transition(ctx, requesterCtx(), req.ID, to, "")
		require.NoError(t, err)
	}

	plain := &appctx.UserContext{UserID: "user-other", Username: "joe"}
	_, err := f.svc.Transition(ctx, plain, req.ID, StatusApproved, "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeForbidden, errCode(t, err))

	admin := &appctx.UserContext{UserID: "user-admin", Username: "root", IsAdmin: true}
	_, err = f.svc.Transition(ctx, admin, req.ID, StatusApproved, "")
	require.NoError(t, err)
}

func TestAuthorCannotSettleOwnRequest(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Create(ctx, requesterCtx(), req))
	for _, to := range []Status{StatusSubmitted, StatusQuoting, StatusEvaluating} {
		_, err := f.svc.Transition(ctx, requesterCtx(), req.ID, to, "")
		require.NoError(t, err)
	}

	author := requesterCtx()
	author.Permissions = []string{PermissionApprove}
	_, err := f.svc.Transition(ctx, author, req.ID, StatusRejected, "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeForbidden, errCode(t, err))
}

func TestCancelFromAnyOpenStatus(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Create(ctx, requesterCtx(), req))
	_, err := f.svc.Transition(ctx, requesterCtx(), req.ID, StatusSubmitted, "")
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, requesterCtx(), req.ID, "no longer needed")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, requesterCtx(), req.ID, "again")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidTransition, errCode(t, err))
}

func TestQuotationsOnlyWhileQuoting(t *testing.T) {
	f := newWorkflowFixture(t)
	req := f.newRequest(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Create(ctx, requesterCtx(), req))

	q := &Quotation{SupplierName: "ACME Supplies", Amount: types.MustMoney("1234.50"), FileName: "acme.pdf"}
	err := f.svc.AddQuotation(ctx, requesterCtx(), req.ID, q)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, errCode(t, err))

	for _, to := range []Status{StatusSubmitted, StatusQuoting} {
		_, err := f.svc.Transition(ctx, requesterCtx(), req.ID, to, "")
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.AddQuotation(ctx, requesterCtx(), req.ID, q))
	assert.Equal(t, "user-requester", q.UploadedBy)
	assert.False(t, q.UploadedAt.IsZero())

	quotes, err := f.svc.Quotations(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "ACME Supplies", quotes[0].SupplierName)
}
