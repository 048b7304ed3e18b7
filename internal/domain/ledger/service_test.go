package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/apperror"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/entity"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/types"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/costcenter"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/employee"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/product"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/domain/catalogs/warehouse"
)

// --- In-memory fakes ---

type balKey struct {
	productID id.ID
	location  string
}

type fakeRepo struct {
	balances  map[balKey]entity.StockBalance
	entries   []entity.EntryRecord
	exits     []entity.ExitRecord
	transfers []entity.TransferRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{balances: make(map[balKey]entity.StockBalance)}
}

type repoSnapshot struct {
	balances  map[balKey]entity.StockBalance
	entries   []entity.EntryRecord
	exits     []entity.ExitRecord
	transfers []entity.TransferRecord
}

func (r *fakeRepo) snapshot() repoSnapshot {
	balances := make(map[balKey]entity.StockBalance, len(r.balances))
	for k, v := range r.balances {
		balances[k] = v
	}
	return repoSnapshot{
		balances:  balances,
		entries:   append([]entity.EntryRecord(nil), r.entries...),
		exits:     append([]entity.ExitRecord(nil), r.exits...),
		transfers: append([]entity.TransferRecord(nil), r.transfers...),
	}
}

func (r *fakeRepo) restore(s repoSnapshot) {
	r.balances = s.balances
	r.entries = s.entries
	r.exits = s.exits
	r.transfers = s.transfers
}

func (r *fakeRepo) GetBalance(ctx context.Context, productID id.ID, location string) (entity.StockBalance, error) {
	return r.GetBalanceForUpdate(ctx, productID, location)
}

func (r *fakeRepo) GetBalanceForUpdate(_ context.Context, productID id.ID, location string) (entity.StockBalance, error) {
	b, ok := r.balances[balKey{productID, location}]
	if !ok {
		return entity.StockBalance{}, apperror.NewNotFound("stock balance", productID.String())
	}
	return b, nil
}

func (r *fakeRepo) LockOrCreateBalance(_ context.Context, productID id.ID, location string) (entity.StockBalance, error) {
	key := balKey{productID, location}
	if b, ok := r.balances[key]; ok {
		return b, nil
	}
	b := entity.StockBalance{ProductID: productID, Location: location}
	r.balances[key] = b
	return b, nil
}

func (r *fakeRepo) UpdateBalanceQuantity(_ context.Context, productID id.ID, location string, quantity types.Quantity) error {
	key := balKey{productID, location}
	b := r.balances[key]
	b.ProductID = productID
	b.Location = location
	b.Quantity = quantity
	r.balances[key] = b
	return nil
}

func (r *fakeRepo) CreateEntryRecords(_ context.Context, records []entity.EntryRecord) error {
	r.entries = append(r.entries, records...)
	return nil
}

func (r *fakeRepo) CreateExitRecords(_ context.Context, records []entity.ExitRecord) error {
	r.exits = append(r.exits, records...)
	return nil
}

func (r *fakeRepo) CreateTransferRecords(_ context.Context, records []entity.TransferRecord) error {
	r.transfers = append(r.transfers, records...)
	return nil
}

func (r *fakeRepo) LocationsWithStock(_ context.Context, productID *id.ID) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for k, b := range r.balances {
		if productID != nil && k.productID != *productID {
			continue
		}
		if b.Quantity.IsPositive() && !seen[k.location] {
			seen[k.location] = true
			out = append(out, k.location)
		}
	}
	return out, nil
}

func (r *fakeRepo) ProductsAtLocation(_ context.Context, location string) ([]BalanceRow, error) {
	var out []BalanceRow
	for k, b := range r.balances {
		if k.location == location && b.Quantity.IsPositive() {
			out = append(out, BalanceRow{ProductID: k.productID, Location: location, Quantity: b.Quantity})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBalances(_ context.Context, _ BalanceFilter) (domain.ListResult[BalanceRow], error) {
	return domain.ListResult[BalanceRow]{}, nil
}

func (r *fakeRepo) ListHistory(_ context.Context, _ HistoryFilter) (domain.ListResult[HistoryRecord], error) {
	return domain.ListResult[HistoryRecord]{}, nil
}

// fakeTxManager emulates all-or-nothing semantics by restoring the repo
// state when the transactional function fails.
type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.repo.restore(snap)
		return err
	}
	return nil
}

type fakeProducts struct{ m map[id.ID]*product.Product }

func (f *fakeProducts) GetByID(_ context.Context, pid id.ID) (*product.Product, error) {
	if p, ok := f.m[pid]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", pid.String())
}

type fakeEmployees struct{ m map[id.ID]*employee.Employee }

func (f *fakeEmployees) GetByID(_ context.Context, eid id.ID) (*employee.Employee, error) {
	if e, ok := f.m[eid]; ok {
		return e, nil
	}
	return nil, apperror.NewNotFound("employee", eid.String())
}

type fakeCostCenters struct{ m map[id.ID]*costcenter.CostCenter }

func (f *fakeCostCenters) GetByID(_ context.Context, cid id.ID) (*costcenter.CostCenter, error) {
	if c, ok := f.m[cid]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("cost center", cid.String())
}

type fakeWarehouses struct{ m map[string]*warehouse.Warehouse }

func (f *fakeWarehouses) GetByName(_ context.Context, name string) (*warehouse.Warehouse, error) {
	if w, ok := f.m[name]; ok {
		return w, nil
	}
	return nil, apperror.NewNotFound("warehouse", name)
}

// --- Fixture ---

type fixture struct {
	svc  *Service
	repo *fakeRepo

	bolts     *product.Product
	drill     *product.Product
	inactive  *product.Product
	worker    *employee.Employee
	exWorker  *employee.Employee
	works     *costcenter.CostCenter
	mainDepot *warehouse.Warehouse
	siteA     *warehouse.Warehouse
}

const actor = "user-1"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{repo: newFakeRepo()}

	f.bolts = product.NewProduct("P-001", "Hex bolts M8", "cx", product.CategoryConsumable)
	f.drill = product.NewProduct("P-002", "Impact drill", "un", product.CategoryReturnable)
	f.inactive = product.NewProduct("P-003", "Discontinued tape", "un", product.CategoryConsumable)
	f.inactive.Deactivate()

	f.worker = employee.NewEmployee("E-100", "Ana Souza", "100")
	f.exWorker = employee.NewEmployee("E-101", "Carlos Lima", "101")
	f.exWorker.Deactivate()

	f.works = costcenter.NewCostCenter("CC-10", "Maintenance")

	f.mainDepot = warehouse.NewWarehouse("W-01", "Main depot")
	f.siteA = warehouse.NewWarehouse("W-02", "Site A")

	products := &fakeProducts{m: map[id.ID]*product.Product{
		f.bolts.ID:    f.bolts,
		f.drill.ID:    f.drill,
		f.inactive.ID: f.inactive,
	}}
	employees := &fakeEmployees{m: map[id.ID]*employee.Employee{
		f.worker.ID:   f.worker,
		f.exWorker.ID: f.exWorker,
	}}
	costCenters := &fakeCostCenters{m: map[id.ID]*costcenter.CostCenter{
		f.works.ID: f.works,
	}}
	warehouses := &fakeWarehouses{m: map[string]*warehouse.Warehouse{
		f.mainDepot.Name: f.mainDepot,
		f.siteA.Name:     f.siteA,
	}}

	f.svc = NewService(f.repo, &fakeTxManager{repo: f.repo}, products, employees, costCenters, warehouses)
	return f
}

func (f *fixture) quantity(t *testing.T, p *product.Product, location string) int64 {
	t.Helper()
	b, ok := f.repo.balances[balKey{p.ID, location}]
	if !ok {
		return -1
	}
	return b.Quantity.Int64()
}

func (f *fixture) seed(t *testing.T, p *product.Product, location string, qty int64) {
	t.Helper()
	_, err := f.svc.RecordEntry(context.Background(), actor, EntryInput{
		Location: location,
		Kind:     entity.EntryKindPurchase,
		Lines:    []Line{{ProductID: p.ID, Quantity: types.Quantity(qty)}},
	})
	require.NoError(t, err)
}

// --- Entries ---

func TestRecordEntryAutoProvisionsBalance(t *testing.T) {
	f := newFixture(t)

	records, err := f.svc.RecordEntry(context.Background(), actor, EntryInput{
		Location: "Main depot",
		Kind:     entity.EntryKindPurchase,
		Lines:    []Line{{ProductID: f.bolts.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, int64(10), f.quantity(t, f.bolts, "Main depot"))
	assert.Equal(t, entity.EntryKindPurchase, records[0].Kind)
	assert.Equal(t, actor, records[0].ActorID)
	assert.Nil(t, records[0].EmployeeID)
	assert.Len(t, f.repo.entries, 1)
}

func TestRecordEntryEmployeeKindPairing(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		kind       entity.EntryKind
		employeeID *id.ID
		wantErr    bool
	}{
		{"purchase without employee", entity.EntryKindPurchase, nil, false},
		{"purchase with employee", entity.EntryKindPurchase, &f.worker.ID, true},
		{"return with employee", entity.EntryKindReturn, &f.worker.ID, false},
		{"return without employee", entity.EntryKindReturn, nil, true},
		{"unknown kind", entity.EntryKind("loan"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordEntry(context.Background(), actor, EntryInput{
				Location:   "Main depot",
				Kind:       tt.kind,
				EmployeeID: tt.employeeID,
				Lines:      []Line{{ProductID: f.drill.ID, Quantity: 1}},
			})
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRecordEntryRejectsInactiveReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordEntry(context.Background(), actor, EntryInput{
		Location: "Main depot",
		Kind:     entity.EntryKindPurchase,
		Lines:    []Line{{ProductID: f.inactive.ID, Quantity: 5}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = f.svc.RecordEntry(context.Background(), actor, EntryInput{
		Location:   "Main depot",
		Kind:       entity.EntryKindReturn,
		EmployeeID: &f.exWorker.ID,
		Lines:      []Line{{ProductID: f.drill.ID, Quantity: 1}},
	})
	require.Error(t, err)
}

func TestRecordEntryRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	for _, qty := range []int64{0, -3} {
		_, err := f.svc.RecordEntry(context.Background(), actor, EntryInput{
			Location: "Main depot",
			Kind:     entity.EntryKindPurchase,
			Lines:    []Line{{ProductID: f.bolts.ID, Quantity: types.Quantity(qty)}},
		})
		require.Error(t, err)
	}
	assert.Empty(t, f.repo.entries)
}

func TestRecordEntryUnknownWarehouse(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordEntry(context.Background(), actor, EntryInput{
		Location: "Nowhere",
		Kind:     entity.EntryKindPurchase,
		Lines:    []Line{{ProductID: f.bolts.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

// --- Exits ---

func TestRecordExitDecrementsBalance(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 10)

	records, err := f.svc.RecordExit(context.Background(), actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.worker.ID,
		CostCenterID: f.works.ID,
		Note:         "maintenance round",
		Lines:        []Line{{ProductID: f.bolts.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, int64(6), f.quantity(t, f.bolts, "Main depot"))
	assert.Equal(t, f.works.ID, records[0].CostCenterID)
	assert.Equal(t, "maintenance round", records[0].Note)
}

func TestRecordExitInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 3)

	_, err := f.svc.RecordExit(context.Background(), actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.worker.ID,
		CostCenterID: f.works.ID,
		Lines:        []Line{{ProductID: f.bolts.ID, Quantity: 5}},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	// Failed exit must leave the balance untouched.
	assert.Equal(t, int64(3), f.quantity(t, f.bolts, "Main depot"))
	assert.Empty(t, f.repo.exits)
}

func TestRecordExitMissingBalance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordExit(context.Background(), actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.worker.ID,
		CostCenterID: f.works.ID,
		Lines:        []Line{{ProductID: f.bolts.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// Exits never create balances.
	assert.Equal(t, int64(-1), f.quantity(t, f.bolts, "Main depot"))
}

func TestRecordExitBatchIsAtomic(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 10)
	f.seed(t, f.drill, "Main depot", 1)

	// Second line exceeds stock: the whole batch must roll back.
	_, err := f.svc.RecordExit(context.Background(), actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.worker.ID,
		CostCenterID: f.works.ID,
		Lines: []Line{
			{ProductID: f.bolts.ID, Quantity: 4},
			{ProductID: f.drill.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(10), f.quantity(t, f.bolts, "Main depot"))
	assert.Equal(t, int64(1), f.quantity(t, f.drill, "Main depot"))
	assert.Empty(t, f.repo.exits)
}

func TestRecordExitInactiveEmployee(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 10)

	_, err := f.svc.RecordExit(context.Background(), actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.exWorker.ID,
		CostCenterID: f.works.ID,
		Lines:        []Line{{ProductID: f.bolts.ID, Quantity: 1}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordExitAllowsDeactivatedProduct(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 10)

	// Deactivation stops new entries, but stock already on hand must stay
	// withdrawable.
	f.bolts.Deactivate()

	_, err := f.svc.RecordExit(context.Background(), actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.worker.ID,
		CostCenterID: f.works.ID,
		Lines:        []Line{{ProductID: f.bolts.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.quantity(t, f.bolts, "Main depot"))

	_, err = f.svc.RecordEntry(context.Background(), actor, EntryInput{
		Location: "Main depot",
		Kind:     entity.EntryKindPurchase,
		Lines:    []Line{{ProductID: f.bolts.ID, Quantity: 1}},
	})
	require.Error(t, err)
}

// --- Transfers ---

func TestRecordTransferConservesTotal(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 10)

	records, err := f.svc.RecordTransfer(context.Background(), actor, TransferInput{
		Source:      "Main depot",
		Destination: "Site A",
		Lines:       []Line{{ProductID: f.bolts.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	src := f.quantity(t, f.bolts, "Main depot")
	dst := f.quantity(t, f.bolts, "Site A")
	assert.Equal(t, int64(6), src)
	assert.Equal(t, int64(4), dst)
	assert.Equal(t, int64(10), src+dst)

	// Exactly one transfer record per line.
	require.Len(t, f.repo.transfers, 1)
	assert.Equal(t, "Main depot", f.repo.transfers[0].Source)
	assert.Equal(t, "Site A", f.repo.transfers[0].Destination)
}

func TestRecordTransferSameLocationRejected(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 10)

	_, err := f.svc.RecordTransfer(context.Background(), actor, TransferInput{
		Source:      "Main depot",
		Destination: "Main depot",
		Lines:       []Line{{ProductID: f.bolts.ID, Quantity: 1}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, int64(10), f.quantity(t, f.bolts, "Main depot"))
}

func TestRecordTransferInsufficientSourceRollsBack(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.bolts, "Main depot", 2)

	_, err := f.svc.RecordTransfer(context.Background(), actor, TransferInput{
		Source:      "Main depot",
		Destination: "Site A",
		Lines:       []Line{{ProductID: f.bolts.ID, Quantity: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(2), f.quantity(t, f.bolts, "Main depot"))
	assert.Equal(t, int64(-1), f.quantity(t, f.bolts, "Site A"))
	assert.Empty(t, f.repo.transfers)
}

func TestRecordTransferAllowsDeactivatedProduct(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.drill, "Main depot", 2)

	f.drill.Deactivate()

	_, err := f.svc.RecordTransfer(context.Background(), actor, TransferInput{
		Source:      "Main depot",
		Destination: "Site A",
		Lines:       []Line{{ProductID: f.drill.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.quantity(t, f.drill, "Main depot"))
	assert.Equal(t, int64(2), f.quantity(t, f.drill, "Site A"))
}

// --- Scenario: receive, withdraw, transfer, query ---

func TestLedgerScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RecordEntry(ctx, actor, EntryInput{
		Location: "Main depot",
		Kind:     entity.EntryKindPurchase,
		Lines: []Line{
			{ProductID: f.bolts.ID, Quantity: 20},
			{ProductID: f.drill.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.RecordExit(ctx, actor, ExitInput{
		Location:     "Main depot",
		EmployeeID:   f.worker.ID,
		CostCenterID: f.works.ID,
		Lines:        []Line{{ProductID: f.bolts.ID, Quantity: 8}},
	})
	require.NoError(t, err)

	_, err = f.svc.RecordTransfer(ctx, actor, TransferInput{
		Source:      "Main depot",
		Destination: "Site A",
		Lines:       []Line{{ProductID: f.drill.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12), f.quantity(t, f.bolts, "Main depot"))
	assert.Equal(t, int64(1), f.quantity(t, f.drill, "Main depot"))
	assert.Equal(t, int64(1), f.quantity(t, f.drill, "Site A"))

	locations, err := f.svc.LocationsWithStock(ctx, &f.drill.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Main depot", "Site A"}, locations)

	rows, err := f.svc.ProductsAtLocation(ctx, "Site A")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.drill.ID, rows[0].ProductID)
}

func TestMovementRequiresActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordEntry(context.Background(), "", EntryInput{
		Location: "Main depot",
		Kind:     entity.EntryKindPurchase,
		Lines:    []Line{{ProductID: f.bolts.ID, Quantity: 1}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}
