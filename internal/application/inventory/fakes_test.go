package inventory_test

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// fakeStore almacenamiento en memoria compartido por los repos fake.
// Protegido por mutex: los tests de concurrencia lo golpean desde varias
// goroutines.
type fakeStore struct {
	mu         sync.Mutex
	warehouses map[string]*entity.Warehouse  // key: nombre normalizado
	records    map[string]*entity.StockRecord // key: nombre normalizado + "|" + warehouseID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		warehouses: make(map[string]*entity.Warehouse),
		records:    make(map[string]*entity.StockRecord),
	}
}

func (s *fakeStore) addWarehouse(id, name string) *entity.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	wh := &entity.Warehouse{ID: id, Name: name}
	s.warehouses[domain.NormalizeName(name)] = wh
	return wh
}

func (s *fakeStore) addRecord(rec *entity.StockRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey(rec.Name, rec.WarehouseID)] = rec
}

func (s *fakeStore) quantity(name, warehouseID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordKey(name, warehouseID)]
	if !ok {
		return decimal.Zero
	}
	return rec.Quantity
}

func (s *fakeStore) totalQuantity() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, rec := range s.records {
		total = total.Add(rec.Quantity)
	}
	return total
}

func recordKey(name, warehouseID string) string {
	return domain.NormalizeName(name) + "|" + warehouseID
}

func copyRecord(rec *entity.StockRecord) *entity.StockRecord {
	cp := *rec
	return &cp
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeStockRepo
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	store *fakeStore
}

var _ repository.StockRepository = (*fakeStockRepo)(nil)

func (r *fakeStockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, rec := range r.store.records {
		if rec.ID == id {
			return copyRecord(rec), nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) Get(ctx context.Context, name, warehouseID string) (*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.records[recordKey(name, warehouseID)]
	if !ok {
		return nil, nil
	}
	return copyRecord(rec), nil
}

// GetForUpdate en el fake es un Get plano: fakeTxRunner serializa las
// transacciones completas, que es la garantía que el row lock provee en
// el almacenamiento real.
func (r *fakeStockRepo) GetForUpdate(ctx context.Context, name, warehouseID string) (*entity.StockRecord, error) {
	return r.Get(ctx, name, warehouseID)
}

func (r *fakeStockRepo) ApplyDelta(ctx context.Context, name, warehouseID string, delta, defaultThreshold decimal.Decimal) (*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := recordKey(name, warehouseID)
	rec, ok := r.store.records[key]
	if !ok {
		if delta.IsNegative() {
			return nil, domain.ErrInvariantViolation
		}
		rec = &entity.StockRecord{
			ID:                "fake-" + key,
			Name:              name,
			WarehouseID:       warehouseID,
			Quantity:          delta,
			LowStockThreshold: defaultThreshold,
		}
		r.store.records[key] = rec
		return copyRecord(rec), nil
	}
	next := rec.Quantity.Add(delta)
	if next.IsNegative() {
		return nil, domain.ErrInvariantViolation
	}
	rec.Quantity = next
	return copyRecord(rec), nil
}

func (r *fakeStockRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := recordKey(rec.Name, rec.WarehouseID)
	if _, ok := r.store.records[key]; ok {
		return domain.ErrDuplicate
	}
	r.store.records[key] = copyRecord(rec)
	return nil
}

func (r *fakeStockRepo) Update(ctx context.Context, rec *entity.StockRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, existing := range r.store.records {
		if existing.ID == rec.ID {
			delete(r.store.records, key)
			r.store.records[recordKey(rec.Name, rec.WarehouseID)] = copyRecord(rec)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeStockRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, rec := range r.store.records {
		if rec.ID == id {
			delete(r.store.records, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeStockRepo) List(ctx context.Context, filter repository.StockFilter, sort repository.StockSort, limit, offset int) ([]*entity.StockRecord, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.StockRecord, 0, len(r.store.records))
	for _, rec := range r.store.records {
		out = append(out, copyRecord(rec))
	}
	return out, int64(len(out)), nil
}

func (r *fakeStockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range r.store.records {
		if rec.WarehouseID == warehouseID {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

func (r *fakeStockRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int64, error) {
	recs, _ := r.ListByWarehouse(ctx, warehouseID)
	return int64(len(recs)), nil
}

func (r *fakeStockRepo) ListLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range r.store.records {
		if rec.IsLowStock() {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeWarehouseRepo
// ──────────────────────────────────────────────────────────────────────────────

type fakeWarehouseRepo struct {
	store *fakeStore
}

var _ repository.WarehouseRepository = (*fakeWarehouseRepo)(nil)

func (r *fakeWarehouseRepo) Create(ctx context.Context, wh *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := domain.NormalizeName(wh.Name)
	if _, ok := r.store.warehouses[key]; ok {
		return domain.ErrDuplicate
	}
	cp := *wh
	r.store.warehouses[key] = &cp
	return nil
}

func (r *fakeWarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, wh := range r.store.warehouses {
		if wh.ID == id {
			cp := *wh
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) GetByName(ctx context.Context, name string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wh, ok := r.store.warehouses[domain.NormalizeName(name)]
	if !ok {
		return nil, nil
	}
	cp := *wh
	return &cp, nil
}

func (r *fakeWarehouseRepo) Update(ctx context.Context, wh *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, existing := range r.store.warehouses {
		if existing.ID == wh.ID {
			delete(r.store.warehouses, key)
			cp := *wh
			r.store.warehouses[domain.NormalizeName(wh.Name)] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeWarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Warehouse, 0, len(r.store.warehouses))
	for _, wh := range r.store.warehouses {
		cp := *wh
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeWarehouseRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for key, wh := range r.store.warehouses {
		if wh.ID == id {
			delete(r.store.warehouses, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeTxRunner
// ──────────────────────────────────────────────────────────────────────────────

// fakeTxRunner serializa las transacciones con un mutex y restaura el estado
// previo si fn falla (rollback).
type fakeTxRunner struct {
	store *fakeStore
	txMu  sync.Mutex
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	snapshot := t.snapshot()
	err := fn(&fakeStockRepo{store: t.store}, &fakeWarehouseRepo{store: t.store})
	if err != nil {
		t.restore(snapshot)
	}
	return err
}

func (t *fakeTxRunner) RunWithRetry(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	return t.Run(ctx, fn)
}

func (t *fakeTxRunner) snapshot() map[string]*entity.StockRecord {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	snap := make(map[string]*entity.StockRecord, len(t.store.records))
	for key, rec := range t.store.records {
		snap[key] = copyRecord(rec)
	}
	return snap
}

func (t *fakeTxRunner) restore(snap map[string]*entity.StockRecord) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.records = snap
}

// ──────────────────────────────────────────────────────────────────────────────
// Sumideros fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeIdempotency struct {
	mu      sync.Mutex
	claimed map[string]bool
	err     error
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{claimed: make(map[string]bool)}
}

func (f *fakeIdempotency) ClaimIdempotencyKey(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []*entity.ActionLog
}

func (f *fakeAudit) Record(entry *entity.ActionLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}

func (f *fakeAudit) all() []*entity.ActionLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.ActionLog, len(f.entries))
	copy(out, f.entries)
	return out
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
