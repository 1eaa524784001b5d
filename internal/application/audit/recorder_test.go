package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/audit"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []*entity.ActionLog
	err     error
}

func (f *fakeLogRepo) Create(ctx context.Context, log *entity.ActionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.ActionLog, 0, limit)
	for i := len(f.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*entity.ActionLog
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, log *entity.ActionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, log)
	return nil
}

func entry(action, item string) *entity.ActionLog {
	return &entity.ActionLog{
		ActionType: action,
		ItemName:   item,
		Quantity:   decimal.NewFromInt(5),
		UserID:     "user-1",
	}
}

func TestRecorder_PersisteYCompletaCampos(t *testing.T) {
	repo := &fakeLogRepo{}
	rec := audit.NewRecorder(repo, nil, nil)

	rec.Record(entry(entity.ActionTransfer, "tornillos"))
	rec.Close() // drena la cola

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.entries, 1)
	got := repo.entries[0]
	assert.NotEmpty(t, got.ID, "el recorder asigna ID si falta")
	assert.False(t, got.Timestamp.IsZero(), "el recorder asigna timestamp si falta")
	assert.Equal(t, entity.ActionTransfer, got.ActionType)
}

func TestRecorder_PublicaEventos(t *testing.T) {
	repo := &fakeLogRepo{}
	pub := &fakePublisher{}
	rec := audit.NewRecorder(repo, pub, nil)

	rec.Record(entry(entity.ActionAdd, "tuercas"))
	rec.Close()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.published, 1)
	assert.Equal(t, "tuercas", pub.published[0].ItemName)
}

func TestRecorder_FallaDePersistencia_NoPropaga(t *testing.T) {
	repo := &fakeLogRepo{err: errors.New("db caída")}
	rec := audit.NewRecorder(repo, nil, nil)

	// Record nunca devuelve error ni entra en pánico: el fallo queda en el log.
	rec.Record(entry(entity.ActionDelete, "arandelas"))
	rec.Close()
}

func TestRecorder_FallaDelPublicador_NoImpidePersistir(t *testing.T) {
	repo := &fakeLogRepo{}
	pub := &fakePublisher{err: errors.New("broker caído")}
	rec := audit.NewRecorder(repo, pub, nil)

	rec.Record(entry(entity.ActionUpdate, "tornillos"))
	rec.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.entries, 1, "la entrada se persiste aunque el broker falle")
}

func TestRecorder_ListPagina(t *testing.T) {
	repo := &fakeLogRepo{}
	rec := audit.NewRecorder(repo, nil, nil)

	for i := 0; i < 5; i++ {
		rec.Record(&entity.ActionLog{
			ActionType: entity.ActionAdd,
			ItemName:   "item",
			Timestamp:  time.Now(),
		})
	}
	rec.Close()

	out, err := rec.List(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = rec.List(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestRecorder_RecordNilEsNoOp(t *testing.T) {
	repo := &fakeLogRepo{}
	rec := audit.NewRecorder(repo, nil, nil)
	rec.Record(nil)
	rec.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Empty(t, repo.entries)
}
