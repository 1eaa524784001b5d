package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

const queueSize = 256

// EventPublisher canal de salida opcional hacia el broker de eventos.
type EventPublisher interface {
	Publish(ctx context.Context, log *entity.ActionLog) error
}

// Recorder bitácora best-effort. Las operaciones mutantes encolan su entrada y
// siguen: la persistencia ocurre en un worker aparte, y una falla ahí se
// registra sin afectar la mutación ya confirmada.
type Recorder struct {
	repo      repository.ActionLogRepository
	publisher EventPublisher
	log       *logger.Logger
	queue     chan *entity.ActionLog
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder construye la bitácora y arranca su worker. publisher puede ser nil.
func NewRecorder(repo repository.ActionLogRepository, publisher EventPublisher, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	r := &Recorder{
		repo:      repo,
		publisher: publisher,
		log:       log,
		queue:     make(chan *entity.ActionLog, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// Record encola la entrada sin bloquear. Si la cola está llena la entrada se
// descarta con un warning: la bitácora nunca frena una mutación.
func (r *Recorder) Record(entry *entity.ActionLog) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	select {
	case r.queue <- entry:
	default:
		r.log.Warn().
			Str("action", entry.ActionType).
			Str("item", entry.ItemName).
			Msg("cola de bitácora llena, entrada descartada")
	}
}

// List lee la bitácora paginada, más reciente primero.
func (r *Recorder) List(ctx context.Context, page, limit int) ([]dto.ActionLogResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	logs, err := r.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActionLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ActionLogResponse{
			ID:            l.ID,
			ActionType:    l.ActionType,
			ItemID:        l.ItemID,
			ItemName:      l.ItemName,
			Quantity:      l.Quantity.IntPart(),
			FromWarehouse: l.FromWarehouse,
			ToWarehouse:   l.ToWarehouse,
			UserID:        l.UserID,
			Timestamp:     l.Timestamp,
		})
	}
	return out, nil
}

// Close cierra la cola y espera a que el worker drene lo pendiente.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for entry := range r.queue {
		r.persist(entry)
	}
}

func (r *Recorder) persist(entry *entity.ActionLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.repo.Create(ctx, entry); err != nil {
		r.log.Error().Err(err).
			Str("action", entry.ActionType).
			Str("item", entry.ItemName).
			Msg("persistencia de bitácora falló")
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, entry); err != nil {
			r.log.Warn().Err(err).
				Str("action", entry.ActionType).
				Msg("publicación de evento de stock falló")
		}
	}
}
