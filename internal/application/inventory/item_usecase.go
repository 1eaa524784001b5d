package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ItemUseCase operaciones CRUD sobre registros de stock: los hermanos simples
// de la transferencia. Son los únicos otros escritores permitidos del Ledger.
type ItemUseCase struct {
	txRunner         TxRunner
	stockRepo        repository.StockRepository
	warehouseRepo    repository.WarehouseRepository
	aggregates       AggregateInvalidator
	audit            AuditSink
	log              *logger.Logger
	defaultThreshold decimal.Decimal
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	warehouseRepo repository.WarehouseRepository,
	aggregates AggregateInvalidator,
	audit AuditSink,
	log *logger.Logger,
	defaultThreshold int64,
) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{
		txRunner:         txRunner,
		stockRepo:        stockRepo,
		warehouseRepo:    warehouseRepo,
		aggregates:       aggregates,
		audit:            audit,
		log:              log,
		defaultThreshold: decimal.NewFromInt(defaultThreshold),
	}
}

// Create da de alta un ítem en una bodega. domain.ErrDuplicate si el par
// (nombre, bodega) ya tiene registro vivo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest, userID string) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Warehouse == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByName(ctx, in.Warehouse)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	threshold := uc.defaultThreshold
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		threshold = decimal.NewFromInt(*in.LowStockThreshold)
	}

	now := time.Now()
	rec := &entity.StockRecord{
		ID:                uuid.New().String(),
		Name:              in.Name,
		WarehouseID:       wh.ID,
		WarehouseName:     wh.Name,
		Quantity:          decimal.NewFromInt(in.Quantity),
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.stockRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	uc.invalidateAggregates(ctx)
	uc.record(&entity.ActionLog{
		ActionType: entity.ActionAdd,
		ItemID:     rec.ID,
		ItemName:   rec.Name,
		Quantity:   rec.Quantity,
		UserID:     userID,
		Timestamp:  now,
	})
	return toItemResponse(rec), nil
}

// Update modifica un ítem existente. Corre en transacción con bloqueo de fila
// para que una edición manual no pierda la carrera contra una transferencia
// concurrente sobre el mismo registro.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest, userID string) (*dto.ItemResponse, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		updated    *entity.StockRecord
		actionType = entity.ActionUpdate
		delta      decimal.Decimal
	)
	err := uc.txRunner.RunWithRetry(ctx, func(
		stockRepo repository.StockRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		rec, err := stockRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		locked, err := stockRepo.GetForUpdate(ctx, rec.Name, rec.WarehouseID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		locked.WarehouseName = rec.WarehouseName

		if in.Name != nil && *in.Name != "" {
			locked.Name = *in.Name
		}
		if in.Warehouse != nil && *in.Warehouse != "" {
			wh, err := warehouseRepo.GetByName(ctx, *in.Warehouse)
			if err != nil {
				return err
			}
			if wh == nil {
				return domain.ErrNotFound
			}
			locked.WarehouseID = wh.ID
			locked.WarehouseName = wh.Name
		}
		if in.Quantity != nil {
			newQty := decimal.NewFromInt(*in.Quantity)
			delta = newQty.Sub(locked.Quantity)
			if newQty.LessThan(locked.Quantity) {
				// Vocabulario de la bitácora: una baja manual de cantidad es "reduce".
				actionType = entity.ActionReduce
			}
			locked.Quantity = newQty
		}
		if in.LowStockThreshold != nil {
			locked.LowStockThreshold = decimal.NewFromInt(*in.LowStockThreshold)
		}
		locked.UpdatedAt = time.Now()
		if err := stockRepo.Update(ctx, locked); err != nil {
			return err
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateAggregates(ctx)
	uc.record(&entity.ActionLog{
		ActionType: actionType,
		ItemID:     updated.ID,
		ItemName:   updated.Name,
		Quantity:   delta.Abs(),
		UserID:     userID,
		Timestamp:  updated.UpdatedAt,
	})
	return toItemResponse(updated), nil
}

// Delete elimina un registro de stock.
func (uc *ItemUseCase) Delete(ctx context.Context, id, userID string) error {
	rec, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	if err := uc.stockRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateAggregates(ctx)
	uc.record(&entity.ActionLog{
		ActionType: entity.ActionDelete,
		ItemID:     rec.ID,
		ItemName:   rec.Name,
		Quantity:   rec.Quantity,
		UserID:     userID,
		Timestamp:  time.Now(),
	})
	return nil
}

// ListParams parámetros del listado.
type ListParams struct {
	Search      string
	MinQuantity *int64
	MaxQuantity *int64
	SortBy      string // name | quantity | warehouse
	SortDesc    bool
	Page        int
	Limit       int
}

// List camino de lectura del UI. Refleja siempre el último estado confirmado.
func (uc *ItemUseCase) List(ctx context.Context, p ListParams) (*dto.ItemListResponse, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	filter := repository.StockFilter{Search: p.Search}
	if p.MinQuantity != nil {
		min := decimal.NewFromInt(*p.MinQuantity)
		filter.MinQuantity = &min
	}
	if p.MaxQuantity != nil {
		max := decimal.NewFromInt(*p.MaxQuantity)
		filter.MaxQuantity = &max
	}
	sort := repository.StockSort{By: p.SortBy, Desc: p.SortDesc}

	records, total, err := uc.stockRepo.List(ctx, filter, sort, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, *toItemResponse(rec))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: p.Page, Limit: p.Limit, Total: total},
	}, nil
}

// GetByID obtiene un ítem por ID. nil, nil si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	rec, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return toItemResponse(rec), nil
}

func (uc *ItemUseCase) invalidateAggregates(ctx context.Context) {
	if uc.aggregates == nil {
		return
	}
	if err := uc.aggregates.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidación de agregados falló")
	}
}

func (uc *ItemUseCase) record(entry *entity.ActionLog) {
	if uc.audit != nil {
		uc.audit.Record(entry)
	}
}

func toItemResponse(rec *entity.StockRecord) *dto.ItemResponse {
	if rec == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                rec.ID,
		Name:              rec.Name,
		Warehouse:         rec.WarehouseName,
		Quantity:          rec.Quantity.IntPart(),
		LowStockThreshold: rec.LowStockThreshold.IntPart(),
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
