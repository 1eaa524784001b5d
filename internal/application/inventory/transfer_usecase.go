package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// TransferUseCase ejecuta la transferencia de un ítem entre dos bodegas como
// unidad todo-o-nada: valida, debita el origen y acredita el destino dentro de
// una transacción con bloqueo de fila (SELECT FOR UPDATE) sobre el origen.
// El Ledger nunca queda observable con stock desaparecido ni duplicado.
type TransferUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.StockRepository
	idempotency   IdempotencyStore     // nil = dedup desactivada
	aggregates    AggregateInvalidator // nil tolerado (tests)
	audit         AuditSink            // nil tolerado (tests)
	log           *logger.Logger
}

// NewTransferUseCase construye el coordinador de transferencias.
func NewTransferUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	idempotency IdempotencyStore,
	aggregates AggregateInvalidator,
	audit AuditSink,
	log *logger.Logger,
) *TransferUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TransferUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		idempotency: idempotency,
		aggregates:  aggregates,
		audit:       audit,
		log:         log,
	}
}

// TransferInput entrada de una transferencia. ItemID tiene prioridad sobre
// ItemName para resolver el ítem; IdempotencyKey vacía desactiva la dedup
// para esa petición.
type TransferInput struct {
	ItemID         string
	ItemName       string
	FromWarehouse  string
	ToWarehouse    string
	Quantity       int64
	IdempotencyKey string
	UserID         string
}

// TransferResult resultado de una transferencia exitosa.
type TransferResult struct {
	ItemName          string
	FromWarehouse     string
	ToWarehouse       string
	Quantity          int64
	NewSourceQuantity int64
	NewDestQuantity   int64
}

// Transfer mueve Quantity unidades del ítem desde FromWarehouse hacia
// ToWarehouse. El registro destino se crea heredando el umbral del origen si
// no existe; un origen drenado a cero se RETIENE (conserva su umbral para
// futuras transferencias de entrada).
//
// Una transferencia no es cancelable una vez confirmado el débito: un timeout
// del cliente significa resultado desconocido y debe resolverse consultando el
// estado, no reintentando a ciegas (para eso existe la llave de idempotencia).
func (uc *TransferUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouse == "" || in.ToWarehouse == "" || domain.SameName(in.FromWarehouse, in.ToWarehouse) {
		return nil, domain.ErrInvalidInput
	}

	itemName := in.ItemName
	if in.ItemID != "" {
		rec, err := uc.stockRepo.GetByID(ctx, in.ItemID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, domain.ErrNotFound
		}
		itemName = rec.Name
	}
	if itemName == "" {
		return nil, domain.ErrInvalidInput
	}

	// La llave se reclama antes del débito: un reintento del cliente tras un
	// timeout obtiene "duplicada" en vez de un doble débito.
	if in.IdempotencyKey != "" && uc.idempotency != nil {
		ok, err := uc.idempotency.ClaimIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
	}

	qty := decimal.NewFromInt(in.Quantity)
	var result *TransferResult

	err := uc.txRunner.RunWithRetry(ctx, func(
		stockRepo repository.StockRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		fromWh, err := warehouseRepo.GetByName(ctx, in.FromWarehouse)
		if err != nil {
			return err
		}
		toWh, err := warehouseRepo.GetByName(ctx, in.ToWarehouse)
		if err != nil {
			return err
		}
		if fromWh == nil || toWh == nil {
			return domain.ErrNotFound
		}

		// Bloquea la fila origen: la verificación de stock suficiente y el
		// débito ocurren bajo el mismo lock (sin ventana check/use).
		source, err := stockRepo.GetForUpdate(ctx, itemName, fromWh.ID)
		if err != nil {
			return err
		}
		if source == nil {
			return domain.ErrNotFound
		}
		if source.Quantity.LessThan(qty) {
			return domain.ErrInsufficientStock
		}

		debited, err := stockRepo.ApplyDelta(ctx, source.Name, fromWh.ID, qty.Neg(), source.LowStockThreshold)
		if err != nil {
			return err
		}
		// Dos transferencias opuestas (A->B y B->A) pueden formar ciclo de
		// locks; Postgres mata una (40P01) y RunWithRetry la repite.
		credited, err := stockRepo.ApplyDelta(ctx, source.Name, toWh.ID, qty, source.LowStockThreshold)
		if err != nil {
			return err
		}

		result = &TransferResult{
			ItemName:          source.Name,
			FromWarehouse:     fromWh.Name,
			ToWarehouse:       toWh.Name,
			Quantity:          in.Quantity,
			NewSourceQuantity: debited.Quantity.IntPart(),
			NewDestQuantity:   credited.Quantity.IntPart(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			uc.log.Error().
				Str("item", itemName).
				Str("from", in.FromWarehouse).
				Str("to", in.ToWarehouse).
				Int64("quantity", in.Quantity).
				Msg("violación de invariante en transferencia")
		}
		return nil, err
	}

	uc.invalidateAggregates(ctx)

	if uc.audit != nil {
		uc.audit.Record(&entity.ActionLog{
			ActionType:    entity.ActionTransfer,
			ItemID:        in.ItemID,
			ItemName:      result.ItemName,
			Quantity:      qty,
			FromWarehouse: result.FromWarehouse,
			ToWarehouse:   result.ToWarehouse,
			UserID:        in.UserID,
			Timestamp:     time.Now(),
		})
	}

	return result, nil
}

// invalidateAggregates invalida el cache de agregados antes de responder
// éxito. Una falla aquí se registra pero no revierte la transferencia: el
// Ledger es la fuente de verdad y el cache tiene TTL de respaldo.
func (uc *TransferUseCase) invalidateAggregates(ctx context.Context) {
	if uc.aggregates == nil {
		return
	}
	if err := uc.aggregates.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidación de agregados falló")
	}
}
