package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de DB, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor de stock:
// débito y crédito de una transferencia comparten transacción, y la
// serialización por llave viene del row lock del almacenamiento (ningún mutex
// de aplicación: la garantía sostiene múltiples procesos del servidor).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
	// RunWithRetry reintenta acotadamente ante conflictos transitorios
	// (serialization failure, deadlock) antes de rendirse con
	// domain.ErrTransientStorage. Los errores de dominio no se reintentan.
	RunWithRetry(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}

// IdempotencyStore reclama llaves de idempotencia de transferencias.
// false = llave ya usada, la petición es una repetición.
type IdempotencyStore interface {
	ClaimIdempotencyKey(ctx context.Context, key string) (bool, error)
}

// AggregateInvalidator invalida los agregados derivados (totales por bodega,
// conteos de estado) tras una mutación del Ledger. Se invoca de forma
// síncrona, antes de responder éxito al cliente.
type AggregateInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AuditSink recibe entradas de bitácora. Best-effort: nunca bloquea ni hace
// fallar la mutación que describe.
type AuditSink interface {
	Record(entry *entity.ActionLog)
}
