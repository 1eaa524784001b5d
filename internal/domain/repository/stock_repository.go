package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockFilter filtros del listado de registros de stock.
type StockFilter struct {
	MinQuantity *decimal.Decimal
	MaxQuantity *decimal.Decimal
	Search      string // substring del nombre, case-insensitive
}

// StockSort ordenamiento del listado. By: name | quantity | warehouse.
type StockSort struct {
	By   string
	Desc bool
}

// StockRepository define el puerto del libro de stock (Ledger): almacenamiento
// autoritativo y mutación atómica de StockRecords.
//
// Contrato de concurrencia: dos mutaciones concurrentes sobre la misma llave
// (nombre, bodega) serializan en la capa de almacenamiento (row lock /
// upsert atómico); llaves distintas no se bloquean entre sí. No hay mutex de
// aplicación: la garantía debe sostenerse con múltiples procesos del servidor.
type StockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	// Get busca por nombre (case-insensitive) y bodega. nil, nil si no existe.
	Get(ctx context.Context, name, warehouseID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, name, warehouseID string) (*entity.StockRecord, error)
	// ApplyDelta aplica quantity += delta atómicamente, creando el registro con
	// el umbral indicado si no existe (solo válido para delta positivo).
	// Un resultado negativo falla con domain.ErrInvariantViolation.
	ApplyDelta(ctx context.Context, name, warehouseID string, delta, defaultThreshold decimal.Decimal) (*entity.StockRecord, error)
	Create(ctx context.Context, rec *entity.StockRecord) error
	Update(ctx context.Context, rec *entity.StockRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter StockFilter, sort StockSort, limit, offset int) ([]*entity.StockRecord, int64, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error)
	CountByWarehouse(ctx context.Context, warehouseID string) (int64, error)
	// ListLowStock devuelve los registros con quantity <= low_stock_threshold,
	// ordenados por nombre.
	ListLowStock(ctx context.Context) ([]*entity.StockRecord, error)
}
