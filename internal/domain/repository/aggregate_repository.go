package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// WarehouseTotal total de unidades de una bodega (suma de sus StockRecords).
type WarehouseTotal struct {
	Warehouse     string
	TotalQuantity decimal.Decimal
}

// StatusCounts conteo global de registros en stock bajo vs. en stock.
type StatusCounts struct {
	LowStock int64
	InStock  int64
}

// AggregateRepository vistas derivadas de solo lectura sobre el Ledger.
// No son autoritativas: siempre recomputables desde los StockRecords.
type AggregateRepository interface {
	// WarehouseTotals devuelve el total por bodega, ordenado por nombre.
	// Incluye bodegas sin stock (total cero).
	WarehouseTotals(ctx context.Context) ([]WarehouseTotal, error)
	StockStatusCounts(ctx context.Context) (StatusCounts, error)
}
