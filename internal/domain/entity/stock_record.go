package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la presencia de un ítem (por nombre) en una bodega.
// Identidad: el par (nombre case-insensitive, bodega) es único; el mismo
// nombre en bodegas distintas son registros distintos.
// Invariante: Quantity >= 0 en todo momento (reforzado por CHECK en la DB).
type StockRecord struct {
	ID                string
	Name              string
	WarehouseID       string
	WarehouseName     string // denormalizado en lecturas (JOIN warehouses)
	Quantity          decimal.Decimal
	LowStockThreshold decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el registro está en o bajo su umbral configurado.
func (s *StockRecord) IsLowStock() bool {
	return s.Quantity.LessThanOrEqual(s.LowStockThreshold)
}
