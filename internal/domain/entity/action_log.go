package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de acción registrados en la bitácora.
const (
	ActionAdd      = "add"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionTransfer = "transfer"
	ActionReduce   = "reduce"
)

// ActionLog entrada inmutable de la bitácora de mutaciones (append-only).
// Es un sumidero de un solo sentido: las operaciones que la escriben nunca la
// leen, y una falla al escribirla jamás revierte la mutación que describe.
type ActionLog struct {
	ID            string
	ActionType    string
	ItemID        string
	ItemName      string
	Quantity      decimal.Decimal
	FromWarehouse string // solo transferencias
	ToWarehouse   string // solo transferencias
	UserID        string
	Timestamp     time.Time
}
