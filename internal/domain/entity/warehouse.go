package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// El nombre es único bajo comparación case-insensitive; los StockRecord la
// referencian por ID (la resolución nombre -> ID ocurre una vez, al escribir).
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
