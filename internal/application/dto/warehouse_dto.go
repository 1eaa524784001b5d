package dto

import "time"

// CreateWarehouseRequest body para POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UpdateWarehouseRequest body para PUT /api/warehouses/:id. Campos nil no se tocan.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

// WarehouseResponse representación externa de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WarehouseListResponse respuesta de GET /api/warehouses.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
