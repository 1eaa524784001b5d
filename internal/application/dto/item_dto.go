package dto

import "time"

// ItemResponse representación externa de un StockRecord. Las cantidades son
// enteras de cara al cliente aunque la persistencia use NUMERIC.
type ItemResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Warehouse         string    `json:"warehouse"`
	Quantity          int64     `json:"quantity"`
	LowStockThreshold int64     `json:"lowStockThreshold"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ItemListResponse respuesta paginada de GET /api/items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name              string `json:"name"`
	Warehouse         string `json:"warehouse"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold *int64 `json:"lowStockThreshold,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Campos nil no se tocan.
type UpdateItemRequest struct {
	Name              *string `json:"name,omitempty"`
	Warehouse         *string `json:"warehouse,omitempty"`
	Quantity          *int64  `json:"quantity,omitempty"`
	LowStockThreshold *int64  `json:"lowStockThreshold,omitempty"`
}

// TransferRequest body para POST /api/items/transfer.
// IdempotencyKey es opcional: si el cliente la envía, un reintento tras un
// timeout no produce doble débito.
type TransferRequest struct {
	ItemID         string `json:"itemId,omitempty"`
	ItemName       string `json:"itemName,omitempty"`
	FromWarehouse  string `json:"fromWarehouse"`
	ToWarehouse    string `json:"toWarehouse"`
	Quantity       int64  `json:"quantity"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// TransferResponse payload de éxito de una transferencia.
type TransferResponse struct {
	ItemName          string `json:"itemName"`
	FromWarehouse     string `json:"fromWarehouse"`
	ToWarehouse       string `json:"toWarehouse"`
	Quantity          int64  `json:"quantity"`
	NewSourceQuantity int64  `json:"newSourceQuantity"`
	NewDestQuantity   int64  `json:"newDestQuantity"`
}

// LowStockAlertDTO un registro en o bajo su umbral configurado.
type LowStockAlertDTO struct {
	Name              string `json:"name"`
	Warehouse         string `json:"warehouse"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold int64  `json:"lowStockThreshold"`
}

// ActionLogResponse entrada de bitácora para GET /api/logs.
type ActionLogResponse struct {
	ID            string    `json:"id"`
	ActionType    string    `json:"actionType"`
	ItemID        string    `json:"itemId,omitempty"`
	ItemName      string    `json:"itemName"`
	Quantity      int64     `json:"quantity,omitempty"`
	FromWarehouse string    `json:"fromWarehouse,omitempty"`
	ToWarehouse   string    `json:"toWarehouse,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
