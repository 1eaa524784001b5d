package dto

// WarehouseQuantityDTO total de unidades de una bodega, para
// GET /api/warehouse-quantities.
type WarehouseQuantityDTO struct {
	Warehouse     string `json:"warehouse"`
	TotalQuantity int64  `json:"totalQuantity"`
}

// BarChartEntry valor de una bodega en el gráfico de barras
// (GET /api/items/bar-chart devuelve un map nombre-de-bodega -> entrada).
type BarChartEntry struct {
	TotalQuantity int64 `json:"totalQuantity"`
}

// PieChartDTO distribución global stock bajo vs. en stock
// (GET /api/items/pie-chart).
type PieChartDTO struct {
	LowStock int64 `json:"lowStock"`
	InStock  int64 `json:"inStock"`
}
