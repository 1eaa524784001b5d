package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.AggregateRepository = (*AggregateRepo)(nil)

// AggregateRepo consultas de solo lectura para los agregados derivados del
// Ledger (totales por bodega, conteo stock bajo / en stock).
type AggregateRepo struct {
	pool *pgxpool.Pool
}

// NewAggregateRepository construye el adaptador de agregados.
func NewAggregateRepository(pool *pgxpool.Pool) *AggregateRepo {
	return &AggregateRepo{pool: pool}
}

// WarehouseTotals suma las cantidades por bodega. LEFT JOIN para que las
// bodegas sin registros aparezcan con total cero.
func (r *AggregateRepo) WarehouseTotals(ctx context.Context) ([]repository.WarehouseTotal, error) {
	const query = `
	SELECT
	    w.name                         AS warehouse,
	    COALESCE(SUM(s.quantity), 0)   AS total_quantity
	FROM warehouses w
	LEFT JOIN stock_records s ON s.warehouse_id = w.id
	GROUP BY w.name
	ORDER BY LOWER(w.name)`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregate.WarehouseTotals: %w", err)
	}
	defer rows.Close()

	var results []repository.WarehouseTotal
	for rows.Next() {
		var row repository.WarehouseTotal
		if err := rows.Scan(&row.Warehouse, &row.TotalQuantity); err != nil {
			return nil, fmt.Errorf("aggregate.WarehouseTotals scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// StockStatusCounts cuenta registros en stock bajo (quantity <= umbral) y en stock.
func (r *AggregateRepo) StockStatusCounts(ctx context.Context) (repository.StatusCounts, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE quantity <= low_stock_threshold) AS low_stock,
	    COUNT(*) FILTER (WHERE quantity >  low_stock_threshold) AS in_stock
	FROM stock_records`

	var counts repository.StatusCounts
	err := r.pool.QueryRow(ctx, query).Scan(&counts.LowStock, &counts.InStock)
	if err != nil {
		return repository.StatusCounts{}, fmt.Errorf("aggregate.StockStatusCounts: %w", err)
	}
	return counts, nil
}
