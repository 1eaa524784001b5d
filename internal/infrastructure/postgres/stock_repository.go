package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// La no-negatividad la refuerza el CHECK (quantity >= 0) de la tabla: un commit
// que la violaría falla con 23514 y se traduce a domain.ErrInvariantViolation.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador del Ledger. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `
	s.id, s.name, s.warehouse_id, w.name, s.quantity, s.low_stock_threshold,
	s.created_at, s.updated_at`

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.WarehouseID, &rec.WarehouseName,
		&rec.Quantity, &rec.LowStockThreshold, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByID obtiene un registro por ID. nil, nil si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `
		SELECT` + stockColumns + `
		FROM stock_records s JOIN warehouses w ON w.id = s.warehouse_id
		WHERE s.id = $1`
	rec, err := scanStock(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock by id: %w", err)
	}
	return rec, nil
}

// Get busca por nombre (case-insensitive) y bodega. nil, nil si no existe.
func (r *StockRepo) Get(ctx context.Context, name, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT` + stockColumns + `
		FROM stock_records s JOIN warehouses w ON w.id = s.warehouse_id
		WHERE LOWER(s.name) = LOWER($1) AND s.warehouse_id = $2`
	rec, err := scanStock(r.q.QueryRow(ctx, query, name, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return rec, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// La validación de stock suficiente y el débito posterior ocurren bajo este
// lock: no hay ventana check/use entre transferencias concurrentes.
func (r *StockRepo) GetForUpdate(ctx context.Context, name, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT s.id, s.name, s.warehouse_id, s.quantity, s.low_stock_threshold,
		       s.created_at, s.updated_at
		FROM stock_records s
		WHERE LOWER(s.name) = LOWER($1) AND s.warehouse_id = $2
		FOR UPDATE`
	var rec entity.StockRecord
	err := r.q.QueryRow(ctx, query, name, warehouseID).Scan(
		&rec.ID, &rec.Name, &rec.WarehouseID,
		&rec.Quantity, &rec.LowStockThreshold, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &rec, nil
}

// ApplyDelta aplica quantity += delta en una sola sentencia, creando el
// registro si no existe (umbral = defaultThreshold). El CHECK de la tabla
// rechaza cualquier resultado negativo.
func (r *StockRepo) ApplyDelta(ctx context.Context, name, warehouseID string, delta, defaultThreshold decimal.Decimal) (*entity.StockRecord, error) {
	query := `
		INSERT INTO stock_records (id, name, warehouse_id, quantity, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (LOWER(name), warehouse_id)
		DO UPDATE SET quantity = stock_records.quantity + $4, updated_at = now()
		RETURNING id, name, warehouse_id, quantity, low_stock_threshold, created_at, updated_at`
	var rec entity.StockRecord
	err := r.q.QueryRow(ctx, query, uuid.New().String(), name, warehouseID, delta, defaultThreshold).Scan(
		&rec.ID, &rec.Name, &rec.WarehouseID,
		&rec.Quantity, &rec.LowStockThreshold, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return nil, domain.ErrInvariantViolation
		}
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	return &rec, nil
}

// Create persiste un registro nuevo. domain.ErrDuplicate si (nombre, bodega) ya existe.
func (r *StockRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (id, name, warehouse_id, quantity, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.Name, rec.WarehouseID, rec.Quantity, rec.LowStockThreshold,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvariantViolation
		}
		return fmt.Errorf("insert stock record: %w", err)
	}
	return nil
}

// Update actualiza cantidad y umbral de un registro existente.
func (r *StockRepo) Update(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET name = $2, warehouse_id = $3, quantity = $4, low_stock_threshold = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		rec.ID, rec.Name, rec.WarehouseID, rec.Quantity, rec.LowStockThreshold, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvariantViolation
		}
		return fmt.Errorf("update stock record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un registro por ID.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// sortColumn lista blanca de columnas ordenables (evita inyección vía sortBy).
func sortColumn(by string) string {
	switch by {
	case "quantity":
		return "s.quantity"
	case "warehouse":
		return "LOWER(w.name)"
	default:
		return "LOWER(s.name)"
	}
}

// List camino de lectura del UI: filtros, orden y paginación. Lee el último
// estado confirmado (sin caches intermedios).
func (r *StockRepo) List(ctx context.Context, filter repository.StockFilter, sort repository.StockSort, limit, offset int) ([]*entity.StockRecord, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filter.Search != "" {
		n++
		where += fmt.Sprintf(" AND s.name ILIKE $%d", n)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.MinQuantity != nil {
		n++
		where += fmt.Sprintf(" AND s.quantity >= $%d", n)
		args = append(args, *filter.MinQuantity)
	}
	if filter.MaxQuantity != nil {
		n++
		where += fmt.Sprintf(" AND s.quantity <= $%d", n)
		args = append(args, *filter.MaxQuantity)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM stock_records s JOIN warehouses w ON w.id = s.warehouse_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock records: %w", err)
	}

	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	query := `
		SELECT` + stockColumns + `
		FROM stock_records s JOIN warehouses w ON w.id = s.warehouse_id` +
		where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortColumn(sort.By), dir, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		rec, err := scanStock(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, rec)
	}
	return list, total, rows.Err()
}

// ListByWarehouse lista los registros de una bodega ordenados por nombre.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT` + stockColumns + `
		FROM stock_records s JOIN warehouses w ON w.id = s.warehouse_id
		WHERE s.warehouse_id = $1
		ORDER BY LOWER(s.name)`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		rec, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// CountByWarehouse cuenta los registros de una bodega.
func (r *StockRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_records WHERE warehouse_id = $1`, warehouseID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count stock by warehouse: %w", err)
	}
	return total, nil
}

// ListLowStock devuelve los registros con quantity <= low_stock_threshold,
// ordenados por nombre.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	query := `
		SELECT` + stockColumns + `
		FROM stock_records s JOIN warehouses w ON w.id = s.warehouse_id
		WHERE s.quantity <= s.low_stock_threshold
		ORDER BY LOWER(s.name), LOWER(w.name)`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		rec, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
