package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ActionLogRepository = (*ActionLogRepo)(nil)

// ActionLogRepo bitácora append-only sobre PostgreSQL. Sin UPDATE ni DELETE.
type ActionLogRepo struct {
	q Querier
}

// NewActionLogRepository construye el adaptador de la bitácora.
func NewActionLogRepository(q Querier) *ActionLogRepo {
	return &ActionLogRepo{q: q}
}

// Create inserta una entrada. Nunca se llama dentro de la tx de la mutación
// que describe: la bitácora es advisoria y no puede revertirla.
func (r *ActionLogRepo) Create(ctx context.Context, log *entity.ActionLog) error {
	query := `
		INSERT INTO action_logs (id, action_type, item_id, item_name, quantity, from_warehouse, to_warehouse, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		log.ID, log.ActionType, log.ItemID, log.ItemName, log.Quantity,
		log.FromWarehouse, log.ToWarehouse, log.UserID, log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

// List devuelve las entradas más recientes primero.
func (r *ActionLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActionLog, error) {
	query := `
		SELECT id, action_type, item_id, item_name, quantity, from_warehouse, to_warehouse, user_id, created_at
		FROM action_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list action logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActionLog
	for rows.Next() {
		var l entity.ActionLog
		if err := rows.Scan(
			&l.ID, &l.ActionType, &l.ItemID, &l.ItemName, &l.Quantity,
			&l.FromWarehouse, &l.ToWarehouse, &l.UserID, &l.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan action log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
