package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ActionLogRepository define el puerto de la bitácora append-only.
// Solo escritura desde las operaciones mutantes; la lectura es exclusiva del
// endpoint de consulta.
type ActionLogRepository interface {
	Create(ctx context.Context, log *entity.ActionLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.ActionLog, error)
}
