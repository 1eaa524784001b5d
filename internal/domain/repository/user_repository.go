package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByUsername devuelve nil, nil si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
