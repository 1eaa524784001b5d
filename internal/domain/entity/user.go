package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User usuario de la aplicación. La autenticación es una capacidad de borde:
// el motor de inventario solo consume el ID para atribuir auditoría.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
