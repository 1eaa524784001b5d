package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInvariantViolation indica que un commit habría dejado una cantidad
	// negativa. Nunca debería ocurrir con la coordinación correcta: se
	// reporta al caller y se registra con severidad error.
	ErrInvariantViolation = errors.New("violación de invariante de stock")

	// ErrDuplicateRequest indica que la llave de idempotencia ya fue usada.
	ErrDuplicateRequest = errors.New("petición duplicada")

	// ErrTransientStorage indica una falla transitoria del almacenamiento
	// (conflicto de escritura o deadlock) tras agotar los reintentos.
	ErrTransientStorage = errors.New("falla transitoria de almacenamiento")
)
