package dto

// ErrorResponse cuerpo de error HTTP con código máquina y mensaje humano.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PageResponse metadatos de página en respuestas de listado.
type PageResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
