package dto

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // admin | viewer; default viewer
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token JWT más el rol del usuario.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
