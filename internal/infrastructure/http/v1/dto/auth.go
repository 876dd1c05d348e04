package dto

// LoginRequest carries the single-operator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the bearer token for the opened session.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
