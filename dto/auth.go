package dto

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"parent@example.com"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum" example:"janedoe"`
	Password string `json:"password" validate:"required,strong_password" example:"SecurePass123!"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required" example:"parent@example.com"`
	Password        string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type AuthResponse struct {
	ParentID  string    `json:"parent_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
