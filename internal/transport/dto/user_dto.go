package dto

import (
	"time"

	"github.com/google/uuid"
)

// SignupRequest defines the structure for registering a new account.
// Required fields and email format are checked by the user service so the
// caller gets every message at once.
type SignupRequest struct {
	Name            string `json:"name" validate:"omitempty,max=100"`
	Email           string `json:"email" validate:"omitempty,max=254"`
	Password        string `json:"password" validate:"omitempty,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"omitempty,max=72"`
}

// LoginRequest defines the structure for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
