package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CompleteRegistrationRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  ReporterResponse `json:"user"`
}

type TempAuthResponse struct {
	TempToken string           `json:"temp_token"`
	User      ReporterResponse `json:"user"`
}

type AdminAuthResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

type ReporterResponse struct {
	ID                   uuid.UUID `json:"id"`
	Email                string    `json:"email"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	RegistrationComplete bool      `json:"registration_complete"`
	CreatedAt            time.Time `json:"created_at"`
}

type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AdminRole string    `json:"admin_role"`
	IsActive  bool      `json:"is_active"`
}

// ErrorResponse is the wire shape of every failure. Presentation layers
// translate the message; the field itself is the contract.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
