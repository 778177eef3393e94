package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body fallback for clients that cannot send the
// refreshToken cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the sanitized user view. The password hash is never
// serialized anywhere.
type UserResponse struct {
	ID                     uuid.UUID `json:"id"`
	Username               string    `json:"username"`
	UsernameCapitalization string    `json:"usernameCapitalization"`
	IsAdmin                bool      `json:"isAdmin"`
}

// AuthResponse is returned by register/login/refresh. The refresh token
// travels in an httpOnly cookie, not the JSON body.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"-"`
}

type ErrorResponse struct {
	Error     bool   `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
