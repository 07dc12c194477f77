package identity

import (
	"time"

	"github.com/agromarket/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest is the body of POST /auth/register/
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	IsBusinessOwner bool   `json:"is_business_owner"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	Password2       string `json:"password2" binding:"required"`
}

// LoginRequest is the body of POST /auth/login/
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of POST /auth/refresh/
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	IsBusinessOwner bool      `json:"is_business_owner"`
	IsStaff         bool      `json:"is_staff"`
	DateJoined      time.Time `json:"date_joined"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		IsBusinessOwner: u.IsBusinessOwner,
		IsStaff:         u.IsStaff,
		DateJoined:      u.CreatedAt,
	}
}

// RegisterResult is returned after a successful registration
type RegisterResult struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

// TokenResult carries a token pair and, on login, the user it was issued for
type TokenResult struct {
	Access           string        `json:"access"`
	Refresh          string        `json:"refresh"`
	TokenType        string        `json:"token_type"`
	AccessExpiresAt  time.Time     `json:"access_expires_at"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at"`
	User             *UserResponse `json:"user,omitempty"`
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration
}
