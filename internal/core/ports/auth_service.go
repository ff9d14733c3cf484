package ports

import (
	"context"
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthService covers the user directory: registration, login and profile.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	SetProfileImage(ctx context.Context, userID, ref string) (*domain.User, error)
}
