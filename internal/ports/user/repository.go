package user

import (
	"context"

	"blogapi/internal/core/user"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	// FindByUsername matches on the case-folded username key.
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByID(ctx context.Context, id uint) (*user.User, error)
	// Delete removes the user; posts, comments and likes go with it.
	Delete(ctx context.Context, id uint) error
}

// DTOها برای UseCase
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
