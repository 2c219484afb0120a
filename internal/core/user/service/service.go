package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogapi/internal/core/errs"
	"blogapi/internal/core/token"
	userEntity "blogapi/internal/core/user"
	userPort "blogapi/internal/ports/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; longer passwords are rejected
// instead of silently truncated.
const maxPasswordBytes = 72

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	tokens         *token.Service
	bcryptCost     int
	dummyHash      []byte
	logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, tokens *token.Service, bcryptCost int, logger *zap.Logger) (*UserService, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against when the username is unknown, so both login failures
	// cost one bcrypt comparison
	dummy, err := bcrypt.GenerateFromPassword([]byte("blogapi-no-such-user"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt dummy hash: %w", err)
	}
	return &UserService{
		UserRepository: repo,
		tokens:         tokens,
		bcryptCost:     bcryptCost,
		dummyHash:      dummy,
		logger:         logger,
	}, nil
}

// RegisterUser ثبت‌نام کاربر جدید
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (*userPort.UserDTO, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	// بررسی اینکه آیا کاربر با این یوزرنیم قبلاً ثبت شده است
	_, err := s.UserRepository.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, errs.ErrDuplicateUsername
	case !errors.Is(err, errs.ErrNotFound):
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	// هش کردن پسورد
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// ذخیره کاربر در دیتابیس؛ ایندکس یکتا رقابت‌ها را حل می‌کند
	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Username:     username,
		UsernameKey:  userEntity.UsernameKey(username),
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("userID", u.ID), zap.String("username", u.Username))
	return toUserDTO(u), nil
}

// VerifyCredentials returns the user when the password matches. Unknown
// users and wrong passwords yield the same ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, errs.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	// مقایسه پسورد هش‌شده
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*userEntity.User, error) {
	return s.UserRepository.FindByUsername(ctx, username)
}

// LoginUser ورود کاربر و صدور توکن JWT
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("username", username))
		}
		return nil, err
	}

	tok, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}

	return &userPort.LoginResponse{
		AccessToken: tok.Value,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL() / time.Second),
	}, nil
}

// Authenticate resolves a bearer token to a live user. A token for a user
// that has since been deleted is treated like any other invalid token.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (*userEntity.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrTokenInvalid
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(u), nil
}

// DeleteUser removes the account together with its posts, comments and likes.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint("userID", id))
	return nil
}

func validateCredentials(username, password string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username must not be empty", errs.ErrValidation)
	case len([]rune(username)) > userEntity.MaxUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters", errs.ErrValidation, userEntity.MaxUsernameLength)
	case password == "":
		return fmt.Errorf("%w: password must not be empty", errs.ErrValidation)
	case len(password) > maxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", errs.ErrValidation, maxPasswordBytes)
	}
	return nil
}

func toUserDTO(u *userEntity.User) *userPort.UserDTO {
	return &userPort.UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
