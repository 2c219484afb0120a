package database

import (
	"context"
	"errors"

	"blogapi/internal/core/errs"
	"blogapi/internal/core/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u.UsernameKey == "" {
		u.UsernameKey = user.UsernameKey(u.Username)
	}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		// the unique index on username_key decides races between registrations
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateUsername
		}
		return nil, dbError(err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username_key = ?", user.UsernameKey(username)).First(&u).Error; err != nil {
		return nil, dbError(err)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, dbError(err)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) Delete(ctx context.Context, id uint) error {
	res := repo.db.WithContext(ctx).Delete(&user.User{}, id)
	if res.Error != nil {
		return dbError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
