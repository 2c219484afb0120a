package database

import (
	"context"

	"blogapi/internal/core/comment"
	"blogapi/internal/core/like"
	"blogapi/internal/core/post"
	"blogapi/internal/core/user"
	commentPort "blogapi/internal/ports/comment"
	likePort "blogapi/internal/ports/like"
	postPort "blogapi/internal/ports/post"
	"blogapi/internal/ports/storage"
	userPort "blogapi/internal/ports/user"

	"gorm.io/gorm"
)

// Store پیاده‌سازی UnitOfWork روی یک هندل gorm
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() userPort.UserRepository {
	return NewUserRepositoryDatabase(s.db)
}

func (s *Store) Posts() postPort.PostRepository {
	return NewPostRepositoryDatabase(s.db)
}

func (s *Store) Comments() commentPort.CommentRepository {
	return NewCommentRepositoryDatabase(s.db)
}

func (s *Store) Likes() likePort.LikeRepository {
	return NewLikeRepositoryDatabase(s.db)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return dbError(err)
}

// Migrate creates or updates the four tables with their foreign keys and
// unique indexes. Order matters: referenced tables first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&comment.Comment{},
		&like.Like{},
	)
}
