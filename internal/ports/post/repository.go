package post

import (
	"context"

	"blogapi/internal/core/post"
)

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uint) (*post.Post, error)
	FindWithAuthor(ctx context.Context, id uint) (*post.WithAuthor, error)
	// ListWithAuthor returns every post, newest first.
	ListWithAuthor(ctx context.Context) ([]*post.WithAuthor, error)
	Update(ctx context.Context, id uint, patch post.Patch) error
	Delete(ctx context.Context, id uint) error
}

// DTOها برای UseCase
type PostDTO struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AuthorID       uint   `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	LikeCount      int64  `json:"like_count"`
	CommentCount   int64  `json:"comment_count"`
}
