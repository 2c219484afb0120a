package comment

import (
	"context"

	"blogapi/internal/core/comment"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	FindWithAuthor(ctx context.Context, id uint) (*comment.WithAuthor, error)
	// ListByPostWithAuthor returns the comments of a post, oldest first.
	ListByPostWithAuthor(ctx context.Context, postID uint) ([]*comment.WithAuthor, error)
}

type CommentDTO struct {
	ID             uint   `json:"id"`
	PostID         uint   `json:"post_id"`
	AuthorID       uint   `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}
