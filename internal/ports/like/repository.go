package like

import (
	"context"

	"blogapi/internal/core/like"
)

type LikeRepository interface {
	Create(ctx context.Context, like *like.Like) error
	Exists(ctx context.Context, postID, userID uint) (bool, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
	CountComments(ctx context.Context, postID uint) (int64, error)
	// CountsForPosts aggregates likes and comments for many posts at once.
	// Posts without engagement are present with zero counts.
	CountsForPosts(ctx context.Context, postIDs []uint) (map[uint]like.Counts, error)
}

type LikeDTO struct {
	Message      string `json:"message"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}
