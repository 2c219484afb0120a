package storage

import (
	"context"

	commentPort "blogapi/internal/ports/comment"
	likePort "blogapi/internal/ports/like"
	postPort "blogapi/internal/ports/post"
	userPort "blogapi/internal/ports/user"
)

// Repositories exposes every repository over one database handle, either
// the pool or an open transaction.
type Repositories interface {
	Users() userPort.UserRepository
	Posts() postPort.PostRepository
	Comments() commentPort.CommentRepository
	Likes() likePort.LikeRepository
}

// UnitOfWork runs fn inside a single transaction. The Repositories passed
// to fn are bound to that transaction; it commits when fn returns nil and
// rolls back on error, panic or context cancellation.
type UnitOfWork interface {
	Repositories
	WithTx(ctx context.Context, fn func(tx Repositories) error) error
}
