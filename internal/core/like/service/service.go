package likeapp

import (
	"context"
	"fmt"

	"blogapi/internal/core/errs"
	likeEntity "blogapi/internal/core/like"
	"blogapi/internal/ports/storage"

	"go.uber.org/zap"
)

type LikeService struct {
	store  storage.UnitOfWork
	logger *zap.Logger
}

func NewLikeService(store storage.UnitOfWork, logger *zap.Logger) *LikeService {
	return &LikeService{store: store, logger: logger}
}

// LikePost records that userID likes postID and returns the post's counts
// as of that write. The existence check gives the friendly ErrAlreadyLiked;
// a concurrent duplicate that slips past it is stopped by the unique index
// and reported as ErrConstraintViolation.
func (s *LikeService) LikePost(ctx context.Context, postID, userID uint) (likeEntity.Counts, error) {
	var counts likeEntity.Counts
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		if _, err := tx.Posts().FindByID(ctx, postID); err != nil {
			return err
		}
		liked, err := tx.Likes().Exists(ctx, postID, userID)
		if err != nil {
			return fmt.Errorf("check like: %w", err)
		}
		if liked {
			return errs.ErrAlreadyLiked
		}
		if err := tx.Likes().Create(ctx, &likeEntity.Like{PostID: postID, UserID: userID}); err != nil {
			return err
		}
		counts, err = readCounts(ctx, tx, postID)
		return err
	})
	if err != nil {
		return likeEntity.Counts{}, err
	}

	s.logger.Info("post liked", zap.Uint("postID", postID), zap.Uint("userID", userID))
	return counts, nil
}

func (s *LikeService) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return s.store.Likes().CountLikes(ctx, postID)
}

func (s *LikeService) CountComments(ctx context.Context, postID uint) (int64, error) {
	return s.store.Likes().CountComments(ctx, postID)
}

func readCounts(ctx context.Context, tx storage.Repositories, postID uint) (likeEntity.Counts, error) {
	likes, err := tx.Likes().CountLikes(ctx, postID)
	if err != nil {
		return likeEntity.Counts{}, fmt.Errorf("count likes: %w", err)
	}
	comments, err := tx.Likes().CountComments(ctx, postID)
	if err != nil {
		return likeEntity.Counts{}, fmt.Errorf("count comments: %w", err)
	}
	return likeEntity.Counts{Likes: likes, Comments: comments}, nil
}
