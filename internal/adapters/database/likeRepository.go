package database

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/core/comment"
	"blogapi/internal/core/errs"
	"blogapi/internal/core/like"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepositoryDatabase struct {
	db *gorm.DB
}

func NewLikeRepositoryDatabase(db *gorm.DB) *LikeRepositoryDatabase {
	return &LikeRepositoryDatabase{db: db}
}

// Create inserts the like. A rejection by uix_post_user means a concurrent
// request won the race; a foreign key rejection means the post vanished.
func (repo *LikeRepositoryDatabase) Create(ctx context.Context, l *like.Like) error {
	err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", errs.ErrConstraintViolation, err)
	}
	return dbError(err)
}

func (repo *LikeRepositoryDatabase) Exists(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&like.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, dbError(err)
	}
	return count > 0, nil
}

func (repo *LikeRepositoryDatabase) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&like.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, dbError(err)
	}
	return count, nil
}

func (repo *LikeRepositoryDatabase) CountComments(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&comment.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, dbError(err)
	}
	return count, nil
}

type postCount struct {
	PostID uint
	Total  int64
}

func (repo *LikeRepositoryDatabase) CountsForPosts(ctx context.Context, postIDs []uint) (map[uint]like.Counts, error) {
	counts := make(map[uint]like.Counts, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	for _, id := range postIDs {
		counts[id] = like.Counts{}
	}

	var likeTotals []postCount
	if err := repo.db.WithContext(ctx).Model(&like.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeTotals).Error; err != nil {
		return nil, dbError(err)
	}

	var commentTotals []postCount
	if err := repo.db.WithContext(ctx).Model(&comment.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentTotals).Error; err != nil {
		return nil, dbError(err)
	}

	for _, t := range likeTotals {
		c := counts[t.PostID]
		c.Likes = t.Total
		counts[t.PostID] = c
	}
	for _, t := range commentTotals {
		c := counts[t.PostID]
		c.Comments = t.Total
		counts[t.PostID] = c
	}
	return counts, nil
}
