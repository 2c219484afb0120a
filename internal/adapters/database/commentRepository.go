package database

import (
	"context"
	"errors"
	"time"

	"blogapi/internal/core/comment"
	"blogapi/internal/core/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

type commentRow struct {
	ID             uint
	PostID         uint
	AuthorID       uint
	AuthorUsername string
	Content        string
	CreatedAt      time.Time
}

func (r commentRow) toEntity() *comment.WithAuthor {
	return &comment.WithAuthor{
		Comment: comment.Comment{
			ID:        r.ID,
			PostID:    r.PostID,
			AuthorID:  r.AuthorID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		},
		AuthorUsername: r.AuthorUsername,
	}
}

func (repo *CommentRepositoryDatabase) withAuthor(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, comments.author_id, comments.content, comments.created_at, users.username AS author_username").
		Joins("JOIN users ON users.id = comments.author_id")
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		// the post was deleted between the existence check and the insert
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, errs.ErrNotFound
		}
		return nil, dbError(err)
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindWithAuthor(ctx context.Context, id uint) (*comment.WithAuthor, error) {
	var rows []commentRow
	if err := repo.withAuthor(ctx).Where("comments.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, dbError(err)
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}
	return rows[0].toEntity(), nil
}

func (repo *CommentRepositoryDatabase) ListByPostWithAuthor(ctx context.Context, postID uint) ([]*comment.WithAuthor, error) {
	var rows []commentRow
	if err := repo.withAuthor(ctx).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, dbError(err)
	}
	comments := make([]*comment.WithAuthor, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toEntity())
	}
	return comments, nil
}
