package database

import (
	"context"
	"time"

	"blogapi/internal/core/errs"
	"blogapi/internal/core/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

// postRow is the shape of a post joined with its author.
type postRow struct {
	ID             uint
	Title          string
	Content        string
	AuthorID       uint
	AuthorUsername string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r postRow) toEntity() *post.WithAuthor {
	return &post.WithAuthor{
		Post: post.Post{
			ID:        r.ID,
			Title:     r.Title,
			Content:   r.Content,
			AuthorID:  r.AuthorID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		AuthorUsername: r.AuthorUsername,
	}
}

func (repo *PostRepositoryDatabase) withAuthor(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.title, posts.content, posts.author_id, posts.created_at, posts.updated_at, users.username AS author_username").
		Joins("JOIN users ON users.id = posts.author_id")
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, dbError(err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uint) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, dbError(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindWithAuthor(ctx context.Context, id uint) (*post.WithAuthor, error) {
	var rows []postRow
	if err := repo.withAuthor(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, dbError(err)
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}
	return rows[0].toEntity(), nil
}

func (repo *PostRepositoryDatabase) ListWithAuthor(ctx context.Context) ([]*post.WithAuthor, error) {
	var rows []postRow
	if err := repo.withAuthor(ctx).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, dbError(err)
	}
	posts := make([]*post.WithAuthor, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toEntity())
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) Update(ctx context.Context, id uint, patch post.Patch) error {
	if patch.Empty() {
		return nil
	}
	values := map[string]any{"updated_at": repo.db.NowFunc()}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Content != nil {
		values["content"] = *patch.Content
	}
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).Updates(values).Error; err != nil {
		return dbError(err)
	}
	return nil
}

// Delete removes the post; the foreign keys cascade to its comments and likes
// within the same statement.
func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uint) error {
	res := repo.db.WithContext(ctx).Delete(&post.Post{}, id)
	if res.Error != nil {
		return dbError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
