package postapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	commentEntity "blogapi/internal/core/comment"
	"blogapi/internal/core/errs"
	"blogapi/internal/core/like"
	postEntity "blogapi/internal/core/post"
	commentPort "blogapi/internal/ports/comment"
	postPort "blogapi/internal/ports/post"
	"blogapi/internal/ports/storage"

	"go.uber.org/zap"
)

// PostService manages posts and their comments. Every operation runs in one
// transaction so the counts returned with a post reflect the write that
// produced it.
type PostService struct {
	store  storage.UnitOfWork
	logger *zap.Logger
}

func NewPostService(store storage.UnitOfWork, logger *zap.Logger) *PostService {
	return &PostService{store: store, logger: logger}
}

// CreatePost ایجاد یک پست جدید
func (s *PostService) CreatePost(ctx context.Context, authorID uint, title, content string) (*postPort.PostDTO, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	var dto *postPort.PostDTO
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		created, err := tx.Posts().Create(ctx, &postEntity.Post{
			Title:    title,
			Content:  content,
			AuthorID: authorID,
		})
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		dto, err = loadPost(ctx, tx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", zap.Uint("postID", dto.ID), zap.Uint("authorID", authorID))
	return dto, nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*postPort.PostDTO, error) {
	var dto *postPort.PostDTO
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		var err error
		dto, err = loadPost(ctx, tx, postID)
		return err
	})
	return dto, err
}

// ListPosts returns every post, newest first, each with live counts.
func (s *PostService) ListPosts(ctx context.Context) ([]*postPort.PostDTO, error) {
	var dtos []*postPort.PostDTO
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		posts, err := tx.Posts().ListWithAuthor(ctx)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		ids := make([]uint, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		counts, err := tx.Likes().CountsForPosts(ctx, ids)
		if err != nil {
			return fmt.Errorf("count engagement: %w", err)
		}
		dtos = make([]*postPort.PostDTO, 0, len(posts))
		for _, p := range posts {
			dtos = append(dtos, toPostDTO(p, counts[p.ID]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// UpdatePost applies the provided fields. Existence is checked before
// ownership: a missing post is ErrNotFound whoever asks.
func (s *PostService) UpdatePost(ctx context.Context, postID, callerID uint, patch postEntity.Patch) (*postPort.PostDTO, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}

	var dto *postPort.PostDTO
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		if err := authorize(ctx, tx, postID, callerID); err != nil {
			return err
		}
		if err := tx.Posts().Update(ctx, postID, patch); err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		var err error
		dto, err = loadPost(ctx, tx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post updated", zap.Uint("postID", postID), zap.Uint("callerID", callerID))
	return dto, nil
}

// DeletePost removes the post with its comments and likes, atomically.
func (s *PostService) DeletePost(ctx context.Context, postID, callerID uint) error {
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		if err := authorize(ctx, tx, postID, callerID); err != nil {
			return err
		}
		return tx.Posts().Delete(ctx, postID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("post deleted", zap.Uint("postID", postID), zap.Uint("callerID", callerID))
	return nil
}

func (s *PostService) AddComment(ctx context.Context, postID, authorID uint, content string) (*commentPort.CommentDTO, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", errs.ErrValidation)
	}

	var dto *commentPort.CommentDTO
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		if _, err := tx.Posts().FindByID(ctx, postID); err != nil {
			return err
		}
		created, err := tx.Comments().Create(ctx, &commentEntity.Comment{
			PostID:   postID,
			AuthorID: authorID,
			Content:  content,
		})
		if err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		c, err := tx.Comments().FindWithAuthor(ctx, created.ID)
		if err != nil {
			return err
		}
		dto = toCommentDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added", zap.Uint("commentID", dto.ID), zap.Uint("postID", postID), zap.Uint("authorID", authorID))
	return dto, nil
}

// ListComments returns the comments of a post, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID uint) ([]*commentPort.CommentDTO, error) {
	var dtos []*commentPort.CommentDTO
	err := s.store.WithTx(ctx, func(tx storage.Repositories) error {
		if _, err := tx.Posts().FindByID(ctx, postID); err != nil {
			return err
		}
		comments, err := tx.Comments().ListByPostWithAuthor(ctx, postID)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		dtos = make([]*commentPort.CommentDTO, 0, len(comments))
		for _, c := range comments {
			dtos = append(dtos, toCommentDTO(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

func authorize(ctx context.Context, tx storage.Repositories, postID, callerID uint) error {
	p, err := tx.Posts().FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != callerID {
		return errs.ErrForbidden
	}
	return nil
}

func loadPost(ctx context.Context, tx storage.Repositories, postID uint) (*postPort.PostDTO, error) {
	p, err := tx.Posts().FindWithAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}
	likes, err := tx.Likes().CountLikes(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	comments, err := tx.Likes().CountComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return toPostDTO(p, like.Counts{Likes: likes, Comments: comments}), nil
}

func validateTitle(title string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return fmt.Errorf("%w: title must not be empty", errs.ErrValidation)
	case len([]rune(title)) > postEntity.MaxTitleLength:
		return fmt.Errorf("%w: title must be at most %d characters", errs.ErrValidation, postEntity.MaxTitleLength)
	}
	return nil
}

func toPostDTO(p *postEntity.WithAuthor, c like.Counts) *postPort.PostDTO {
	return &postPort.PostDTO{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		AuthorID:       p.AuthorID,
		AuthorUsername: p.AuthorUsername,
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
		LikeCount:      c.Likes,
		CommentCount:   c.Comments,
	}
}

func toCommentDTO(c *commentEntity.WithAuthor) *commentPort.CommentDTO {
	return &commentPort.CommentDTO{
		ID:             c.ID,
		PostID:         c.PostID,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Content:        c.Content,
		CreatedAt:      formatTime(c.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
