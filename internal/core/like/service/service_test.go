package likeapp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blogapi/internal/adapters/database"
	"blogapi/internal/adapters/database/databasetest"
	"blogapi/internal/core/comment"
	"blogapi/internal/core/errs"
	likeEntity "blogapi/internal/core/like"
	"blogapi/internal/core/post"
	"blogapi/internal/core/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seed(t *testing.T) (*database.Store, *user.User, *user.User, *post.Post) {
	t.Helper()
	store := databasetest.NewStore(t)
	ctx := context.Background()

	alice, err := store.Users().Create(ctx, &user.User{Username: "alice", PasswordHash: "x"})
	require.NoError(t, err)
	bob, err := store.Users().Create(ctx, &user.User{Username: "bob", PasswordHash: "x"})
	require.NoError(t, err)
	p, err := store.Posts().Create(ctx, &post.Post{Title: "Hello", AuthorID: alice.ID})
	require.NoError(t, err)
	return store, alice, bob, p
}

func TestLikePost(t *testing.T) {
	store, alice, bob, p := seed(t)
	s := NewLikeService(store, zap.NewNop())
	ctx := context.Background()

	_, err := store.Comments().Create(ctx, &comment.Comment{PostID: p.ID, AuthorID: bob.ID, Content: "hi"})
	require.NoError(t, err)

	counts, err := s.LikePost(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, likeEntity.Counts{Likes: 1, Comments: 1}, counts)

	// authors may like their own posts
	counts, err = s.LikePost(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Likes)

	n, err := s.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = s.CountComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLikePost_Twice(t *testing.T) {
	store, _, bob, p := seed(t)
	s := NewLikeService(store, zap.NewNop())
	ctx := context.Background()

	_, err := s.LikePost(ctx, p.ID, bob.ID)
	require.NoError(t, err)

	_, err = s.LikePost(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, errs.ErrAlreadyLiked)

	n, err := s.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLikePost_MissingPost(t *testing.T) {
	store, _, bob, _ := seed(t)
	s := NewLikeService(store, zap.NewNop())

	_, err := s.LikePost(context.Background(), 999, bob.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLikePost_Concurrent(t *testing.T) {
	store, _, bob, p := seed(t)
	s := NewLikeService(store, zap.NewNop())
	ctx := context.Background()

	const n = 16
	start := make(chan struct{})
	results := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = s.LikePost(ctx, p.ID, bob.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.NotErrorIs(t, err, errs.ErrPersistenceUnavailable)
		assert.True(t, errors.Is(err, errs.ErrAlreadyLiked) || errors.Is(err, errs.ErrConstraintViolation), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)

	likes, err := s.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
}
