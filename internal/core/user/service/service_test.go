package userapp

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"blogapi/internal/adapters/database/databasetest"
	"blogapi/internal/core/errs"
	"blogapi/internal/core/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*UserService, *token.Service) {
	t.Helper()
	store := databasetest.NewStore(t)
	tokens := token.NewService([]byte("test-secret"), "blogapi", time.Hour)
	s, err := NewUserService(store.Users(), tokens, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)
	return s, tokens
}

func TestNewUserService_ClampsCost(t *testing.T) {
	store := databasetest.NewStore(t)
	tokens := token.NewService([]byte("k"), "blogapi", time.Hour)

	s, err := NewUserService(store.Users(), tokens, bcrypt.MaxCost+1, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, s.bcryptCost)
	cost, err := bcrypt.Cost(s.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestRegisterUser(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	u, err := s.RegisterUser(ctx, "  alice ", "wonderland")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.CreatedAt)

	stored, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "wonderland", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("wonderland")))
}

func TestRegisterUser_Duplicate(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.RegisterUser(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
	_, err = s.RegisterUser(ctx, "Alice", "pw2")
	assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
}

func TestRegisterUser_Concurrent(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	const n = 8
	start := make(chan struct{})
	results := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = s.RegisterUser(ctx, "alice", "wonderland")
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
		assert.ErrorIs(t, err, errs.ErrDuplicateUsername)
	}
	assert.Equal(t, 1, ok)

	_, err := s.FindByUsername(ctx, "alice")
	assert.NoError(t, err)
}

func TestRegisterUser_Validation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"blank username", "   ", "pw"},
		{"long username", strings.Repeat("a", 151), "pw"},
		{"empty password", "alice", ""},
		{"long password", "alice", strings.Repeat("p", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RegisterUser(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	_, err := s.RegisterUser(ctx, strings.Repeat("a", 150), "pw")
	assert.NoError(t, err)
}

func TestVerifyCredentials(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	reg, err := s.RegisterUser(ctx, "alice", "secret")
	require.NoError(t, err)

	u, err := s.VerifyCredentials(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, err = s.VerifyCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = s.VerifyCredentials(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestLoginUser(t *testing.T) {
	s, tokens := newTestService(t)
	ctx := context.Background()

	reg, err := s.RegisterUser(ctx, "alice", "secret")
	require.NoError(t, err)

	res, err := s.LoginUser(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id)

	_, err = s.LoginUser(ctx, "alice", "nope")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	s, tokens := newTestService(t)
	ctx := context.Background()

	reg, err := s.RegisterUser(ctx, "alice", "secret")
	require.NoError(t, err)
	res, err := s.LoginUser(ctx, "alice", "secret")
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, errs.ErrTokenInvalid)

	expired, err := tokens.IssueWithTTL(reg.ID, "alice", -time.Minute)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, expired.Value)
	assert.ErrorIs(t, err, token.ErrTokenExpired)

	// a valid token outlives its user only until the next lookup
	require.NoError(t, s.DeleteUser(ctx, reg.ID))
	_, err = s.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, errs.ErrTokenInvalid)
}

func TestGetAndDeleteUser(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	reg, err := s.RegisterUser(ctx, "alice", "secret")
	require.NoError(t, err)

	got, err := s.GetUser(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, s.DeleteUser(ctx, reg.ID))
	_, err = s.GetUser(ctx, reg.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, reg.ID), errs.ErrNotFound)

	// the name is free again
	_, err = s.RegisterUser(ctx, "alice", "again")
	assert.NoError(t, err)
}
