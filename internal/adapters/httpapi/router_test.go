package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"blogapi/internal/adapters/database/databasetest"
	"blogapi/internal/adapters/httpapi"
	likeapp "blogapi/internal/core/like/service"
	postapp "blogapi/internal/core/post/service"
	"blogapi/internal/core/token"
	userapp "blogapi/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type countingLimiter struct {
	limit int
	hits  map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.hits[key]++
	return l.hits[key] <= l.limit, time.Minute, nil
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T, deps func(*httpapi.Dependencies)) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := databasetest.NewStore(t)
	logger := zap.NewNop()
	tokens := token.NewService([]byte("test-secret"), "blogapi", 30*time.Minute)

	users, err := userapp.NewUserService(store.Users(), tokens, bcrypt.MinCost, logger)
	require.NoError(t, err)

	d := httpapi.Dependencies{
		Users:  users,
		Posts:  postapp.NewPostService(store, logger),
		Likes:  likeapp.NewLikeService(store, logger),
		Logger: logger,
	}
	if deps != nil {
		deps(&d)
	}
	return &api{t: t, router: httpapi.SetupRoutes(d)}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) loginForm(username, password string) *httptest.ResponseRecorder {
	a.t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers and logs in, returning the access token.
func (a *api) signup(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.loginForm(username, password)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		AccessToken string `json:"access_token"`
	}
	decode(a.t, w, &res)
	return res.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

type postBody struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	AuthorID       uint   `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	LikeCount      int64  `json:"like_count"`
	CommentCount   int64  `json:"comment_count"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t, nil)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t, nil)

	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "wonderland"})
	require.Equal(t, http.StatusCreated, w.Code)
	var u struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	decode(t, w, &u)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Empty(t, u.Password)
	assert.NotContains(t, w.Body.String(), "wonderland")
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"username":"alice"}`, u.ID), w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "again"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already registered", errorOf(t, w))

	w = a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid input", errorOf(t, w))

	w = a.loginForm("alice", "wonderland")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	decode(t, w, &res)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, int64(1800), res.ExpiresIn)

	// JSON bodies are accepted too
	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wonderland"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.loginForm("alice", "wrong")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect username or password", errorOf(t, w))

	w = a.loginForm("nobody", "wonderland")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect username or password", errorOf(t, w))
}

func TestMeAndDeleteMe(t *testing.T) {
	a := newAPI(t, nil)
	tok := a.signup("alice", "pw")

	w := a.do(http.MethodGet, "/api/users/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = a.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = a.do(http.MethodDelete, "/api/users/me", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/api/users/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	a := newAPI(t, nil)
	alice := a.signup("alice", "pw-alice")
	bob := a.signup("bob", "pw-bob")

	w := a.do(http.MethodPost, "/api/posts", "", map[string]string{"title": "Hello", "content": "World"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/posts", alice, map[string]string{"title": "Hello", "content": "World"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created postBody
	decode(t, w, &created)
	assert.Equal(t, "Hello", created.Title)
	assert.Equal(t, "alice", created.AuthorUsername)
	assert.Zero(t, created.LikeCount)
	assert.Zero(t, created.CommentCount)
	path := fmt.Sprintf("/api/posts/%d", created.ID)

	w = a.do(http.MethodPost, "/api/posts", alice, map[string]string{"content": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodPost, "/api/posts", alice, map[string]string{"title": strings.Repeat("t", 256)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// reads are public
	w = a.do(http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []postBody
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w = a.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, path+"/comment", bob, map[string]string{"content": "Nice post!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"author_username":"bob"`)

	w = a.do(http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Post liked","like_count":1,"comment_count":1}`, w.Body.String())

	w = a.do(http.MethodPost, path+"/like", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already liked this post", errorOf(t, w))

	w = a.do(http.MethodGet, path+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []map[string]any
	decode(t, w, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice post!", comments[0]["content"])

	w = a.do(http.MethodGet, path, "", nil)
	var got postBody
	decode(t, w, &got)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.Equal(t, int64(1), got.CommentCount)

	w = a.do(http.MethodPut, path, bob, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to update this post", errorOf(t, w))

	w = a.do(http.MethodPut, path, alice, map[string]string{"content": "Updated"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated postBody
	decode(t, w, &updated)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "Updated", updated.Content)

	w = a.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to delete this post", errorOf(t, w))

	w = a.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", errorOf(t, w))
	w = a.do(http.MethodGet, path+"/comments", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodPost, path+"/like", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidPostID(t *testing.T) {
	a := newAPI(t, nil)
	tok := a.signup("alice", "pw")

	for _, path := range []string{"/api/posts/abc", "/api/posts/0", "/api/posts/-3/comments"} {
		w := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "invalid post id", errorOf(t, w), path)
	}

	w := a.do(http.MethodPost, "/api/posts/abc/like", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentNeedsContent(t *testing.T) {
	a := newAPI(t, nil)
	tok := a.signup("alice", "pw")

	w := a.do(http.MethodPost, "/api/posts", tok, map[string]string{"title": "t"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p postBody
	decode(t, w, &p)

	w = a.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comment", p.ID), tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/posts/999/comment", tok, map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", errorOf(t, w))
}

func TestLoginRateLimit(t *testing.T) {
	limiter := &countingLimiter{limit: 2, hits: map[string]int{}}
	a := newAPI(t, func(d *httpapi.Dependencies) { d.LoginLimiter = limiter })

	for i := 0; i < 2; i++ {
		w := a.loginForm("nobody", "x")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	w := a.loginForm("nobody", "x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// registration is not throttled
	w = a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "carol", "password": "pw"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
