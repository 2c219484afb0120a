package httpapi

import (
	"context"
	"net/http"

	"blogapi/internal/adapters/httpapi/middleware"
	likeEntity "blogapi/internal/core/like"
	postEntity "blogapi/internal/core/post"
	userEntity "blogapi/internal/core/user"
	commentPort "blogapi/internal/ports/comment"
	postPort "blogapi/internal/ports/post"
	userPort "blogapi/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	RegisterUser(ctx context.Context, username, password string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*userEntity.User, error)
	GetUser(ctx context.Context, id uint) (*userPort.UserDTO, error)
	DeleteUser(ctx context.Context, id uint) error
}

type PostUseCase interface {
	CreatePost(ctx context.Context, authorID uint, title, content string) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, postID uint) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, postID, callerID uint, patch postEntity.Patch) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, postID, callerID uint) error
	AddComment(ctx context.Context, postID, authorID uint, content string) (*commentPort.CommentDTO, error)
	ListComments(ctx context.Context, postID uint) ([]*commentPort.CommentDTO, error)
}

type LikeUseCase interface {
	LikePost(ctx context.Context, postID, userID uint) (likeEntity.Counts, error)
}

type Dependencies struct {
	Users  UserUseCase
	Posts  PostUseCase
	Likes  LikeUseCase
	Logger *zap.Logger
	// LoginLimiter is optional; nil leaves login unthrottled.
	LoginLimiter middleware.RateLimiter
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger), middleware.Recovery(deps.Logger))

	uc := NewUserController(deps.Users, deps.Logger)
	pc := NewPostController(deps.Posts, deps.Logger)
	cc := NewCommentController(deps.Posts, deps.Logger)
	lc := NewLikeController(deps.Likes, deps.Logger)
	auth := middleware.JWTAuthMiddleware(deps.Users, deps.Logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")

	// مسیرهای ثبت‌نام و ورود بدون JWT Middleware
	authGroup := api.Group("/auth")
	authGroup.POST("/register", uc.RegisterUser)
	if deps.LoginLimiter != nil {
		authGroup.POST("/login", middleware.RateLimit(deps.LoginLimiter, "login", deps.Logger), uc.LoginUser)
	} else {
		authGroup.POST("/login", uc.LoginUser)
	}

	users := api.Group("/users", auth)
	users.GET("/me", uc.Me)
	users.DELETE("/me", uc.DeleteMe)

	// خواندن بدون احراز هویت، تغییر با JWT Middleware
	posts := api.Group("/posts")
	posts.GET("", pc.ListPosts)
	posts.GET("/:id", pc.GetPost)
	posts.GET("/:id/comments", cc.ListComments)
	posts.POST("", auth, pc.CreatePost)
	posts.PUT("/:id", auth, pc.UpdatePost)
	posts.DELETE("/:id", auth, pc.DeletePost)
	posts.POST("/:id/comment", auth, cc.AddComment)
	posts.POST("/:id/like", auth, lc.LikePost)

	return r
}

// callerID reads the authenticated user id; routes behind the auth
// middleware always have it.
func callerID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
	}
	return id, ok
}
