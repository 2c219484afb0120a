package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	dbadapter "blogapi/internal/adapters/database"
	"blogapi/internal/adapters/httpapi"
	redisadapter "blogapi/internal/adapters/redis"
	"blogapi/internal/config"
	likeapp "blogapi/internal/core/like/service"
	postapp "blogapi/internal/core/post/service"
	"blogapi/internal/core/token"
	userapp "blogapi/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	os.Exit(runMain())
}

// runMain returns the process exit code so deferred log flushing runs
// before os.Exit.
func runMain() int {
	cfg, err := config.Load() // بارگذاری تنظیمات از .env
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	db, err := config.InitDB(cfg.DB, logger)
	if err != nil {
		return err
	}
	if err := dbadapter.Migrate(db); err != nil {
		_ = config.CloseDB(db)
		return fmt.Errorf("error during migrations: %w", err)
	}
	logger.Info("Database migrations completed")

	// اتصال به Redis؛ بدون Redis ورود محدود نمی‌شود
	redisClient, err := config.InitRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, login rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	// بستن منابع بعد از اتمام کار سرور
	defer closeResources(logger, db, redisClient)

	// آداپترهای خروجی و یوزکیس‌ها
	store := dbadapter.NewStore(db)
	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	userSvc, err := userapp.NewUserService(store.Users(), tokens, cfg.Auth.BcryptCost, logger)
	if err != nil {
		return err
	}
	postSvc := postapp.NewPostService(store, logger)
	likeSvc := likeapp.NewLikeService(store, logger)

	deps := httpapi.Dependencies{
		Users:  userSvc,
		Posts:  postSvc,
		Likes:  likeSvc,
		Logger: logger,
	}
	if redisClient != nil {
		deps.LoginLimiter = redisadapter.NewRateLimiterRedis(redisClient, cfg.Redis.LoginRateLimit, cfg.Redis.LoginWindow)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := httpapi.SetupRoutes(deps) // تزریق یوزکیس به آداپتر ورودی

	srv := httpapi.NewServer(cfg.Addr(), cfg.HTTP, r)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
	if err := config.CloseDB(db); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
