package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis اتصال به Redis را راه‌اندازی می‌کند
// It returns nil, nil when no address is configured.
func InitRedis(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR is not set, login rate limiting disabled")
		return nil, nil
	}

	// تنظیمات اتصال به Redis
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,     // آدرس Redis
		Password: cfg.Password, // رمز عبور
		DB:       cfg.DB,       // شماره دیتابیس
	})

	// بررسی اتصال به Redis
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	return client, nil
}
