package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Env             string
	Host            string
	Port            int
	ShutdownTimeout time.Duration

	HTTP  HTTPConfig
	DB    DatabaseConfig
	Auth  AuthConfig
	Redis RedisConfig
}

// HTTPConfig bounds how long a client may hold a connection.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret      []byte
	Issuer         string
	AccessTokenTTL time.Duration
	BcryptCost     int
}

// RedisConfig configures the login rate limiter. An empty Addr disables it.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	LoginRateLimit int
	LoginWindow    time.Duration
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one.
func Load() (*Config, error) {
	// بارگذاری .env؛ نبودن فایل خطا نیست
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and reports every invalid
// value at once.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := &parser{getenv: getenv}

	cfg := &Config{
		Env:             strings.ToLower(p.str("APP_ENV", EnvDevelopment)),
		Host:            p.str("APP_HOST", ""),
		Port:            p.integer("APP_PORT", 8000),
		ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: p.duration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       p.duration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      p.duration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       p.duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		DB: DatabaseConfig{
			Driver:          strings.ToLower(p.str("DB_DRIVER", DriverSQLite)),
			DSN:             p.str("DB_DSN", ""),
			MaxOpenConns:    p.integer("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    p.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:      []byte(p.str("JWT_SECRET", "")),
			Issuer:         p.str("JWT_ISSUER", "blogapi"),
			AccessTokenTTL: time.Duration(p.integer("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
			BcryptCost:     p.integer("BCRYPT_COST", bcrypt.DefaultCost),
		},
		Redis: RedisConfig{
			Addr:           p.str("REDIS_ADDR", ""),
			Password:       p.str("REDIS_PASSWORD", ""),
			DB:             p.integer("REDIS_DB", 0),
			LoginRateLimit: p.integer("LOGIN_RATE_LIMIT", 10),
			LoginWindow:    p.duration("LOGIN_RATE_WINDOW", time.Minute),
		},
	}

	if cfg.DB.DSN == "" && cfg.DB.Driver == DriverSQLite {
		cfg.DB.DSN = "database.db"
	}

	p.check(cfg.Env == EnvDevelopment || cfg.Env == EnvProduction, "APP_ENV must be %q or %q", EnvDevelopment, EnvProduction)
	p.check(cfg.Port > 0 && cfg.Port < 65536, "APP_PORT must be between 1 and 65535")
	p.check(cfg.HTTP.ReadHeaderTimeout > 0, "HTTP_READ_HEADER_TIMEOUT must be positive")
	p.check(cfg.HTTP.ReadTimeout >= 0, "HTTP_READ_TIMEOUT must not be negative")
	p.check(cfg.HTTP.WriteTimeout >= 0, "HTTP_WRITE_TIMEOUT must not be negative")
	p.check(cfg.HTTP.IdleTimeout >= 0, "HTTP_IDLE_TIMEOUT must not be negative")
	p.check(cfg.DB.Driver == DriverSQLite || cfg.DB.Driver == DriverMySQL, "DB_DRIVER must be %q or %q", DriverSQLite, DriverMySQL)
	p.check(cfg.DB.DSN != "", "DB_DSN is not set")
	p.check(cfg.DB.MaxOpenConns > 0, "DB_MAX_OPEN_CONNS must be positive")
	p.check(cfg.DB.MaxIdleConns >= 0, "DB_MAX_IDLE_CONNS must not be negative")
	p.check(len(cfg.Auth.JWTSecret) > 0, "JWT_SECRET is not set")
	p.check(cfg.Auth.AccessTokenTTL > 0, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	p.check(cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost,
		"BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	p.check(cfg.Redis.LoginRateLimit > 0, "LOGIN_RATE_LIMIT must be positive")
	p.check(cfg.Redis.LoginWindow > 0, "LOGIN_RATE_WINDOW must be positive")

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (p *parser) check(ok bool, format string, args ...any) {
	if !ok {
		p.errs = append(p.errs, fmt.Errorf(format, args...))
	}
}
