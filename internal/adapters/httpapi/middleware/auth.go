package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"blogapi/internal/core/errs"
	"blogapi/internal/core/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// JWTAuthMiddleware rejects the request with 401 unless it carries a valid,
// unexpired bearer token for an existing user. Why a token was rejected is
// logged but never returned to the client.
func JWTAuthMiddleware(auth Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		u, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, errs.ErrTokenInvalid) {
				logger.Debug("token rejected", zap.Error(err))
				unauthorized(c)
				return
			}
			logger.Error("authenticate request", zap.Error(err))
			status := http.StatusInternalServerError
			if errors.Is(err, errs.ErrPersistenceUnavailable) {
				status = http.StatusServiceUnavailable
			}
			c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
			return
		}

		c.Set(ContextUserID, u.ID)
		c.Set(ContextUsername, u.Username)
		c.Next()
	}
}

// UserID returns the id stored by JWTAuthMiddleware.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}
