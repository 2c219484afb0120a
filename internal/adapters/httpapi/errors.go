package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"blogapi/internal/core/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	kind    error
	status  int
	message string
}

// errorMappings is checked in order; the first matching kind wins.
var errorMappings = []errorMapping{
	{errs.ErrValidation, http.StatusBadRequest, ""},
	{errs.ErrDuplicateUsername, http.StatusBadRequest, "Username already registered"},
	{errs.ErrInvalidCredentials, http.StatusBadRequest, "Incorrect username or password"},
	{errs.ErrTokenInvalid, http.StatusUnauthorized, "Could not validate credentials"},
	{errs.ErrNotFound, http.StatusNotFound, "Not found"},
	{errs.ErrForbidden, http.StatusForbidden, "Not authorized"},
	{errs.ErrAlreadyLiked, http.StatusBadRequest, "You have already liked this post"},
	{errs.ErrConstraintViolation, http.StatusBadRequest, "Request conflicts with existing data"},
	{errs.ErrPersistenceUnavailable, http.StatusServiceUnavailable, "Service unavailable"},
}

// messages overrides the default text of an error kind for one endpoint.
type messages map[error]string

// writeError maps err to its status and stable message. Validation errors
// keep their own text; infrastructure failures are logged and answered
// without detail.
func writeError(c *gin.Context, logger *zap.Logger, err error, overrides messages) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		msg := m.message
		if text, ok := overrides[m.kind]; ok {
			msg = text
		}
		if m.kind == errs.ErrValidation {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		if m.status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.JSON(m.status, gin.H{"error": msg})
		return
	}

	logger.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func invalidInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
}

// postID parses the :id path parameter, answering 400 when it is not a
// positive integer.
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return 0, false
	}
	return uint(id), true
}
