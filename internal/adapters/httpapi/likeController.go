package httpapi

import (
	"net/http"

	"blogapi/internal/core/errs"
	likePort "blogapi/internal/ports/like"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeController struct {
	lc     LikeUseCase
	logger *zap.Logger
}

func NewLikeController(lc LikeUseCase, logger *zap.Logger) *LikeController {
	return &LikeController{lc: lc, logger: logger}
}

func (ctl *LikeController) LikePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	counts, err := ctl.lc.LikePost(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, ctl.logger, err, messages{
			errs.ErrNotFound:            "Post not found",
			errs.ErrConstraintViolation: "Unable to like post",
		})
		return
	}
	c.JSON(http.StatusCreated, likePort.LikeDTO{
		Message:      "Post liked",
		LikeCount:    counts.Likes,
		CommentCount: counts.Comments,
	})
}
