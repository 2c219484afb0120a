package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewCommentController(pc PostUseCase, logger *zap.Logger) *CommentController {
	return &CommentController{pc: pc, logger: logger}
}

func (ctl *CommentController) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c)
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.AddComment(c.Request.Context(), id, userID, req.Content)
	if err != nil {
		writeError(c, ctl.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *CommentController) ListComments(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.ListComments(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}
