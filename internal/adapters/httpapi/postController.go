package httpapi

import (
	"net/http"

	"blogapi/internal/core/errs"
	"blogapi/internal/core/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var postNotFound = messages{errs.ErrNotFound: "Post not found"}

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c)
		return
	}
	// گرفتن userID از context
	userID, ok := callerID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		writeError(c, ctl.logger, err, nil)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	res, err := ctl.pc.ListPosts(c.Request.Context())
	if err != nil {
		writeError(c, ctl.logger, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.GetPost(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.logger, err, postNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdatePost applies a partial update; fields absent from the body are left
// as they are.
func (ctl *PostController) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c)
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	res, err := ctl.pc.UpdatePost(c.Request.Context(), id, userID, post.Patch{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(c, ctl.logger, err, messages{
			errs.ErrNotFound:  "Post not found",
			errs.ErrForbidden: "Not authorized to update this post",
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctl.pc.DeletePost(c.Request.Context(), id, userID); err != nil {
		writeError(c, ctl.logger, err, messages{
			errs.ErrNotFound:  "Post not found",
			errs.ErrForbidden: "Not authorized to delete this post",
		})
		return
	}
	c.Status(http.StatusNoContent)
}
