package httpapi

import (
	"net/http"

	"blogapi/internal/core/errs"
	userPort "blogapi/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c)
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, ctl.logger, err, nil)
		return
	}
	c.JSON(http.StatusCreated, userPort.RegisterResponse{ID: u.ID, Username: u.Username})
}

// LoginUser accepts the OAuth2 password form (form-encoded) as well as JSON.
func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		invalidInput(c)
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, ctl.logger, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	u, err := ctl.uc.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, ctl.logger, err, messages{errs.ErrNotFound: "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) DeleteMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctl.uc.DeleteUser(c.Request.Context(), userID); err != nil {
		writeError(c, ctl.logger, err, messages{errs.ErrNotFound: "User not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
