package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authmodel "fabula/internal/model/auth"
	"fabula/internal/pkg/session"
	"fabula/internal/service"
)

// SignupRequest 本地注册请求
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`    // 邮箱（必填）
	Password string `json:"password" binding:"required"` // 密码（必填）
	Name     string `json:"name"`                        // 昵称（可选）
}

// Signup 本地邮箱密码注册
// @Summary      本地注册
// @Description  创建本地账户并直接写入会话 Cookie
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      SignupRequest  true  "注册请求"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Signup failed", Details: err.Error()})
		}
		return
	}

	if err := h.issueLocalSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Signup failed", Details: err.Error()})
		return
	}

	h.analytics.LogEvent("signup", map[string]any{"provider": "local"})

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"profile": toProfileInfo(user),
	})
}

// issueLocalSession 为本地账户写入会话 Cookie
// 本地账户没有第三方令牌
func (h *Handler) issueLocalSession(c *gin.Context, user *authmodel.User) error {
	return h.sessions.Issue(c, session.Profile{
		Sub:      user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Picture:  user.Picture,
		Provider: user.Provider.String(),
	}, nil)
}
