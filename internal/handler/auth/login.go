package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/service"
)

// LoginRequest 本地登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // 邮箱（必填）
	Password string `json:"password" binding:"required"` // 密码（必填）
}

// Login 本地邮箱密码登录
// @Summary      本地登录
// @Description  校验邮箱密码，成功后写入会话 Cookie
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed", Details: err.Error()})
		return
	}

	if err := h.issueLocalSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed", Details: err.Error()})
		return
	}

	h.analytics.LogEvent("login", map[string]any{"provider": "local"})

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"profile": toProfileInfo(user),
	})
}
