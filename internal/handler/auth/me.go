package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
)

// MeResponse 会话状态响应
type MeResponse struct {
	Authed bool `json:"authed"`
}

// Me 查询会话状态
// @Summary      会话状态
// @Description  有有效会话即视为已登录，本地账户与 Google 账户一致
// @Tags         认证
// @Produce      json
// @Success      200  {object}  MeResponse
// @Router       /api/me [get]
func (h *Handler) Me(c *gin.Context) {
	_, authed := ctxutil.GetSession(c.Request.Context())
	c.JSON(http.StatusOK, MeResponse{Authed: authed})
}

// Profile 查询当前会话的用户身份
// @Summary      当前用户身份
// @Tags         认证
// @Produce      json
// @Success      200  {object}  ProfileInfo
// @Failure      401  {object}  ErrorResponse
// @Router       /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	sess, ok := ctxutil.GetSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not_authed"})
		return
	}

	c.JSON(http.StatusOK, ProfileInfo{
		Sub:      sess.Profile.Sub,
		Email:    sess.Profile.Email,
		Name:     sess.Profile.Name,
		Picture:  sess.Profile.Picture,
		Provider: sess.Profile.Provider,
	})
}
