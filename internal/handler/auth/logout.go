package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "fabula/internal/pkg/http"
)

// Logout 登出
// @Summary      登出
// @Description  清除会话 Cookie
// @Tags         认证
// @Produce      json
// @Success      200  {object}  httpx.OKResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.JSON(http.StatusOK, httpx.NewOKResponse())
}
