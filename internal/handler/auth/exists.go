package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExistsResponse 邮箱注册状态响应
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// UserExists 检查邮箱是否已注册
// @Summary      邮箱是否已注册
// @Tags         认证
// @Produce      json
// @Param        email  query     string  true  "邮箱"
// @Success      200  {object}  ExistsResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/user/exists [get]
func (h *Handler) UserExists(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing_email"})
		return
	}

	exists, err := h.authService.ExistsByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "server_error", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}
