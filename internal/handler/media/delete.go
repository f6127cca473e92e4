package media

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	httpx "fabula/internal/pkg/http"
	"fabula/internal/service"
)

// Delete 删除当前用户的一条媒体
// @Summary      删除媒体
// @Tags         媒体库
// @Produce      json
// @Param        id   path      string  true  "媒体ID"
// @Success      200  {object}  httpx.OKResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/media/delete/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())
	mediaID := c.Param("id")

	err := h.mediaService.Delete(c.Request.Context(), userID, mediaID)
	if err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Media not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete media", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, httpx.NewOKResponse())
}
