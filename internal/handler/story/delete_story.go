package story

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	httpx "fabula/internal/pkg/http"
	"fabula/internal/service"
)

// DeleteStory 删除当前用户的一条故事
// @Summary      删除故事
// @Tags         故事
// @Produce      json
// @Param        id   path      string  true  "故事ID"
// @Success      200  {object}  httpx.OKResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/story/{id} [delete]
func (h *Handler) DeleteStory(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())
	storyID := c.Param("id")

	err := h.storyService.DeleteEntry(c.Request.Context(), userID, storyID)
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Story not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete story", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, httpx.NewOKResponse())
}
