package ai

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	httpx "fabula/internal/pkg/http"
)

// SaveEntry 保存照片故事
// @Summary      保存照片故事
// @Description  压缩图片并与叙事一起写入当前用户的故事集合
// @Tags         AI
// @Accept       multipart/form-data
// @Produce      json
// @Param        images     formData  file    true  "图片（可多张，兼容单数字段 image）"
// @Param        narrative  formData  string  true  "叙事文本"
// @Success      200  {object}  httpx.OKResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /ai/save-entry [post]
func (h *Handler) SaveEntry(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not_authed"})
		return
	}

	images, err := collectImages(c, h.maxImages)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid upload", Details: err.Error()})
		return
	}
	if len(images) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No image uploaded"})
		return
	}

	narrative := c.PostForm("narrative")
	if narrative == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing narrative"})
		return
	}

	if _, err := h.storyService.SaveEntry(c.Request.Context(), userID, narrative, images); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Save failed", Details: err.Error()})
		return
	}

	h.analytics.LogEvent("story_saved", map[string]any{
		"image_count": len(images),
	})

	c.JSON(http.StatusOK, httpx.NewOKResponse())
}
