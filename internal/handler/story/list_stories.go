package story

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	storymodel "fabula/internal/model/story"
)

// StoryInfo 故事信息（用于响应）
type StoryInfo struct {
	ID        string   `json:"id"`
	Narrative string   `json:"narrative"`
	Image     string   `json:"image"`
	Images    []string `json:"images,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

// ListResponse 故事列表响应
type ListResponse struct {
	Stories []StoryInfo `json:"stories"`
}

// ListStories 查询当前用户的故事列表
// @Summary      故事列表
// @Description  返回当前用户的全部故事，按创建时间倒序
// @Tags         故事
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	entries, err := h.storyService.ListEntries(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list stories", Details: err.Error()})
		return
	}

	stories := make([]StoryInfo, 0, len(entries))
	for _, e := range entries {
		stories = append(stories, toStoryInfo(e))
	}

	c.JSON(http.StatusOK, ListResponse{Stories: stories})
}

// toStoryInfo 将故事实体转换为响应结构，时间统一为 RFC3339
func toStoryInfo(e *storymodel.Entry) StoryInfo {
	return StoryInfo{
		ID:        e.ID,
		Narrative: e.Narrative,
		Image:     e.Image,
		Images:    e.Images,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
