package media

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	storymodel "fabula/internal/model/story"
	"fabula/internal/pkg/ctxutil"
)

// ItemInfo 媒体条目信息（用于响应）
type ItemInfo struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ImageURL  string `json:"imageUrl"`
	Filename  string `json:"filename,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	SourceID  string `json:"sourceId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// ListResponse 媒体列表响应
type ListResponse struct {
	Items []ItemInfo `json:"items"`
}

// List 查询当前用户的媒体库
// @Summary      媒体列表
// @Description  返回当前用户的全部媒体条目，按创建时间倒序
// @Tags         媒体库
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /api/media/list [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := ctxutil.GetUserID(c.Request.Context())

	items, err := h.mediaService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list media", Details: err.Error()})
		return
	}

	infos := make([]ItemInfo, 0, len(items))
	for _, item := range items {
		infos = append(infos, toItemInfo(item))
	}

	c.JSON(http.StatusOK, ListResponse{Items: infos})
}

// toItemInfo 将媒体实体转换为响应结构，时间统一为 RFC3339
func toItemInfo(item *storymodel.MediaItem) ItemInfo {
	return ItemInfo{
		ID:        item.ID,
		Type:      string(item.Type),
		ImageURL:  item.ImageURL,
		Filename:  item.Filename,
		MimeType:  item.MimeType,
		SourceID:  item.SourceID,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}
}
