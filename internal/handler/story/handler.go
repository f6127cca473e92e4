package story

import (
	"fabula/internal/service"
)

// Handler 照片故事处理器
type Handler struct {
	storyService *service.StoryService
}

// NewHandler 创建照片故事处理器
func NewHandler(storyService *service.StoryService) *Handler {
	return &Handler{
		storyService: storyService,
	}
}

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
