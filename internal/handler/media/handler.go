package media

import (
	"fabula/internal/service"
)

// Handler 媒体库处理器
type Handler struct {
	mediaService *service.MediaService
}

// NewHandler 创建媒体库处理器
func NewHandler(mediaService *service.MediaService) *Handler {
	return &Handler{
		mediaService: mediaService,
	}
}

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
