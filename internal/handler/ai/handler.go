package ai

import (
	"fabula/internal/pkg/analytics"
	"fabula/internal/service"
)

// Handler 叙事生成处理器
// 所有 /ai 相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	narrativeService *service.NarrativeService
	storyService     *service.StoryService
	analytics        *analytics.Client
	maxImages        int
}

// NewHandler 创建叙事生成处理器
func NewHandler(narrativeService *service.NarrativeService, storyService *service.StoryService, analyticsClient *analytics.Client, maxImages int) *Handler {
	return &Handler{
		narrativeService: narrativeService,
		storyService:     storyService,
		analytics:        analyticsClient,
		maxImages:        maxImages,
	}
}
