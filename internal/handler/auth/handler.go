package auth

import (
	"fabula/internal/pkg/analytics"
	"fabula/internal/pkg/cache"
	"fabula/internal/pkg/oauthx"
	"fabula/internal/pkg/session"
	"fabula/internal/service"
)

// Handler 认证处理器
// 所有auth相关的Handler方法都通过这个结构体访问Service
type Handler struct {
	authService    *service.AuthService
	sessions       *session.Manager
	google         *oauthx.GoogleFlow
	stateStore     *cache.StateStore // 可为 nil，回退为把回跳路径直接放进 state
	analytics      *analytics.Client
	frontendOrigin string
}

// NewHandler 创建认证处理器
func NewHandler(
	authService *service.AuthService,
	sessions *session.Manager,
	google *oauthx.GoogleFlow,
	stateStore *cache.StateStore,
	analyticsClient *analytics.Client,
	frontendOrigin string,
) *Handler {
	return &Handler{
		authService:    authService,
		sessions:       sessions,
		google:         google,
		stateStore:     stateStore,
		analytics:      analyticsClient,
		frontendOrigin: frontendOrigin,
	}
}

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
