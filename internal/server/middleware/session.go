package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fabula/internal/pkg/ctxutil"
	httpx "fabula/internal/pkg/http"
	"fabula/internal/pkg/session"
)

// Session 会话解析中间件
// 解析 Cookie 中的会话并注入 context，无会话或会话无效时不拦截
func Session(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := mgr.Parse(c)
		if err == nil {
			ctx := ctxutil.WithSession(c.Request.Context(), sess)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// RequireSession 认证拦截中间件
// 无有效会话时返回 401，格式与前端约定一致
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ctxutil.GetSession(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpx.NewErrorResponse("not_authed"))
			return
		}

		c.Next()
	}
}
