package ctxutil

import (
	"context"

	"fabula/internal/pkg/session"
)

// sessionKeyType 使用私有类型避免与其他 context key 冲突
type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// WithSession 将已解析的会话注入到 context 中
// 说明：建议在会话中间件中调用，解析 Cookie 成功后：
//
//	ctx := ctxutil.WithSession(c.Request.Context(), sess)
//	c.Request = c.Request.WithContext(ctx)
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSession 从 context 中解析会话
// 返回值：
//   - *session.Session: 解析到的会话
//   - bool            : 是否存在有效会话
func GetSession(ctx context.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	if !ok || sess == nil {
		return nil, false
	}
	return sess, true
}

// GetUserID 从 context 中解析当前用户ID（会话 Profile 的 sub）
func GetUserID(ctx context.Context) (string, bool) {
	sess, ok := GetSession(ctx)
	if !ok || sess.Profile.Sub == "" {
		return "", false
	}
	return sess.Profile.Sub, true
}
