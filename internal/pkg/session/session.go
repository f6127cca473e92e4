package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Profile 会话中携带的用户身份
type Profile struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider"` // google / local
}

// OAuthTokens 会话中携带的第三方令牌（仅 OAuth 登录时存在）
// Cookie 只做签名不做加密，和原有 cookie-session 方案一致
type OAuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Session 已解析的会话内容
type Session struct {
	Profile Profile
	Tokens  *OAuthTokens
}

// claims JWT Claims结构
type claims struct {
	Profile Profile      `json:"profile"`
	Tokens  *OAuthTokens `json:"tokens,omitempty"`
	jwt.RegisteredClaims
}

// Manager 签名 Cookie 会话管理
type Manager struct {
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
}

// NewManager 创建会话管理器
func NewManager(secret, cookieName string, maxAge time.Duration, secure bool) *Manager {
	if cookieName == "" {
		cookieName = "sess"
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(secret),
		cookieName: cookieName,
		maxAge:     maxAge,
		secure:     secure,
	}
}

// Issue 签发会话并写入 Cookie
func (m *Manager) Issue(c *gin.Context, profile Profile, tokens *OAuthTokens) error {
	now := time.Now()
	cl := &claims{
		Profile: profile,
		Tokens:  tokens,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.Sub,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, signed, int(m.maxAge.Seconds()), "/", "", m.secure, true)
	return nil
}

// Parse 从请求 Cookie 中解析会话
func (m *Manager) Parse(c *gin.Context) (*Session, error) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return nil, ErrNoSession
	}
	return m.ParseToken(raw)
}

// ParseToken 验证并解析会话 Token
func (m *Manager) ParseToken(raw string) (*Session, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	cl, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return &Session{
		Profile: cl.Profile,
		Tokens:  cl.Tokens,
	}, nil
}

// Clear 清除会话 Cookie
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

// CookieName 当前会话 Cookie 名称
func (m *Manager) CookieName() string {
	return m.cookieName
}
