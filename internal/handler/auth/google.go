package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fabula/internal/pkg/id"
	"fabula/internal/pkg/session"
)

// GoogleLogin 跳转到 Google 授权页
// @Summary      发起 Google 登录
// @Description  生成授权地址并重定向，next 参数指定登录后的回跳路径
// @Tags         认证
// @Param        next  query  string  false  "登录后回跳路径（必须以 / 开头）"
// @Success      302
// @Failure      503  {object}  ErrorResponse
// @Router       /google [get]
func (h *Handler) GoogleLogin(c *gin.Context) {
	if !h.google.Configured() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "oauth_not_configured"})
		return
	}

	next := c.Query("next")

	// Redis 可用时 state 为随机值，回跳路径存服务端做一次性校验
	state := next
	if h.stateStore != nil {
		state = id.New()
		if err := h.stateStore.Put(c.Request.Context(), state, next); err != nil {
			log.Warn().Err(err).Msg("failed to store oauth state, falling back to passthrough")
			state = next
		}
	}

	c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GoogleCallback Google 授权回调
// @Summary      Google 登录回调
// @Description  用授权码换取令牌，写入会话 Cookie 并重定向回前端
// @Tags         认证
// @Param        code   query  string  true   "授权码"
// @Param        state  query  string  false  "发起时传入的 state"
// @Success      302
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No code returned from Google"})
		return
	}

	next := c.Query("state")
	if h.stateStore != nil {
		stored, found, err := h.stateStore.Take(c.Request.Context(), next)
		if err != nil {
			log.Warn().Err(err).Msg("failed to verify oauth state")
		} else if !found {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_state"})
			return
		} else {
			next = stored
		}
	}

	profile, token, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("google token exchange failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "server_error", Details: err.Error()})
		return
	}

	user, err := h.authService.LoginWithGoogle(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "server_error", Details: err.Error()})
		return
	}

	sessProfile := session.Profile{
		Sub:      user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Picture:  user.Picture,
		Provider: user.Provider.String(),
	}
	tokens := &session.OAuthTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}

	if err := h.sessions.Issue(c, sessProfile, tokens); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "server_error", Details: err.Error()})
		return
	}

	h.analytics.LogEvent("login", map[string]any{"provider": "google"})

	// 只允许回跳到前端自身的路径
	target := h.frontendOrigin + "?view=books"
	if strings.HasPrefix(next, "/") {
		target = h.frontendOrigin + next
	}
	c.Redirect(http.StatusFound, target)
}
