package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

func issueCookie(mgr *Manager, profile Profile, tokens *OAuthTokens) *http.Cookie {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if err := mgr.Issue(c, profile, tokens); err != nil {
		return nil
	}

	for _, ck := range w.Result().Cookies() {
		if ck.Name == mgr.CookieName() {
			return ck
		}
	}
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	Convey("签发后可以从 Cookie 解析回同样的内容", t, func() {
		mgr := NewManager("test-secret", "sess", time.Hour, false)

		profile := Profile{
			Sub:      "user-123",
			Email:    "user@example.com",
			Name:     "User",
			Provider: "google",
		}
		tokens := &OAuthTokens{AccessToken: "at", RefreshToken: "rt"}

		cookie := issueCookie(mgr, profile, tokens)
		So(cookie, ShouldNotBeNil)
		So(cookie.HttpOnly, ShouldBeTrue)

		sess, err := mgr.ParseToken(cookie.Value)
		So(err, ShouldBeNil)
		So(sess.Profile, ShouldResemble, profile)
		So(sess.Tokens.AccessToken, ShouldEqual, "at")
	})

	Convey("本地账户会话没有第三方令牌", t, func() {
		mgr := NewManager("test-secret", "sess", time.Hour, false)

		cookie := issueCookie(mgr, Profile{Sub: "local:a@b.c", Provider: "local"}, nil)
		So(cookie, ShouldNotBeNil)

		sess, err := mgr.ParseToken(cookie.Value)
		So(err, ShouldBeNil)
		So(sess.Tokens, ShouldBeNil)
	})

	Convey("密钥不一致时解析失败", t, func() {
		mgr := NewManager("secret-a", "sess", time.Hour, false)
		other := NewManager("secret-b", "sess", time.Hour, false)

		cookie := issueCookie(mgr, Profile{Sub: "user-123"}, nil)
		So(cookie, ShouldNotBeNil)

		_, err := other.ParseToken(cookie.Value)
		So(err, ShouldEqual, ErrInvalidSession)
	})

	Convey("篡改的 Token 解析失败", t, func() {
		mgr := NewManager("test-secret", "sess", time.Hour, false)

		_, err := mgr.ParseToken("not.a.token")
		So(err, ShouldEqual, ErrInvalidSession)
	})
}
