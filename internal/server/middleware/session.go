package middleware

import (
	"github.com/gin-gonic/gin"

	"pomelo/internal/pkg/ctxutil"
	"pomelo/internal/pkg/id"
)

// 匿名会话 cookie 名称和有效期（秒）
const (
	sessionCookie = "anon_session"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// AnonSession 匿名会话中间件
// 浏览器第一次访问时下发会话ID cookie，之后的请求带着同一个ID，
// 匿名配额按这个ID计数。会话ID只进 Redis 计数器，不落库
func AnonSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = id.New()
			c.SetCookie(sessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}

		ctx := ctxutil.WithSessionID(c.Request.Context(), sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
