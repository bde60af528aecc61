package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "bb_session"

const sessionKey = "session_id"

// SessionMiddleware issues an anonymous session cookie on first contact and
// exposes the session id to handlers. Sessions identify browsers, not users.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, 7*24*3600, "/", "", false, true)
		}

		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the session id set by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
