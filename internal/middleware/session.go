package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AISessionCookie = "ai_session_id"
	aiSessionMaxAge = 3600 * 24 * 7
)

// AISession makes sure every caller of the assistant endpoints has a
// session id, creating the cookie on first contact.
func AISession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(AISessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(AISessionCookie, id, aiSessionMaxAge, "/", "", secure, true)
		}
		c.Set(AISessionCookie, id)
		c.Next()
	}
}

// SessionID returns the id set by AISession.
func SessionID(c *gin.Context) string {
	return c.GetString(AISessionCookie)
}
