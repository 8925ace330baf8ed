package middleware

import (
	"net/http"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/auth"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	SessionContextKey    = "session"
	SessionKeyContextKey = "sessionKey"
)

// Auth rejects requests without a live session and stores the session on
// the context for handlers.
func Auth(sessions *auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, session, err := sessions.FromRequest(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, errors.Wrap(err, "unauthorized"))
			c.Abort()
			return
		}

		c.Set(SessionContextKey, session)
		c.Set(SessionKeyContextKey, key)
		c.Next()
	}
}

// RequireRoles lets the request through only when the session role is one of
// roles. It must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(SessionContextKey)
		session, _ := value.(auth.UserSession)
		if !ok {
			util.HandleError(c, http.StatusUnauthorized, errors.New("unauthorized: no session"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		util.HandleError(c, http.StatusForbidden, errors.New("insufficient permissions: admin access required"))
		c.Abort()
	}
}
