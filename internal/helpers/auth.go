package helpers

import (
	"github.com/aparajitverma/TheExportExpress-sub003/internal/auth"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

var ErrNoSession = errors.New("unauthorized: no session")

// CurrentSession returns the session stored by middleware.Auth.
func CurrentSession(c *gin.Context) (auth.UserSession, error) {
	value, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return auth.UserSession{}, ErrNoSession
	}
	session, ok := value.(auth.UserSession)
	if !ok {
		return auth.UserSession{}, ErrNoSession
	}
	return session, nil
}
