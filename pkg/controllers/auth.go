package controllers

import (
	"context"
	"net/http"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/auth"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/helpers"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/middleware"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SessionStore is the part of auth.SessionStore the auth handlers use.
type SessionStore interface {
	Create(ctx context.Context, user *models.User) (string, auth.UserSession, error)
	Delete(ctx context.Context, key string) error
}

type AuthController struct {
	userService services.UserService
	sessions    SessionStore
}

func InitAuthController(userService services.UserService, sessions SessionStore) *AuthController {
	return &AuthController{userService: userService, sessions: sessions}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Login handles POST /v1/auth/login
func (ac *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.LoginRequest
		if !BindJSON(c, &req) {
			return
		}

		user, err := ac.userService.Login(ctx, req)
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountDisabled) {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		key, session, err := ac.sessions.Create(ctx, user)
		if err != nil {
			HandleServiceError(c, services.InfrastructureError(err, "create session"))
			return
		}

		util.LogInfo("user logged in", zap.String("userId", user.ID.Hex()), zap.String("role", string(user.Role)))
		util.HandleSuccess(c, http.StatusOK, "Login successful", loginResponse{
			Token:     key,
			ExpiresAt: session.ExpiresAt.Unix(),
			User:      user,
		})
	}
}

// Logout handles DELETE /v1/auth/logout
func (ac *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		key := c.GetString(middleware.SessionKeyContextKey)
		if err := ac.sessions.Delete(ctx, key); err != nil {
			HandleServiceError(c, services.InfrastructureError(err, "delete session"))
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Logged out", nil)
	}
}

// Me handles GET /v1/auth/me
func (ac *AuthController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		session, err := helpers.CurrentSession(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		user, err := ac.userService.GetUserByID(ctx, session.UserID)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", user)
	}
}
