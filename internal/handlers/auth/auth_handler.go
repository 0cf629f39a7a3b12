// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"plus-service/internal/domain/auth"
	"plus-service/internal/middleware"
	xerrors "plus-service/internal/pkg/errors"
	"plus-service/internal/pkg/response"
	"plus-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, *auth.Session, error)
	Logout(ctx context.Context, current session.ValidCurrent) error
}

type AuthHandler struct {
	authService Service
	cookies     *session.CookieWriter
	logger      *zap.Logger
}

func NewAuthHandler(authService Service, cookies *session.CookieWriter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// ========== Login ==========

// Login exchanges a provider ID token for a session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	loginResp, sess, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("login failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		if errors.Is(err, xerrors.ErrInvalidToken) {
			response.Error(c, http.StatusUnauthorized, "login failed", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "login failed", err)
		return
	}

	h.cookies.Set(c.Writer, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Logout ==========

// Logout revokes the current session, if any, and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if current, ok := middleware.GetValidSession(c); ok {
		if err := h.authService.Logout(c.Request.Context(), current); err != nil {
			h.logger.Error("logout failed",
				zap.String("subject_id", current.SubjectID),
				zap.Error(err),
			)
			response.Error(c, http.StatusServiceUnavailable, "logout failed", err)
			return
		}
	}

	h.cookies.Clear(c.Writer)
	c.Status(http.StatusNoContent)
}
