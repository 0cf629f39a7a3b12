// internal/handlers/settings/settings_handler.go
package settings

import (
	"context"
	"errors"
	"net/http"

	"plus-service/internal/domain/settings"
	"plus-service/internal/middleware"
	xerrors "plus-service/internal/pkg/errors"
	"plus-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, subjectID string) (*settings.Settings, error)
	Update(ctx context.Context, subjectID string, req *settings.UpdateRequest) (*settings.Settings, error)
}

type SettingsHandler struct {
	service Service
	logger  *zap.Logger
}

func NewSettingsHandler(service Service, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logger}
}

// GetSettings returns the caller's settings, or null if none were saved.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	subjectID := middleware.MustGetSubjectID(c)

	s, err := h.service.Get(c.Request.Context(), subjectID)
	if err != nil {
		h.logger.Error("failed to get settings", zap.String("subject_id", subjectID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to get settings", err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// UpdateSettings applies a partial update.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	subjectID := middleware.MustGetSubjectID(c)

	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	s, err := h.service.Update(c.Request.Context(), subjectID, &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid settings", err)
		case errors.Is(err, xerrors.ErrNotFound):
			response.Error(c, http.StatusNotFound, "user not found", err)
		default:
			h.logger.Error("failed to save settings", zap.String("subject_id", subjectID), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to save settings", err)
		}
		return
	}

	c.JSON(http.StatusCreated, s)
}
