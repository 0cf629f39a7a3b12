// internal/handlers/whoami/whoami_handler.go
package whoami

import (
	"context"
	"net/http"

	"plus-service/internal/middleware"
	"plus-service/internal/pkg/response"
	"plus-service/internal/pkg/session"
	whoamiUsecase "plus-service/internal/service/whoami"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Resolver interface {
	Resolve(ctx context.Context, headers http.Header, outcome session.Outcome) (*whoamiUsecase.Result, error)
}

type WhoamiHandler struct {
	resolver Resolver
	logger   *zap.Logger
}

func NewWhoamiHandler(resolver Resolver, logger *zap.Logger) *WhoamiHandler {
	return &WhoamiHandler{resolver: resolver, logger: logger}
}

// Get returns the identity summary as a bare object. Anonymous callers get
// 200 too; only storage failures are errors.
func (h *WhoamiHandler) Get(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	res, err := h.resolver.Resolve(c.Request.Context(), c.Request.Header, middleware.GetSessionOutcome(c))
	if err != nil {
		h.logger.Error("whoami failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to resolve identity", err)
		return
	}

	c.JSON(http.StatusOK, res.Response)
}
