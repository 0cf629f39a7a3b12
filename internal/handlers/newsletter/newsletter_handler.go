// internal/handlers/newsletter/newsletter_handler.go
package newsletter

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"plus-service/internal/domain/newsletter"
	"plus-service/internal/middleware"
	xerrors "plus-service/internal/pkg/errors"
	"plus-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Status(ctx context.Context, subjectID string) (bool, error)
	Subscribe(ctx context.Context, subjectID, sourceURL string) error
	Unsubscribe(ctx context.Context, subjectID string) error
	Signup(ctx context.Context, email, sourceURL string) error
}

type SignupLimiter interface {
	CheckNewsletterSignup(ctx context.Context, ip string) (int64, error)
}

type NewsletterHandler struct {
	service Service
	limiter SignupLimiter
	logger  *zap.Logger
}

func NewNewsletterHandler(service Service, limiter SignupLimiter, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{service: service, limiter: limiter, logger: logger}
}

// GetStatus reports whether the caller receives the plus newsletter.
// Successful replies are bare {"subscribed": bool} objects.
func (h *NewsletterHandler) GetStatus(c *gin.Context) {
	subjectID := middleware.MustGetSubjectID(c)

	subscribed, err := h.service.Status(c.Request.Context(), subjectID)
	if err != nil {
		h.fail(c, subjectID, "failed to get newsletter status", err, http.StatusBadGateway)
		return
	}

	c.JSON(http.StatusOK, newsletter.StatusResponse{Subscribed: subscribed})
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	subjectID := middleware.MustGetSubjectID(c)

	if err := h.service.Subscribe(c.Request.Context(), subjectID, c.GetHeader("Referer")); err != nil {
		h.fail(c, subjectID, "failed to subscribe", err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, newsletter.StatusResponse{Subscribed: true})
}

func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	subjectID := middleware.MustGetSubjectID(c)

	if err := h.service.Unsubscribe(c.Request.Context(), subjectID); err != nil {
		h.fail(c, subjectID, "failed to unsubscribe", err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, newsletter.StatusResponse{Subscribed: false})
}

// Signup subscribes an email without an account (public endpoint).
func (h *NewsletterHandler) Signup(c *gin.Context) {
	var req newsletter.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	remaining, err := h.limiter.CheckNewsletterSignup(c.Request.Context(), c.ClientIP())
	switch {
	case errors.Is(err, xerrors.ErrRateLimited):
		response.TooManyRequests(c, "too many signup attempts", err)
		return
	case err != nil:
		h.logger.Error("newsletter rate limit check failed", zap.Error(err))
		response.Error(c, http.StatusServiceUnavailable, "please try again later", err)
		return
	}
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

	if err := h.service.Signup(c.Request.Context(), req.Email, c.GetHeader("Referer")); err != nil {
		h.logger.Error("newsletter signup failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to sign up", err)
		return
	}

	c.JSON(http.StatusCreated, newsletter.StatusResponse{Subscribed: true})
}

func (h *NewsletterHandler) fail(c *gin.Context, subjectID, msg string, err error, upstreamStatus int) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, xerrors.ErrUpstream):
		status = upstreamStatus
	}

	h.logger.Error(msg, zap.String("subject_id", subjectID), zap.Error(err))
	response.Error(c, status, msg, err)
}
