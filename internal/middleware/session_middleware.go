// internal/middleware/session_middleware.go
package middleware

import (
	"context"
	"net/http"

	xerrors "plus-service/internal/pkg/errors"
	"plus-service/internal/pkg/response"
	"plus-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxSessionOutcome = "session_outcome"
	ctxSubjectID      = "subject_id"
)

type SessionDecoder interface {
	Decode(raw string) session.Outcome
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type SessionMiddleware struct {
	decoder     SessionDecoder
	revocations RevocationChecker
	cookieName  string
	logger      *zap.Logger
}

func NewSessionMiddleware(decoder SessionDecoder, revocations RevocationChecker, cookieName string, logger *zap.Logger) *SessionMiddleware {
	if cookieName == "" {
		cookieName = session.DefaultCookieName
	}
	return &SessionMiddleware{
		decoder:     decoder,
		revocations: revocations,
		cookieName:  cookieName,
		logger:      logger,
	}
}

// Resolve decodes the session cookie of every request and stores the
// outcome in the context. It never rejects a request for lacking a
// session, but fails with 503 when revocation cannot be checked.
func (m *SessionMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(m.cookieName)
		outcome := m.decoder.Decode(raw)

		if valid, ok := outcome.(session.ValidCurrent); ok {
			revoked, err := m.revocations.IsRevoked(c.Request.Context(), valid.TokenID)
			if err != nil {
				m.logger.Error("session revocation check failed",
					zap.String("subject_id", valid.SubjectID),
					zap.Error(err),
				)
				response.Error(c, http.StatusServiceUnavailable, "session store unavailable", err)
				return
			}
			if revoked {
				outcome = session.InvalidCurrent{Reason: session.ReasonRevoked}
			} else {
				c.Set(ctxSubjectID, valid.SubjectID)
			}
		}

		c.Set(ctxSessionOutcome, outcome)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid current session.
// MUST be used after Resolve()
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetValidSession(c); !ok {
			response.Unauthorized(c, "authentication required", xerrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
