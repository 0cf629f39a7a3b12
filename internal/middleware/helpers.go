// internal/middleware/helpers.go
package middleware

import (
	"plus-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// GetSessionOutcome returns the decoded session of the request, or Absent
// when the session middleware did not run.
func GetSessionOutcome(c *gin.Context) session.Outcome {
	v, exists := c.Get(ctxSessionOutcome)
	if !exists {
		return session.Absent{}
	}
	outcome, ok := v.(session.Outcome)
	if !ok {
		return session.Absent{}
	}
	return outcome
}

// GetValidSession returns the current session if it authenticates.
func GetValidSession(c *gin.Context) (session.ValidCurrent, bool) {
	valid, ok := GetSessionOutcome(c).(session.ValidCurrent)
	return valid, ok
}

// GetSubjectID gets the authenticated subject id from context
func GetSubjectID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ctxSubjectID)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// MustGetSubjectID gets the subject id from context or panics
func MustGetSubjectID(c *gin.Context) string {
	id, exists := GetSubjectID(c)
	if !exists {
		panic("subject_id not found in context")
	}
	return id
}
