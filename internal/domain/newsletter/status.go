// internal/domain/newsletter/status.go
package newsletter

import (
	"encoding/json"
)

// Status is a newsletter answer that may be unknown when the newsletter
// service could not be reached. Unknown encodes as JSON null.
type Status int

const (
	StatusUnknown Status = iota
	StatusSubscribed
	StatusNotSubscribed
)

// StatusOf converts a confirmed answer.
func StatusOf(subscribed bool) Status {
	if subscribed {
		return StatusSubscribed
	}
	return StatusNotSubscribed
}

func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusSubscribed:
		return []byte("true"), nil
	case StatusNotSubscribed:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// StatusResponse is returned by the newsletter endpoints.
type StatusResponse struct {
	Subscribed bool `json:"subscribed"`
}

// SignupRequest is the anonymous newsletter signup body.
type SignupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

var _ json.Marshaler = Status(0)
