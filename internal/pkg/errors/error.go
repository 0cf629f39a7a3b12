package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimited        = errors.New("too many requests")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSessionStore       = errors.New("session store unavailable")
	ErrUpstream           = errors.New("upstream service unavailable")
	ErrInvalidToken       = errors.New("invalid identity provider token")
)

// Mark tags err with a sentinel so callers can classify it with errors.Is
// while the original cause stays in the chain.
func Mark(err, sentinel error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
