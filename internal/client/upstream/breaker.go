// internal/client/upstream/breaker.go
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	xerrors "plus-service/internal/pkg/errors"

	"github.com/sony/gobreaker"
)

// StatusError is a non-success reply from a collaborator.
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.Code)
}

// NewBreaker trips after 60% of at least 3 calls failed and probes again
// after timeout. A call abandoned by its own caller says nothing about the
// collaborator and is not counted as a failure.
func NewBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// Execute runs fn through cb. Every failure, an open breaker included, is
// marked xerrors.ErrUpstream.
func Execute(cb *gobreaker.CircuitBreaker, fn func() (interface{}, error)) (interface{}, error) {
	v, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, xerrors.Mark(fmt.Errorf("%s: %w", cb.Name(), err), xerrors.ErrUpstream)
		}
		return nil, xerrors.Mark(err, xerrors.ErrUpstream)
	}
	return v, nil
}

// NewHTTPClient returns a client bounded by timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
