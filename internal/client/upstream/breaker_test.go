package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xerrors "plus-service/internal/pkg/errors"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_MarksFailures(t *testing.T) {
	cb := NewBreaker("test", time.Minute)

	_, err := Execute(cb, func() (interface{}, error) {
		return nil, &StatusError{Service: "test", Code: 503}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ErrUpstream)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 503, se.Code)
}

func TestExecute_OpensAfterRepeatedFailures(t *testing.T) {
	cb := NewBreaker("test", time.Minute)
	calls := 0
	fail := func() (interface{}, error) {
		calls++
		return nil, errors.New("boom")
	}

	for i := 0; i < 3; i++ {
		_, _ = Execute(cb, fail)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := Execute(cb, fail)
	assert.ErrorIs(t, err, xerrors.ErrUpstream)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls, "open breaker must not call through")
}

func TestExecute_Success(t *testing.T) {
	cb := NewBreaker("test", time.Minute)
	v, err := Execute(cb, func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestExecute_CallerCancellationDoesNotTrip(t *testing.T) {
	cb := NewBreaker("test", time.Minute)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()
	client := NewHTTPClient(5 * time.Second)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(10*time.Millisecond, cancel)
		_, err := Execute(cb, func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			resp.Body.Close()
			return nil, nil
		})
		cancel()
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	v, err := Execute(cb, func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestExecute_DeadlineStillCountsAsFailure(t *testing.T) {
	cb := NewBreaker("test", time.Minute)
	for i := 0; i < 3; i++ {
		_, _ = Execute(cb, func() (interface{}, error) { return nil, context.DeadlineExceeded })
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
