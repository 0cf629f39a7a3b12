package newsletter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	xerrors "plus-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, APIKey: "key", NewsletterID: "mdnplus", Timeout: time.Second})
}

func TestClient_IsSubscribed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news/lookup-user/", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))

		switch r.URL.Query().Get("email") {
		case "yes@test.com":
			_, _ = w.Write([]byte(`{"status":"ok","token":"t1","newsletters":["other","mdnplus"]}`))
		case "other@test.com":
			_, _ = w.Write([]byte(`{"status":"ok","token":"t2","newsletters":["other"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()

	ok, err := c.IsSubscribed(ctx, "yes@test.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsSubscribed(ctx, "other@test.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.IsSubscribed(ctx, "nobody@test.com")
	require.NoError(t, err, "404 is a confirmed answer")
	assert.False(t, ok)
}

func TestClient_IsSubscribed_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).IsSubscribed(context.Background(), "yes@test.com")
	assert.ErrorIs(t, err, xerrors.ErrUpstream)
}

func TestClient_SubscribeAndUnsubscribe(t *testing.T) {
	var subscribed, unsubscribed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/news/subscribe/":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "yes@test.com", r.PostForm.Get("email"))
			assert.Equal(t, "mdnplus", r.PostForm.Get("newsletters"))
			subscribed = true
		case r.Method == http.MethodGet && r.URL.Path == "/news/lookup-user/":
			_, _ = w.Write([]byte(`{"status":"ok","token":"tok-1","newsletters":["mdnplus"]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/news/unsubscribe/tok-1/":
			unsubscribed = true
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	require.NoError(t, c.Subscribe(context.Background(), "yes@test.com", ""))
	require.NoError(t, c.Unsubscribe(context.Background(), "yes@test.com"))
	assert.True(t, subscribed)
	assert.True(t, unsubscribed)
}

func TestClient_Subscribe_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Subscribe(context.Background(), "x@test.com", "")
	assert.ErrorIs(t, err, xerrors.ErrUpstream)
}
