package session

import (
	"context"
	"testing"
	"time"

	xerrors "plus-service/internal/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRevocationStore_RevokeAndCheck(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation should expire with the token")
}

func TestRevocationStore_ExpiredTokenIsNoop(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRevocationStore(client)

	require.NoError(t, store.Revoke(context.Background(), "jti-old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("session:revoked:jti-old"))
}

func TestRevocationStore_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRevocationStore(client)
	mr.Close()

	_, err := store.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestRateLimiter_NewsletterSignup(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRateLimiter(client, 2, time.Minute)
	ctx := context.Background()

	remaining, err := limiter.CheckNewsletterSignup(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)

	remaining, err = limiter.CheckNewsletterSignup(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	_, err = limiter.CheckNewsletterSignup(ctx, "10.0.0.1")
	assert.ErrorIs(t, err, xerrors.ErrRateLimited)

	_, err = limiter.CheckNewsletterSignup(ctx, "10.0.0.2")
	assert.NoError(t, err, "limits are per ip")

	mr.FastForward(2 * time.Minute)
	_, err = limiter.CheckNewsletterSignup(ctx, "10.0.0.1")
	assert.NoError(t, err, "window should reset")
}

func TestRateLimiter_StoreDown(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRateLimiter(client, 2, time.Minute)
	mr.Close()

	_, err := limiter.CheckNewsletterSignup(context.Background(), "10.0.0.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, xerrors.ErrSessionStore)
	assert.NotErrorIs(t, err, xerrors.ErrRateLimited)
}
