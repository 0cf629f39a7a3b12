package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"plus-service/internal/domain/newsletter"
	"plus-service/internal/domain/settings"
	"plus-service/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriptions struct {
	entries []user.SubscriptionEntry
	err     error
	block   bool
}

func (f *fakeSubscriptions) Subscriptions(ctx context.Context, subjectID string) ([]user.SubscriptionEntry, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.entries, f.err
}

type fakeNewsletter struct {
	subscribed bool
	err        error
}

func (f *fakeNewsletter) IsSubscribed(ctx context.Context, email string) (bool, error) {
	return f.subscribed, f.err
}

type fakeSettings struct {
	s   *settings.Settings
	err error
}

func (f *fakeSettings) FindBySubjectID(ctx context.Context, subjectID string) (*settings.Settings, error) {
	return f.s, f.err
}

func testUser() *user.User {
	return &user.User{
		SubjectID:        "TEST_SUB",
		Username:         "TEST_SUB",
		Email:            "test@test.com",
		IsSubscriber:     true,
		SubscriptionType: user.SubscriptionPlus5Month,
	}
}

func newAggregator(subs SubscriptionSource, nl NewsletterSource, st SettingsStore) *Aggregator {
	return NewAggregator(subs, nl, st, Config{
		SubscriptionTimeout: 50 * time.Millisecond,
		NewsletterTimeout:   50 * time.Millisecond,
	}, zap.NewNop())
}

func TestAggregate_AllSucceed(t *testing.T) {
	locale := "zh-TW"
	a := newAggregator(
		&fakeSubscriptions{entries: []user.SubscriptionEntry{
			{Plan: "mdn_plus_5m", CreatedAt: time.Now()},
			{Plan: "mdn_plus_5y", CreatedAt: time.Now().Add(-time.Hour)},
		}},
		&fakeNewsletter{subscribed: true},
		&fakeSettings{s: &settings.Settings{LocaleOverride: &locale}},
	)

	sum := a.Aggregate(context.Background(), testUser())
	assert.True(t, sum.IsSubscriber)
	assert.Equal(t, user.SubscriptionPlus5Year, sum.SubscriptionType)
	assert.Equal(t, SourceLive, sum.SubscriptionSource)
	assert.Equal(t, newsletter.StatusSubscribed, sum.Newsletter)
	require.NotNil(t, sum.Settings)
	assert.NoError(t, sum.SettingsErr)
}

func TestAggregate_NoSubscriptionsIsCore(t *testing.T) {
	a := newAggregator(&fakeSubscriptions{}, &fakeNewsletter{}, &fakeSettings{})

	sum := a.Aggregate(context.Background(), testUser())
	assert.False(t, sum.IsSubscriber)
	assert.Equal(t, user.SubscriptionCore, sum.SubscriptionType)
	assert.Equal(t, newsletter.StatusNotSubscribed, sum.Newsletter)
	assert.Nil(t, sum.Settings)
}

func TestAggregate_SubscriptionFailureFallsBackToStored(t *testing.T) {
	a := newAggregator(&fakeSubscriptions{err: errors.New("down")}, &fakeNewsletter{subscribed: true}, &fakeSettings{})

	sum := a.Aggregate(context.Background(), testUser())
	assert.True(t, sum.IsSubscriber)
	assert.Equal(t, user.SubscriptionPlus5Month, sum.SubscriptionType)
	assert.Equal(t, SourceStored, sum.SubscriptionSource)
	assert.Equal(t, newsletter.StatusSubscribed, sum.Newsletter, "other lookups are unaffected")
}

func TestAggregate_SubscriptionTimeoutFallsBack(t *testing.T) {
	a := newAggregator(&fakeSubscriptions{block: true}, &fakeNewsletter{}, &fakeSettings{})

	start := time.Now()
	sum := a.Aggregate(context.Background(), testUser())
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, SourceStored, sum.SubscriptionSource)
}

func TestAggregate_NewsletterFailureIsUnknown(t *testing.T) {
	a := newAggregator(&fakeSubscriptions{}, &fakeNewsletter{err: errors.New("down")}, &fakeSettings{})

	sum := a.Aggregate(context.Background(), testUser())
	assert.Equal(t, newsletter.StatusUnknown, sum.Newsletter)
	assert.NotEqual(t, newsletter.StatusNotSubscribed, sum.Newsletter)
}

func TestAggregate_SettingsErrorIsCaptured(t *testing.T) {
	a := newAggregator(&fakeSubscriptions{}, &fakeNewsletter{subscribed: true}, &fakeSettings{err: errors.New("db down")})

	sum := a.Aggregate(context.Background(), testUser())
	assert.Error(t, sum.SettingsErr)
	assert.Nil(t, sum.Settings)
	assert.Equal(t, newsletter.StatusSubscribed, sum.Newsletter)
	assert.Equal(t, SourceLive, sum.SubscriptionSource)
}
