// internal/service/entitlement/aggregator.go
package entitlement

import (
	"context"
	"time"

	"plus-service/internal/domain/newsletter"
	"plus-service/internal/domain/settings"
	"plus-service/internal/domain/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SubscriptionSource interface {
	Subscriptions(ctx context.Context, subjectID string) ([]user.SubscriptionEntry, error)
}

type NewsletterSource interface {
	IsSubscribed(ctx context.Context, email string) (bool, error)
}

type SettingsStore interface {
	FindBySubjectID(ctx context.Context, subjectID string) (*settings.Settings, error)
}

// Source tells where the subscription fields came from.
type Source string

const (
	SourceLive   Source = "live"
	SourceStored Source = "stored"
)

type Config struct {
	SubscriptionTimeout time.Duration
	NewsletterTimeout   time.Duration
}

// Summary is the merged entitlement state of one user. SettingsErr is set
// when the settings row could not be read; the other fields are still
// valid in that case.
type Summary struct {
	IsSubscriber       bool
	SubscriptionType   user.SubscriptionType
	SubscriptionSource Source
	Newsletter         newsletter.Status
	Settings           *settings.Settings
	SettingsErr        error
}

type Aggregator struct {
	subscriptions SubscriptionSource
	newsletters   NewsletterSource
	settings      SettingsStore
	cfg           Config
	logger        *zap.Logger
}

func NewAggregator(
	subscriptions SubscriptionSource,
	newsletters NewsletterSource,
	settingsStore SettingsStore,
	cfg Config,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		subscriptions: subscriptions,
		newsletters:   newsletters,
		settings:      settingsStore,
		cfg:           cfg,
		logger:        logger,
	}
}

// Aggregate runs the three lookups concurrently. Each one records its own
// outcome so that one failing never affects the others.
func (a *Aggregator) Aggregate(ctx context.Context, u *user.User) *Summary {
	sum := &Summary{}
	var g errgroup.Group

	g.Go(func() error {
		sum.SubscriptionType, sum.IsSubscriber, sum.SubscriptionSource = a.subscription(ctx, u)
		return nil
	})
	g.Go(func() error {
		sum.Newsletter = a.newsletter(ctx, u)
		return nil
	})
	g.Go(func() error {
		sum.Settings, sum.SettingsErr = a.settings.FindBySubjectID(ctx, u.SubjectID)
		return nil
	})

	_ = g.Wait()
	return sum
}

func (a *Aggregator) subscription(ctx context.Context, u *user.User) (user.SubscriptionType, bool, Source) {
	ctx, cancel := withTimeout(ctx, a.cfg.SubscriptionTimeout)
	defer cancel()

	entries, err := a.subscriptions.Subscriptions(ctx, u.SubjectID)
	if err != nil {
		a.logger.Warn("subscription lookup failed, using stored flags",
			zap.String("subject_id", u.SubjectID),
			zap.Error(err),
		)
		stored := u.SubscriptionType
		if stored == "" {
			stored = user.SubscriptionCore
		}
		return stored, u.IsSubscriber, SourceStored
	}

	best := user.BestSubscription(entries)
	return best, best.IsPaid(), SourceLive
}

func (a *Aggregator) newsletter(ctx context.Context, u *user.User) newsletter.Status {
	if u.Email == "" {
		return newsletter.StatusUnknown
	}

	ctx, cancel := withTimeout(ctx, a.cfg.NewsletterTimeout)
	defer cancel()

	subscribed, err := a.newsletters.IsSubscribed(ctx, u.Email)
	if err != nil {
		a.logger.Warn("newsletter lookup failed",
			zap.String("subject_id", u.SubjectID),
			zap.Error(err),
		)
		return newsletter.StatusUnknown
	}
	return newsletter.StatusOf(subscribed)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
