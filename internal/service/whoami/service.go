// internal/service/whoami/service.go
package whoami

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"plus-service/internal/domain/user"
	"plus-service/internal/domain/whoami"
	xerrors "plus-service/internal/pkg/errors"
	"plus-service/internal/pkg/geo"
	"plus-service/internal/pkg/session"
	"plus-service/internal/service/entitlement"

	"go.uber.org/zap"
)

// State is a step of identity resolution.
type State string

const (
	StateStart                 State = "START"
	StateGeoResolved           State = "GEO_RESOLVED"
	StateSessionChecked        State = "SESSION_CHECKED"
	StateIdentityLoaded        State = "IDENTITY_LOADED"
	StateEntitlementAggregated State = "ENTITLEMENT_AGGREGATED"
	StateAnonymousDone         State = "ANONYMOUS_DONE"
	StateAuthenticatedDone     State = "AUTHENTICATED_DONE"
	StateFailed                State = "FAILED"
)

type IdentityLoader interface {
	Load(ctx context.Context, subjectID string) (*user.User, error)
}

type EntitlementAggregator interface {
	Aggregate(ctx context.Context, u *user.User) *entitlement.Summary
}

// Result is a finished resolution. Response is nil only in StateFailed.
type Result struct {
	Response *whoami.Response
	State    State
	Outcome  session.Outcome
}

type Service struct {
	identity     IdentityLoader
	entitlements EntitlementAggregator
	logger       *zap.Logger
}

func NewService(identity IdentityLoader, entitlements EntitlementAggregator, logger *zap.Logger) *Service {
	return &Service{
		identity:     identity,
		entitlements: entitlements,
		logger:       logger,
	}
}

// Resolve builds the identity summary for one request. It returns an error
// only when storage could not tell who the caller is.
func (s *Service) Resolve(ctx context.Context, headers http.Header, outcome session.Outcome) (*Result, error) {
	res := &Result{State: StateStart, Outcome: outcome}
	defer s.record(res)

	g := geo.Resolve(headers)
	res.State = StateGeoResolved

	subjectID, ok := authenticatedSubject(outcome)
	res.State = StateSessionChecked
	if !ok {
		res.Response = whoami.Anonymous(g)
		res.State = StateAnonymousDone
		return res, nil
	}

	u, err := s.identity.Load(ctx, subjectID)
	if errors.Is(err, xerrors.ErrNotFound) {
		res.Response = whoami.Anonymous(g)
		res.State = StateAnonymousDone
		return res, nil
	}
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("failed to load identity: %w", err)
	}
	res.State = StateIdentityLoaded

	sum := s.entitlements.Aggregate(ctx, u)
	if sum.SettingsErr != nil {
		res.State = StateFailed
		return res, xerrors.Mark(fmt.Errorf("failed to load settings: %w", sum.SettingsErr), xerrors.ErrStorageUnavailable)
	}
	res.State = StateEntitlementAggregated

	res.Response = authenticated(g, u, sum)
	res.State = StateAuthenticatedDone
	return res, nil
}

// authenticatedSubject is the only place that decides which session
// outcomes authenticate.
func authenticatedSubject(outcome session.Outcome) (string, bool) {
	switch o := outcome.(type) {
	case session.ValidCurrent:
		return o.SubjectID, true
	case session.Absent, session.LegacyRejected, session.InvalidCurrent:
		return "", false
	default:
		panic(fmt.Sprintf("whoami: unhandled session outcome %T", outcome))
	}
}

func authenticated(g geo.Result, u *user.User, sum *entitlement.Summary) *whoami.Response {
	username := u.Username
	email := u.Email
	isSubscriber := sum.IsSubscriber
	subType := sum.SubscriptionType
	nl := sum.Newsletter

	return &whoami.Response{
		IsAuthenticated:      true,
		Geo:                  g,
		Username:             &username,
		Email:                &email,
		AvatarURL:            u.AvatarURL,
		IsSubscriber:         &isSubscriber,
		SubscriptionType:     &subType,
		NewsletterSubscribed: &nl,
		Settings:             sum.Settings,
	}
}

func (s *Service) record(res *Result) {
	fields := []zap.Field{
		zap.String("state", string(res.State)),
	}
	if res.Outcome != nil {
		fields = append(fields, zap.String("session", res.Outcome.Kind()))
	}
	switch o := res.Outcome.(type) {
	case session.LegacyRejected:
		fields = append(fields, zap.String("legacy_shape", string(o.Shape)))
	case session.InvalidCurrent:
		fields = append(fields, zap.String("invalid_reason", string(o.Reason)))
	}

	if res.State == StateFailed {
		s.logger.Error("whoami resolution failed", fields...)
		return
	}
	s.logger.Info("whoami resolved", fields...)
}
