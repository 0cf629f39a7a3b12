// internal/service/newsletter/service.go
package newsletter

import (
	"context"
	"fmt"

	"plus-service/internal/domain/settings"
	"plus-service/internal/domain/user"

	"go.uber.org/zap"
)

type Basket interface {
	IsSubscribed(ctx context.Context, email string) (bool, error)
	Subscribe(ctx context.Context, email, sourceURL string) error
	Unsubscribe(ctx context.Context, email string) error
}

type UserFinder interface {
	FindBySubjectID(ctx context.Context, subjectID string) (*user.User, error)
}

type SettingsStore interface {
	FindBySubjectID(ctx context.Context, subjectID string) (*settings.Settings, error)
	SetNewsletter(ctx context.Context, subjectID string, subscribed bool) (*settings.Settings, error)
}

// NewsletterService keeps the stored mdnplus_newsletter flag in step with
// the newsletter service.
type NewsletterService struct {
	basket   Basket
	users    UserFinder
	settings SettingsStore
	logger   *zap.Logger
}

func NewNewsletterService(basket Basket, users UserFinder, settingsStore SettingsStore, logger *zap.Logger) *NewsletterService {
	return &NewsletterService{
		basket:   basket,
		users:    users,
		settings: settingsStore,
		logger:   logger,
	}
}

// Status asks the newsletter service and syncs the stored flag. A settings
// row is only created when the answer is "subscribed".
func (s *NewsletterService) Status(ctx context.Context, subjectID string) (bool, error) {
	u, err := s.users.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return false, err
	}

	subscribed, err := s.basket.IsSubscribed(ctx, u.Email)
	if err != nil {
		return false, fmt.Errorf("failed to look up newsletter status: %w", err)
	}

	current, err := s.settings.FindBySubjectID(ctx, subjectID)
	if err != nil {
		s.logger.Warn("newsletter sync skipped", zap.String("subject_id", subjectID), zap.Error(err))
		return subscribed, nil
	}
	if (current == nil && subscribed) || (current != nil && current.MdnplusNewsletter != subscribed) {
		if _, err := s.settings.SetNewsletter(ctx, subjectID, subscribed); err != nil {
			s.logger.Warn("newsletter sync failed", zap.String("subject_id", subjectID), zap.Error(err))
		}
	}
	return subscribed, nil
}

func (s *NewsletterService) Subscribe(ctx context.Context, subjectID, sourceURL string) error {
	u, err := s.users.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return err
	}
	if err := s.basket.Subscribe(ctx, u.Email, sourceURL); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	if _, err := s.settings.SetNewsletter(ctx, subjectID, true); err != nil {
		return err
	}

	s.logger.Info("newsletter subscribed", zap.String("subject_id", subjectID))
	return nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, subjectID string) error {
	u, err := s.users.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return err
	}
	if err := s.basket.Unsubscribe(ctx, u.Email); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if _, err := s.settings.SetNewsletter(ctx, subjectID, false); err != nil {
		return err
	}

	s.logger.Info("newsletter unsubscribed", zap.String("subject_id", subjectID))
	return nil
}

// Signup subscribes an email that belongs to no account.
func (s *NewsletterService) Signup(ctx context.Context, email, sourceURL string) error {
	if err := s.basket.Subscribe(ctx, email, sourceURL); err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}
