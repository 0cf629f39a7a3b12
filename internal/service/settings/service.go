// internal/service/settings/service.go
package settings

import (
	"context"
	"fmt"
	"strings"

	"plus-service/internal/domain/settings"
	xerrors "plus-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Store interface {
	FindBySubjectID(ctx context.Context, subjectID string) (*settings.Settings, error)
	Upsert(ctx context.Context, subjectID string, req *settings.UpdateRequest) (*settings.Settings, error)
}

type SettingsService struct {
	store   Store
	locales map[string]string
	logger  *zap.Logger
}

// NewSettingsService accepts locale overrides from supportedLocales only.
// Matching ignores case and the stored value uses the canonical spelling.
func NewSettingsService(store Store, supportedLocales []string, logger *zap.Logger) *SettingsService {
	locales := make(map[string]string, len(supportedLocales))
	for _, l := range supportedLocales {
		l = strings.TrimSpace(l)
		if l != "" {
			locales[strings.ToLower(l)] = l
		}
	}
	return &SettingsService{store: store, locales: locales, logger: logger}
}

// Get returns nil when the user never saved settings.
func (s *SettingsService) Get(ctx context.Context, subjectID string) (*settings.Settings, error) {
	return s.store.FindBySubjectID(ctx, subjectID)
}

func (s *SettingsService) Update(ctx context.Context, subjectID string, req *settings.UpdateRequest) (*settings.Settings, error) {
	if req.LocaleOverride.Set && req.LocaleOverride.Value != nil {
		canonical, ok := s.locales[strings.ToLower(strings.TrimSpace(*req.LocaleOverride.Value))]
		if !ok {
			return nil, xerrors.Mark(fmt.Errorf("unsupported locale %q", *req.LocaleOverride.Value), xerrors.ErrInvalidInput)
		}
		req.LocaleOverride.Value = &canonical
	}

	saved, err := s.store.Upsert(ctx, subjectID, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("settings saved", zap.String("subject_id", subjectID))
	return saved, nil
}
