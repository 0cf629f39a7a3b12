// internal/repository/postgres/settings_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"plus-service/internal/domain/settings"
	xerrors "plus-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type SettingsRepository struct {
	db DBTX
}

func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// FindBySubjectID returns nil, nil when the user never saved settings.
func (r *SettingsRepository) FindBySubjectID(ctx context.Context, subjectID string) (*settings.Settings, error) {
	query := `
		SELECT s.locale_override, s.mdnplus_newsletter, s.no_ads, s.multiple_collections, s.updated_at
		FROM settings s
		JOIN users u ON u.id = s.user_id
		WHERE u.fxa_uid = $1
	`

	s := settings.Settings{SubjectID: subjectID}
	err := r.db.QueryRow(ctx, query, subjectID).Scan(
		&s.LocaleOverride, &s.MdnplusNewsletter, &s.NoAds, &s.MultipleCollections, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Mark(fmt.Errorf("failed to find settings: %w", err), xerrors.ErrStorageUnavailable)
	}
	return &s, nil
}

// Upsert applies a partial update. The first write creates the row with
// false defaults for every flag not given. Returns xerrors.ErrNotFound
// when the subject has no user record.
func (r *SettingsRepository) Upsert(ctx context.Context, subjectID string, req *settings.UpdateRequest) (*settings.Settings, error) {
	query := `
		INSERT INTO settings (user_id, locale_override, mdnplus_newsletter, no_ads, multiple_collections)
		SELECT u.id, $2, COALESCE($4, FALSE), COALESCE($5, FALSE), COALESCE($6, FALSE)
		FROM users u
		WHERE u.fxa_uid = $1
		ON CONFLICT (user_id) DO UPDATE SET
			locale_override      = CASE WHEN $3 THEN EXCLUDED.locale_override ELSE settings.locale_override END,
			mdnplus_newsletter   = COALESCE($4, settings.mdnplus_newsletter),
			no_ads               = COALESCE($5, settings.no_ads),
			multiple_collections = COALESCE($6, settings.multiple_collections),
			updated_at           = NOW()
		RETURNING locale_override, mdnplus_newsletter, no_ads, multiple_collections, updated_at
	`

	s := settings.Settings{SubjectID: subjectID}
	err := r.db.QueryRow(ctx, query,
		subjectID,
		req.LocaleOverride.Value,
		req.LocaleOverride.Set,
		req.MdnplusNewsletter,
		req.NoAds,
		req.MultipleCollections,
	).Scan(&s.LocaleOverride, &s.MdnplusNewsletter, &s.NoAds, &s.MultipleCollections, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Mark(fmt.Errorf("failed to save settings: %w", err), xerrors.ErrStorageUnavailable)
	}
	return &s, nil
}

// SetNewsletter records the newsletter flag, creating the row if needed.
func (r *SettingsRepository) SetNewsletter(ctx context.Context, subjectID string, subscribed bool) (*settings.Settings, error) {
	return r.Upsert(ctx, subjectID, &settings.UpdateRequest{MdnplusNewsletter: &subscribed})
}
