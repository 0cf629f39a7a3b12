// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"plus-service/internal/domain/user"
	xerrors "plus-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, fxa_uid, username, email, avatar_url, is_subscriber, subscription_type, created_at, updated_at`

// FindBySubjectID returns xerrors.ErrNotFound when no user has the subject
// id. Any other failure is marked xerrors.ErrStorageUnavailable.
func (r *UserRepository) FindBySubjectID(ctx context.Context, subjectID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE fxa_uid = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, subjectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Mark(fmt.Errorf("failed to find user: %w", err), xerrors.ErrStorageUnavailable)
	}
	return u, nil
}

// Upsert creates the user on first login and refreshes the provider
// fields afterwards. The username is the subject id.
func (r *UserRepository) Upsert(ctx context.Context, p *user.Profile) (*user.User, error) {
	query := `
		INSERT INTO users (fxa_uid, username, email, avatar_url, is_subscriber, subscription_type)
		VALUES ($1, $1, $2, $3, $4, $5)
		ON CONFLICT (fxa_uid) DO UPDATE SET
			email             = EXCLUDED.email,
			avatar_url        = EXCLUDED.avatar_url,
			is_subscriber     = EXCLUDED.is_subscriber,
			subscription_type = EXCLUDED.subscription_type,
			updated_at        = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query,
		p.SubjectID, p.Email, p.AvatarURL, p.IsSubscriber, string(p.SubscriptionType),
	))
	if err != nil {
		return nil, xerrors.Mark(fmt.Errorf("failed to upsert user: %w", err), xerrors.ErrStorageUnavailable)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u       user.User
		subType string
	)
	err := row.Scan(
		&u.ID, &u.SubjectID, &u.Username, &u.Email, &u.AvatarURL,
		&u.IsSubscriber, &subType, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t, ok := user.ParseSubscriptionType(subType); ok {
		u.SubscriptionType = t
	} else {
		u.SubscriptionType = user.SubscriptionCore
	}
	return &u, nil
}
