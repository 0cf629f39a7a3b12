// internal/service/identity/loader.go
package identity

import (
	"context"
	"errors"
	"fmt"

	"plus-service/internal/domain/user"
	xerrors "plus-service/internal/pkg/errors"
)

type UserStore interface {
	FindBySubjectID(ctx context.Context, subjectID string) (*user.User, error)
}

// Loader resolves a verified subject id to its stored user record.
type Loader struct {
	users UserStore
}

func NewLoader(users UserStore) *Loader {
	return &Loader{users: users}
}

// Load returns xerrors.ErrNotFound when the subject has no record and an
// error marked xerrors.ErrStorageUnavailable when storage cannot answer.
// The two must never be confused: only the first is safe to treat as
// anonymous.
func (l *Loader) Load(ctx context.Context, subjectID string) (*user.User, error) {
	u, err := l.users.FindBySubjectID(ctx, subjectID)
	switch {
	case err == nil && u == nil:
		return nil, xerrors.ErrNotFound
	case err == nil:
		return u, nil
	case errors.Is(err, xerrors.ErrNotFound):
		return nil, xerrors.ErrNotFound
	case errors.Is(err, xerrors.ErrStorageUnavailable):
		return nil, err
	default:
		return nil, xerrors.Mark(fmt.Errorf("failed to load user: %w", err), xerrors.ErrStorageUnavailable)
	}
}
