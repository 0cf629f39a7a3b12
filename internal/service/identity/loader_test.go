package identity

import (
	"context"
	"errors"
	"testing"

	"plus-service/internal/domain/user"
	xerrors "plus-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	u   *user.User
	err error
}

func (f *fakeUsers) FindBySubjectID(ctx context.Context, subjectID string) (*user.User, error) {
	return f.u, f.err
}

func TestLoader_Load(t *testing.T) {
	want := &user.User{SubjectID: "TEST_SUB", Username: "TEST_SUB"}
	got, err := NewLoader(&fakeUsers{u: want}).Load(context.Background(), "TEST_SUB")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeUsers
		notFound   bool
		storageErr bool
	}{
		{"not found", &fakeUsers{err: xerrors.ErrNotFound}, true, false},
		{"nil without error", &fakeUsers{}, true, false},
		{"marked storage error", &fakeUsers{err: xerrors.Mark(errors.New("down"), xerrors.ErrStorageUnavailable)}, false, true},
		{"unmarked error", &fakeUsers{err: errors.New("conn reset")}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.store).Load(context.Background(), "TEST_SUB")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, xerrors.ErrNotFound))
			assert.Equal(t, tt.storageErr, errors.Is(err, xerrors.ErrStorageUnavailable))
		})
	}
}
