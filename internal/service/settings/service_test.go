package settings

import (
	"context"
	"testing"

	"plus-service/internal/domain/settings"
	xerrors "plus-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	rows map[string]*settings.Settings
}

func (m *memStore) FindBySubjectID(ctx context.Context, subjectID string) (*settings.Settings, error) {
	return m.rows[subjectID], nil
}

func (m *memStore) Upsert(ctx context.Context, subjectID string, req *settings.UpdateRequest) (*settings.Settings, error) {
	s, ok := m.rows[subjectID]
	if !ok {
		s = &settings.Settings{SubjectID: subjectID}
		m.rows[subjectID] = s
	}
	if req.LocaleOverride.Set {
		s.LocaleOverride = req.LocaleOverride.Value
	}
	if req.MdnplusNewsletter != nil {
		s.MdnplusNewsletter = *req.MdnplusNewsletter
	}
	if req.NoAds != nil {
		s.NoAds = *req.NoAds
	}
	if req.MultipleCollections != nil {
		s.MultipleCollections = *req.MultipleCollections
	}
	return s, nil
}

func newService() (*SettingsService, *memStore) {
	store := &memStore{rows: map[string]*settings.Settings{}}
	return NewSettingsService(store, []string{"en-US", "zh-TW", "fr"}, zap.NewNop()), store
}

func TestUpdate_LocaleOverride(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	got, err := svc.Get(ctx, "TEST_SUB")
	require.NoError(t, err)
	assert.Nil(t, got)

	locale := "ZH-tw"
	saved, err := svc.Update(ctx, "TEST_SUB", &settings.UpdateRequest{
		LocaleOverride: settings.NullableString{Set: true, Value: &locale},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.LocaleOverride)
	assert.Equal(t, "zh-TW", *saved.LocaleOverride)
	assert.False(t, saved.MdnplusNewsletter)

	saved, err = svc.Update(ctx, "TEST_SUB", &settings.UpdateRequest{
		LocaleOverride: settings.NullableString{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, saved.LocaleOverride)
}

func TestUpdate_RejectsUnsupportedLocale(t *testing.T) {
	svc, store := newService()
	locale := "xx-YY"

	_, err := svc.Update(context.Background(), "TEST_SUB", &settings.UpdateRequest{
		LocaleOverride: settings.NullableString{Set: true, Value: &locale},
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Empty(t, store.rows)
}

func TestUpdate_PartialKeepsOtherFields(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	on := true
	locale := "fr"

	_, err := svc.Update(ctx, "TEST_SUB", &settings.UpdateRequest{
		LocaleOverride: settings.NullableString{Set: true, Value: &locale},
	})
	require.NoError(t, err)

	saved, err := svc.Update(ctx, "TEST_SUB", &settings.UpdateRequest{NoAds: &on})
	require.NoError(t, err)
	assert.True(t, saved.NoAds)
	require.NotNil(t, saved.LocaleOverride)
	assert.Equal(t, "fr", *saved.LocaleOverride)
}
