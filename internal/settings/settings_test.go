package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestServiceDefaults(t *testing.T) {
	svc := NewService(NewMemoryStorage(), nil)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FontSettings{ArabicFontFamily: "arabic", ArabicFontSize: 20, EnglishFontSize: 16}, got)
}

func TestServicePartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStorage(), nil)

	got, err := svc.Update(ctx, FontSettingsPatch{ArabicFontSize: ptr(28)})
	require.NoError(t, err)
	assert.Equal(t, FontSettings{ArabicFontFamily: "arabic", ArabicFontSize: 28, EnglishFontSize: 16}, got)

	got, err = svc.Update(ctx, FontSettingsPatch{ArabicFontFamily: ptr("Cairo")})
	require.NoError(t, err)
	assert.Equal(t, FontSettings{ArabicFontFamily: "Cairo", ArabicFontSize: 28, EnglishFontSize: 16}, got)

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestServiceRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStorage(), nil)

	_, err := svc.Update(ctx, FontSettingsPatch{ArabicFontFamily: ptr("Comic Sans")})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	_, err = svc.Update(ctx, FontSettingsPatch{ArabicFontSize: ptr(40)})
	assert.Error(t, err)
	_, err = svc.Update(ctx, FontSettingsPatch{EnglishFontSize: ptr(11)})
	assert.Error(t, err)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestServiceReset(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStorage(), nil)

	_, err := svc.Update(ctx, FontSettingsPatch{EnglishFontSize: ptr(22)})
	require.NoError(t, err)

	got, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)

	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestServiceUnreadableRecordFallsBack(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, StorageKey, []byte("{broken")))

	got, err := NewService(storage, nil).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)

	// older records without every field keep the defaults for the rest
	require.NoError(t, storage.Set(ctx, StorageKey, []byte(`{"englishFontSize": 18}`)))
	got, err = NewService(storage, nil).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, FontSettings{ArabicFontFamily: "arabic", ArabicFontSize: 20, EnglishFontSize: 18}, got)
}

func TestSQLitePersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	storage, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = NewService(storage, nil).Update(ctx, FontSettingsPatch{ArabicFontFamily: ptr("Noto Naskh Arabic")})
	require.NoError(t, err)
	require.NoError(t, storage.Close())

	storage, err = OpenSQLite(path)
	require.NoError(t, err)
	defer storage.Close()

	got, err := NewService(storage, nil).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Noto Naskh Arabic", got.ArabicFontFamily)
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	storage, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer storage.Close()

	_, ok, err := storage.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, "k", []byte("one")))
	require.NoError(t, storage.Set(ctx, "k", []byte("two")))
	val, ok, err := storage.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("two"), val)

	require.NoError(t, storage.Delete(ctx, "k"))
	_, ok, err = storage.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
