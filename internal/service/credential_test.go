package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/repository/memory"
)

func newCredentialStore() *CredentialStore {
	store := NewCredentialStore(memory.New().Admins())
	store.now = func() time.Time { return fixedNow }
	return store
}

func TestCredentialStore_UpsertThenVerify(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore()

	created, err := store.Upsert(ctx, "A@X.com ", "Secret123!", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", created.Email)
	assert.NotEmpty(t, created.ID)

	t.Run("correct password", func(t *testing.T) {
		profile, err := store.Verify(ctx, "a@x.com", "Secret123!")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, created.ID, profile.ID)
		assert.Equal(t, "Admin", profile.Name)
		require.NotNil(t, profile.LastLoginAt)
		assert.Equal(t, fixedNow, *profile.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		profile, err := store.Verify(ctx, "a@x.com", "wrong-password")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("unknown email", func(t *testing.T) {
		profile, err := store.Verify(ctx, "nobody@x.com", "Secret123!")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("upsert again replaces the password", func(t *testing.T) {
		again, err := store.Upsert(ctx, "a@x.com", "Another123!", "")
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)
		assert.Equal(t, "Admin", again.Name)

		profile, err := store.Verify(ctx, "a@x.com", "Secret123!")
		require.NoError(t, err)
		assert.Nil(t, profile)

		profile, err = store.Verify(ctx, "a@x.com", "Another123!")
		require.NoError(t, err)
		assert.NotNil(t, profile)
	})
}

func TestCredentialStore_UpsertValidation(t *testing.T) {
	store := newCredentialStore()

	_, err := store.Upsert(context.Background(), "not-an-email", "short", "")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email address",
		"password": "must be at least 8 characters",
	}, appErr.Details)
}

func TestCredentialStore_PasswordTooLong(t *testing.T) {
	store := newCredentialStore()
	ctx := context.Background()
	long := strings.Repeat("p", MaxPasswordBytes+1)

	_, err := store.Upsert(ctx, "a@x.com", long, "A")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, map[string]string{"password": "must be at most 72 bytes"}, appErr.Details)

	_, err = store.Upsert(ctx, "a@x.com", strings.Repeat("p", MaxPasswordBytes), "A")
	require.NoError(t, err)

	err = store.UpdatePassword(ctx, "a@x.com", long)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, map[string]string{"newPassword": "must be at most 72 bytes"}, appErr.Details)
}

func TestHashError(t *testing.T) {
	err := hashError("password", bcrypt.ErrPasswordTooLong)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))

	err = hashError("password", errors.New("rand failure"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInternal))
}

func TestCredentialStore_UpdateEmail(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore()
	_, err := store.Upsert(ctx, "a@x.com", "Secret123!", "Admin")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "b@x.com", "Secret123!", "Other")
	require.NoError(t, err)

	t.Run("unknown current email", func(t *testing.T) {
		err := store.UpdateEmail(ctx, "missing@x.com", "c@x.com")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})

	t.Run("new email already taken", func(t *testing.T) {
		err := store.UpdateEmail(ctx, "a@x.com", "b@x.com")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeAlreadyExists))
	})

	t.Run("same email is a no-op", func(t *testing.T) {
		assert.NoError(t, store.UpdateEmail(ctx, "a@x.com", "A@x.com"))
	})

	t.Run("changes the login email", func(t *testing.T) {
		require.NoError(t, store.UpdateEmail(ctx, "a@x.com", "new@x.com"))

		profile, err := store.Verify(ctx, "new@x.com", "Secret123!")
		require.NoError(t, err)
		assert.NotNil(t, profile)

		profile, err = store.Verify(ctx, "a@x.com", "Secret123!")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})
}

func TestCredentialStore_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore()
	_, err := store.Upsert(ctx, "a@x.com", "Secret123!", "Admin")
	require.NoError(t, err)

	err = store.UpdatePassword(ctx, "missing@x.com", "Another123!")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	err = store.UpdatePassword(ctx, "a@x.com", "short")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))

	require.NoError(t, store.UpdatePassword(ctx, "a@x.com", "Another123!"))
	profile, err := store.Verify(ctx, "a@x.com", "Another123!")
	require.NoError(t, err)
	assert.NotNil(t, profile)
}

func TestCredentialStore_EnsureSeed(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore()

	created, err := store.EnsureSeed(ctx, "a@x.com", "Secret123!", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.EnsureSeed(ctx, "other@x.com", "Secret123!", "Other")
	require.NoError(t, err)
	assert.False(t, created)

	profile, err := store.Verify(ctx, "other@x.com", "Secret123!")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
