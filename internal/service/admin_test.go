package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository/memory"
	"github.com/folio-labs/portfolio-server/internal/session"
)

type adminFixture struct {
	svc       *AdminService
	authority *session.Authority
	db        *memory.DB
	admin     *model.AdminProfile
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db := memory.New()
	creds := NewCredentialStore(db.Admins())
	admin, err := creds.Upsert(context.Background(), "a@x.com", "Secret123!", "Admin")
	require.NoError(t, err)

	authority, err := session.NewAuthority([]string{"test-secret"}, session.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return &adminFixture{
		svc:       NewAdminService(creds, authority, db.Posts(), db.Reviews(), db.Media()),
		authority: authority,
		db:        db,
		admin:     admin,
	}
}

func (f *adminFixture) sessionCtx(t *testing.T) context.Context {
	t.Helper()
	_, claims, err := f.authority.Issue(f.admin.ID, f.admin.Email, f.admin.Name)
	require.NoError(t, err)
	return session.WithClaims(context.Background(), claims)
}

func TestAdminService_Login(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	t.Run("issues a verifiable session", func(t *testing.T) {
		result, err := f.svc.Login(ctx, "a@x.com", "Secret123!")
		require.NoError(t, err)
		assert.Equal(t, f.admin.ID, result.Admin.ID)
		assert.Equal(t, "a@x.com", result.Admin.Email)

		claims, err := f.authority.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, f.admin.ID, claims.AdminID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, "Admin", claims.Name)
	})

	t.Run("wrong password and unknown email fail the same way", func(t *testing.T) {
		_, errWrong := f.svc.Login(ctx, "a@x.com", "nope-nope")
		_, errUnknown := f.svc.Login(ctx, "b@x.com", "Secret123!")

		for _, err := range []error{errWrong, errUnknown} {
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeInvalidCredentials, appErr.Code)
			assert.Equal(t, "Invalid email or password", appErr.Message)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.svc.Login(ctx, "", "Secret123!")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingRequired))
	})
}

func TestAdminService_Me(t *testing.T) {
	f := newAdminFixture(t)

	assert.Nil(t, f.svc.Me(context.Background()))

	claims := f.svc.Me(f.sessionCtx(t))
	require.NotNil(t, claims)
	assert.Equal(t, f.admin.ID, claims.AdminID)
}

func TestAdminService_UpdateEmail(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		f := newAdminFixture(t)
		_, err := f.svc.UpdateEmail(context.Background(), "a@x.com", "new@x.com")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))

		profile, err := f.svc.credentials.Verify(context.Background(), "a@x.com", "Secret123!")
		require.NoError(t, err)
		assert.NotNil(t, profile, "email must be unchanged")
	})

	t.Run("re-issues the session for the caller's own email", func(t *testing.T) {
		f := newAdminFixture(t)
		issued, err := f.svc.UpdateEmail(f.sessionCtx(t), "a@x.com", "new@x.com")
		require.NoError(t, err)
		require.NotNil(t, issued)
		assert.Equal(t, "new@x.com", issued.Claims.Email)

		claims, err := f.authority.Verify(issued.Token)
		require.NoError(t, err)
		assert.Equal(t, "new@x.com", claims.Email)
	})
}

func TestAdminService_UpdatePassword(t *testing.T) {
	f := newAdminFixture(t)

	err := f.svc.UpdatePassword(context.Background(), "a@x.com", "Another123!")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))

	require.NoError(t, f.svc.UpdatePassword(f.sessionCtx(t), "a@x.com", "Another123!"))
	_, err = f.svc.Login(context.Background(), "a@x.com", "Another123!")
	assert.NoError(t, err)
}

func TestAdminService_Stats(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.Stats(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))

	posts := NewPostService(f.db.Posts())
	_, err = posts.Create(f.sessionCtx(t), model.CreatePostParams{Title: "T", Slug: "t", Content: "C", Category: "Politics"})
	require.NoError(t, err)

	stats, err := f.svc.Stats(f.sessionCtx(t))
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{Posts: 1}, *stats)
}
