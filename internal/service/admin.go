package service

import (
	"context"
	"time"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/session"
	"github.com/folio-labs/portfolio-server/internal/util"
)

// IssuedSession is a freshly signed session token and the claims it carries.
type IssuedSession struct {
	Token  string
	Claims *session.Claims
}

type LoginResult struct {
	IssuedSession
	Admin *model.AdminProfile
}

type AdminService struct {
	credentials *CredentialStore
	sessions    *session.Authority
	posts       repository.PostRepository
	reviews     repository.ReviewRepository
	media       repository.MediaRepository
}

func NewAdminService(
	credentials *CredentialStore,
	sessions *session.Authority,
	posts repository.PostRepository,
	reviews repository.ReviewRepository,
	media repository.MediaRepository,
) *AdminService {
	return &AdminService{
		credentials: credentials,
		sessions:    sessions,
		posts:       posts,
		reviews:     reviews,
		media:       media,
	}
}

// Login verifies the credentials and signs a new session. Unknown email and
// wrong password produce the same error.
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if password == "" {
		return nil, apperrors.MissingRequired("password")
	}

	admin, err := s.credentials.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, apperrors.InvalidCredentials()
	}

	issued, err := s.issue(admin.ID, admin.Email, admin.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{IssuedSession: *issued, Admin: admin}, nil
}

// Logout ends a session. Tokens are stateless, so this only matters once the
// authority keeps a denylist; the cookie is cleared by the caller.
func (s *AdminService) Logout(token string) {
	if token == "" {
		return
	}
	_ = s.sessions.Revoke(token)
}

func (s *AdminService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

// Me returns the claims of the current session, or nil when there is none.
func (s *AdminService) Me(ctx context.Context) *session.Claims {
	claims, ok := session.FromContext(ctx)
	if !ok {
		return nil
	}
	return claims
}

// UpdateEmail changes an admin's login email. When the caller changed their
// own email a re-signed session is returned so the cookie stays consistent.
func (s *AdminService) UpdateEmail(ctx context.Context, currentEmail, newEmail string) (*IssuedSession, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.credentials.UpdateEmail(ctx, currentEmail, newEmail); err != nil {
		return nil, err
	}

	if claims.Email != util.NormalizeEmail(currentEmail) {
		return nil, nil
	}
	return s.issue(claims.AdminID, util.NormalizeEmail(newEmail), claims.Name)
}

func (s *AdminService) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.credentials.UpdatePassword(ctx, email, newPassword)
}

func (s *AdminService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var stats model.DashboardStats
	var err error
	if stats.Posts, err = s.posts.Count(ctx); err != nil {
		return nil, apperrors.Database(err)
	}
	if stats.Reviews, err = s.reviews.Count(ctx); err != nil {
		return nil, apperrors.Database(err)
	}
	if stats.Media, err = s.media.Count(ctx); err != nil {
		return nil, apperrors.Database(err)
	}
	return &stats, nil
}

func (s *AdminService) issue(adminID, email, name string) (*IssuedSession, error) {
	token, claims, err := s.sessions.Issue(adminID, email, name)
	if err != nil {
		return nil, apperrors.Internal("Failed to create session").WithCause(err)
	}
	return &IssuedSession{Token: token, Claims: claims}, nil
}
