package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/util"
)

const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// dummyHash is compared against when an email is unknown so a failed login
// costs the same bcrypt work either way.
var dummyHash = sync.OnceValue(func() string {
	hash, err := util.HashPassword("timing-equalizer-password")
	if err != nil {
		panic(err)
	}
	return hash
})

// CredentialStore owns admin email/password records. Password hashes never
// leave it.
type CredentialStore struct {
	repo repository.AdminCredentialRepository
	now  func() time.Time
}

func NewCredentialStore(repo repository.AdminCredentialRepository) *CredentialStore {
	return &CredentialStore{repo: repo, now: time.Now}
}

// Upsert creates the credential for email or replaces its password (and name
// when non-empty). Calling it twice with the same input is harmless.
func (s *CredentialStore) Upsert(ctx context.Context, email, password, name string) (*model.AdminProfile, error) {
	email = util.NormalizeEmail(email)

	errs := fieldErrors{}
	if !util.IsValidEmail(email) {
		errs.add("email", "must be a valid email address")
	}
	if len(password) < MinPasswordLength {
		errs.add("password", "must be at least 8 characters")
	} else if len(password) > MaxPasswordBytes {
		errs.add("password", "must be at most 72 bytes")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, hashError("password", err)
	}

	cred, err := s.repo.Upsert(ctx, model.UpsertAdminParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})
	if err != nil {
		return nil, repoError(err, "Admin")
	}
	return cred.Profile(), nil
}

// Verify returns the profile when email and password match, and (nil, nil)
// otherwise. Storage failures are returned as errors, not as a failed match.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*model.AdminProfile, error) {
	cred, err := s.repo.FindByEmail(ctx, util.NormalizeEmail(email))
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if cred == nil {
		util.CheckPasswordHash(password, dummyHash())
		return nil, nil
	}
	if !util.CheckPasswordHash(password, cred.PasswordHash) {
		return nil, nil
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, cred.ID, now); err != nil {
		log.Warn().Err(err).Str("admin_id", cred.ID).Msg("failed to record last login")
	} else {
		cred.LastLoginAt = &now
	}
	return cred.Profile(), nil
}

func (s *CredentialStore) UpdateEmail(ctx context.Context, currentEmail, newEmail string) error {
	currentEmail = util.NormalizeEmail(currentEmail)
	newEmail = util.NormalizeEmail(newEmail)

	errs := fieldErrors{}
	if !util.IsValidEmail(currentEmail) {
		errs.add("currentEmail", "must be a valid email address")
	}
	if !util.IsValidEmail(newEmail) {
		errs.add("newEmail", "must be a valid email address")
	}
	if err := errs.err(); err != nil {
		return err
	}

	cred, err := s.repo.FindByEmail(ctx, currentEmail)
	if err != nil {
		return apperrors.Database(err)
	}
	if cred == nil {
		return apperrors.NotFound("Admin")
	}
	if currentEmail == newEmail {
		return nil
	}

	if err := s.repo.UpdateEmail(ctx, cred.ID, newEmail); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.AlreadyExists("Email")
		}
		return repoError(err, "Admin")
	}
	return nil
}

func (s *CredentialStore) UpdatePassword(ctx context.Context, email, newPassword string) error {
	email = util.NormalizeEmail(email)

	errs := fieldErrors{}
	if !util.IsValidEmail(email) {
		errs.add("email", "must be a valid email address")
	}
	if len(newPassword) < MinPasswordLength {
		errs.add("newPassword", "must be at least 8 characters")
	} else if len(newPassword) > MaxPasswordBytes {
		errs.add("newPassword", "must be at most 72 bytes")
	}
	if err := errs.err(); err != nil {
		return err
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return apperrors.Database(err)
	}
	if cred == nil {
		return apperrors.NotFound("Admin")
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return hashError("newPassword", err)
	}
	return repoError(s.repo.UpdatePasswordHash(ctx, cred.ID, hash), "Admin")
}

// EnsureSeed creates the first admin when no credential exists yet.
func (s *CredentialStore) EnsureSeed(ctx context.Context, email, password, name string) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, apperrors.Database(err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Upsert(ctx, email, password, name); err != nil {
		return false, err
	}
	return true, nil
}

func hashError(field string, err error) error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return apperrors.ValidationError("Validation failed").WithDetails(map[string]string{field: "must be at most 72 bytes"})
	}
	return apperrors.Internal("Failed to hash password").WithCause(err)
}
