package repository

import (
	"context"
	"time"

	"github.com/folio-labs/portfolio-server/internal/database"
	"github.com/folio-labs/portfolio-server/internal/model"
)

type adminCredentialRepo struct {
	db database.DBTX
}

func NewAdminCredentialRepository(db database.DBTX) AdminCredentialRepository {
	return &adminCredentialRepo{db: db}
}

func (r *adminCredentialRepo) FindByEmail(ctx context.Context, email string) (*model.AdminCredential, error) {
	var cred model.AdminCredential
	err := r.db.GetContext(ctx, &cred, `SELECT * FROM admin_credentials WHERE email = $1`, email)
	return HandleNotFound(&cred, err)
}

func (r *adminCredentialRepo) FindByID(ctx context.Context, id string) (*model.AdminCredential, error) {
	var cred model.AdminCredential
	err := r.db.GetContext(ctx, &cred, `SELECT * FROM admin_credentials WHERE id = $1`, id)
	return HandleNotFound(&cred, err)
}

// Upsert inserts a credential or overwrites the hash (and non-empty name) of
// the existing record with the same email. The original id is preserved.
func (r *adminCredentialRepo) Upsert(ctx context.Context, params model.UpsertAdminParams) (*model.AdminCredential, error) {
	var cred model.AdminCredential
	err := r.db.GetContext(ctx, &cred, `
		INSERT INTO admin_credentials (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			name = COALESCE(NULLIF(EXCLUDED.name, ''), admin_credentials.name)
		RETURNING *
	`, params.ID, params.Email, params.PasswordHash, params.Name)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

func (r *adminCredentialRepo) UpdateEmail(ctx context.Context, id, email string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE admin_credentials SET email = $2 WHERE id = $1`, id, email)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(result.RowsAffected())
}

func (r *adminCredentialRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE admin_credentials SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

func (r *adminCredentialRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admin_credentials SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *adminCredentialRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admin_credentials`)
	return count, err
}
