package repository

import (
	"context"

	"github.com/folio-labs/portfolio-server/internal/database"
	"github.com/folio-labs/portfolio-server/internal/model"
)

type mediaRepo struct {
	db database.DBTX
}

func NewMediaRepository(db database.DBTX) MediaRepository {
	return &mediaRepo{db: db}
}

func (r *mediaRepo) List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error) {
	var media []model.Media
	err := r.db.SelectContext(ctx, &media, `
		SELECT * FROM media
		WHERE ($1 = '' OR file_type = $1)
		ORDER BY created_at DESC, id ASC
		LIMIT NULLIF($2, 0) OFFSET $3
	`, string(filter.FileType), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepo) FindByID(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	err := r.db.GetContext(ctx, &m, `SELECT * FROM media WHERE id = $1`, id)
	return HandleNotFound(&m, err)
}

func (r *mediaRepo) Create(ctx context.Context, m *model.Media) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media (id, filename, file_type, content_type, size, storage_key, url, thumbnail, created_at, updated_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, m.ID, m.Filename, m.FileType, m.ContentType, m.Size, m.StorageKey, m.URL, m.Thumbnail,
		m.CreatedAt, m.UpdatedAt, m.UserID)
	return mapWriteError(err)
}

func (r *mediaRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

func (r *mediaRepo) StorageKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, `SELECT storage_key FROM media`); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *mediaRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM media`)
	return count, err
}
