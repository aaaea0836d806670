package repository

import (
	"context"

	"github.com/folio-labs/portfolio-server/internal/database"
	"github.com/folio-labs/portfolio-server/internal/model"
)

type reviewRepo struct {
	db database.DBTX
}

func NewReviewRepository(db database.DBTX) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews
		WHERE ($1 = '' OR type = $1)
		ORDER BY `+ReviewOrderBy(filter), string(filter.Type))
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepo) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE id = $1`, id)
	return HandleNotFound(&review, err)
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, type, title, creator, year, rating, notes, tags, cover_image, api_id, metadata, created_at, updated_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, review.ID, review.Type, review.Title, review.Creator, review.Year, review.Rating, review.Notes,
		review.Tags, review.CoverImage, review.APIID, review.Metadata, review.CreatedAt, review.UpdatedAt, review.UserID)
	return mapWriteError(err)
}

func (r *reviewRepo) Update(ctx context.Context, review *model.Review) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET
			type = $2, title = $3, creator = $4, year = $5, rating = $6, notes = $7,
			tags = $8, cover_image = $9, api_id = $10, metadata = $11, updated_at = $12
		WHERE id = $1
	`, review.ID, review.Type, review.Title, review.Creator, review.Year, review.Rating, review.Notes,
		review.Tags, review.CoverImage, review.APIID, review.Metadata, review.UpdatedAt)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

func (r *reviewRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reviews`)
	return count, err
}
