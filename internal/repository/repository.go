package repository

import (
	"context"
	"time"

	"github.com/folio-labs/portfolio-server/internal/model"
)

// Find* methods return (nil, nil) when the record does not exist.

type AdminCredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.AdminCredential, error)
	FindByID(ctx context.Context, id string) (*model.AdminCredential, error)
	Upsert(ctx context.Context, params model.UpsertAdminParams) (*model.AdminCredential, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type PostRepository interface {
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]model.CategoryCount, error)
	Count(ctx context.Context) (int, error)
}

type ReviewRepository interface {
	List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, error)
	FindByID(ctx context.Context, id string) (*model.Review, error)
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type MediaRepository interface {
	List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error)
	FindByID(ctx context.Context, id string) (*model.Media, error)
	Create(ctx context.Context, media *model.Media) error
	Delete(ctx context.Context, id string) error
	StorageKeys(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// ReviewOrderBy returns the ORDER BY clause for a review filter. Unknown
// fields fall back to newest first.
func ReviewOrderBy(filter model.ReviewFilter) string {
	column := "created_at"
	switch filter.SortBy {
	case model.ReviewSortRating:
		column = "rating"
	case model.ReviewSortTitle:
		column = "title"
	}

	direction := "DESC"
	if filter.Order == model.SortAsc {
		direction = "ASC"
	} else if filter.Order == "" && filter.SortBy == model.ReviewSortTitle {
		direction = "ASC"
	}

	return column + " " + direction + ", id ASC"
}
