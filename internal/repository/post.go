package repository

import (
	"context"

	"github.com/folio-labs/portfolio-server/internal/database"
	"github.com/folio-labs/portfolio-server/internal/model"
)

type postRepo struct {
	db database.DBTX
}

func NewPostRepository(db database.DBTX) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, `
		SELECT * FROM posts
		WHERE ($1 = '' OR category = $1)
		  AND ($2::boolean IS NULL OR featured = $2)
		ORDER BY published_at DESC, id ASC
		LIMIT NULLIF($3, 0) OFFSET $4
	`, filter.Category, filter.Featured, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE id = $1`, id)
	return HandleNotFound(&post, err)
}

func (r *postRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE slug = $1`, slug)
	return HandleNotFound(&post, err)
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, slug, title, excerpt, content, cover_image, category, featured, published_at, updated_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.CoverImage,
		post.Category, post.Featured, post.PublishedAt, post.UpdatedAt, post.AuthorID)
	return mapWriteError(err)
}

func (r *postRepo) Update(ctx context.Context, post *model.Post) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE posts SET
			slug = $2, title = $3, excerpt = $4, content = $5, cover_image = $6,
			category = $7, featured = $8, published_at = $9, updated_at = $10
		WHERE id = $1
	`, post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.CoverImage,
		post.Category, post.Featured, post.PublishedAt, post.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(result.RowsAffected())
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result.RowsAffected())
}

func (r *postRepo) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	var categories []model.CategoryCount
	err := r.db.SelectContext(ctx, &categories, `
		SELECT category, COUNT(*) AS count FROM posts
		GROUP BY category
		ORDER BY category ASC
	`)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`)
	return count, err
}
