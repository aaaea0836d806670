package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/util"
)

const maxPostPageSize = 100

// PostService manages blog posts. Reads are public; writes need a session.
type PostService struct {
	repo repository.PostRepository
	now  func() time.Time
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo, now: time.Now}
}

func (s *PostService) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperrors.InvalidInput("pagination", "limit and offset must not be negative")
	}
	if filter.Limit > maxPostPageSize {
		filter.Limit = maxPostPageSize
	}

	posts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Post")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if post == nil {
		return nil, apperrors.NotFound("Post")
	}
	return post, nil
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if post == nil {
		return nil, apperrors.NotFound("Post")
	}
	return post, nil
}

func (s *PostService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if categories == nil {
		categories = []model.CategoryCount{}
	}
	return categories, nil
}

func (s *PostService) Create(ctx context.Context, params model.CreatePostParams) (*model.Post, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	params.Title = strings.TrimSpace(params.Title)
	params.Category = strings.TrimSpace(params.Category)

	errs := fieldErrors{}
	validatePostFields(errs, params.Title, params.Slug, params.Content, params.Category)
	if err := errs.err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := &model.Post{
		ID:          uuid.NewString(),
		Slug:        params.Slug,
		Title:       params.Title,
		Excerpt:     params.Excerpt,
		Content:     params.Content,
		CoverImage:  params.CoverImage,
		Category:    params.Category,
		Featured:    params.Featured,
		PublishedAt: now,
		UpdatedAt:   now,
		AuthorID:    &claims.AdminID,
	}
	if params.PublishedAt != nil {
		post.PublishedAt = params.PublishedAt.UTC()
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, repoError(err, "Post with this slug")
	}
	return post, nil
}

// Update merges the provided fields into the stored post and bumps UpdatedAt.
// Concurrent updates are last-write-wins.
func (s *PostService) Update(ctx context.Context, id string, params model.UpdatePostParams) (*model.Post, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Slug != nil {
		post.Slug = *params.Slug
	}
	if params.Title != nil {
		post.Title = strings.TrimSpace(*params.Title)
	}
	if params.Excerpt != nil {
		post.Excerpt = *params.Excerpt
	}
	if params.Content != nil {
		post.Content = *params.Content
	}
	if params.CoverImage != nil {
		post.CoverImage = params.CoverImage
	}
	if params.Category != nil {
		post.Category = strings.TrimSpace(*params.Category)
	}
	if params.Featured != nil {
		post.Featured = *params.Featured
	}
	if params.PublishedAt != nil {
		post.PublishedAt = params.PublishedAt.UTC()
	}

	errs := fieldErrors{}
	validatePostFields(errs, post.Title, post.Slug, post.Content, post.Category)
	if err := errs.err(); err != nil {
		return nil, err
	}

	post.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, repoError(err, "Post with this slug")
		}
		return nil, repoError(err, "Post")
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if !util.IsValidUUID(id) {
		return apperrors.NotFound("Post")
	}
	return repoError(s.repo.Delete(ctx, id), "Post")
}

func validatePostFields(errs fieldErrors, title, slug, content, category string) {
	if title == "" {
		errs.add("title", "is required")
	}
	if slug == "" {
		errs.add("slug", "is required")
	} else if !util.IsValidSlug(slug) {
		errs.add("slug", "must be lowercase letters, digits and single hyphens")
	}
	if strings.TrimSpace(content) == "" {
		errs.add("content", "is required")
	}
	if category == "" {
		errs.add("category", "is required")
	}
}
