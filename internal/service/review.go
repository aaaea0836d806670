package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/util"
)

const (
	MinRating   = 1
	MaxRating   = 5
	maxTopRated = 10
)

// ReviewService manages film, album and book reviews. Reads follow the
// configured ReadPolicy; writes need a session.
type ReviewService struct {
	repo   repository.ReviewRepository
	policy ReadPolicy
	now    func() time.Time
}

func NewReviewService(repo repository.ReviewRepository, policy ReadPolicy) *ReviewService {
	return &ReviewService{repo: repo, policy: policy, now: time.Now}
}

// ParseReviewFilter validates raw query values. An empty type or "all" means
// every type.
func ParseReviewFilter(reviewType, sortBy, order string) (model.ReviewFilter, error) {
	var filter model.ReviewFilter

	if reviewType != "" && reviewType != "all" {
		filter.Type = model.ReviewType(reviewType)
		if !filter.Type.Valid() {
			return filter, apperrors.InvalidInput("type", "must be film, album or book")
		}
	}
	if sortBy != "" {
		filter.SortBy = model.ReviewSortField(sortBy)
		if !filter.SortBy.Valid() {
			return filter, apperrors.InvalidInput("sortBy", "must be date, rating or title")
		}
	}
	if order != "" {
		filter.Order = model.SortOrder(order)
		if !filter.Order.Valid() {
			return filter, apperrors.InvalidInput("order", "must be asc or desc")
		}
	}
	return filter, nil
}

func (s *ReviewService) List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, error) {
	if err := s.policy.authorizeRead(ctx, model.ContentReviews); err != nil {
		return nil, err
	}

	reviews, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	if err := s.policy.authorizeRead(ctx, model.ContentReviews); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *ReviewService) find(ctx context.Context, id string) (*model.Review, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Review")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if review == nil {
		return nil, apperrors.NotFound("Review")
	}
	return review, nil
}

func (s *ReviewService) Create(ctx context.Context, params model.CreateReviewParams) (*model.Review, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	params.Title = strings.TrimSpace(params.Title)

	errs := fieldErrors{}
	validateReviewFields(errs, params.Type, params.Title, params.Rating)
	if err := errs.err(); err != nil {
		return nil, err
	}

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now().UTC()
	review := &model.Review{
		ID:         uuid.NewString(),
		Type:       params.Type,
		Title:      params.Title,
		Creator:    params.Creator,
		Year:       params.Year,
		Rating:     params.Rating,
		Notes:      params.Notes,
		Tags:       tags,
		CoverImage: params.CoverImage,
		APIID:      params.APIID,
		Metadata:   params.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     &claims.AdminID,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, repoError(err, "Review")
	}
	return review, nil
}

// Update merges the provided fields, re-validates the result and bumps
// UpdatedAt.
func (s *ReviewService) Update(ctx context.Context, id string, params model.UpdateReviewParams) (*model.Review, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		review.Type = *params.Type
	}
	if params.Title != nil {
		review.Title = strings.TrimSpace(*params.Title)
	}
	if params.Creator != nil {
		review.Creator = params.Creator
	}
	if params.Year != nil {
		review.Year = params.Year
	}
	if params.Rating != nil {
		review.Rating = *params.Rating
	}
	if params.Notes != nil {
		review.Notes = params.Notes
	}
	if params.Tags != nil {
		review.Tags = *params.Tags
		if review.Tags == nil {
			review.Tags = []string{}
		}
	}
	if params.CoverImage != nil {
		review.CoverImage = params.CoverImage
	}
	if params.APIID != nil {
		review.APIID = params.APIID
	}
	if params.Metadata != nil {
		review.Metadata = *params.Metadata
	}

	errs := fieldErrors{}
	validateReviewFields(errs, review.Type, review.Title, review.Rating)
	if err := errs.err(); err != nil {
		return nil, err
	}

	review.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, repoError(err, "Review")
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if !util.IsValidUUID(id) {
		return apperrors.NotFound("Review")
	}
	return repoError(s.repo.Delete(ctx, id), "Review")
}

// Stats summarizes all reviews: counts per type, the mean rating and the
// newest five-star entries.
func (s *ReviewService) Stats(ctx context.Context) (*model.ReviewStats, error) {
	reviews, err := s.List(ctx, model.ReviewFilter{})
	if err != nil {
		return nil, err
	}
	return computeReviewStats(reviews), nil
}

func computeReviewStats(reviews []model.Review) *model.ReviewStats {
	stats := &model.ReviewStats{
		Total:    len(reviews),
		ByType:   make(map[model.ReviewType]int, len(model.ReviewTypes)),
		TopRated: []model.Review{},
	}
	for _, t := range model.ReviewTypes {
		stats.ByType[t] = 0
	}

	sum := 0
	for _, r := range reviews {
		stats.ByType[r.Type]++
		sum += r.Rating
		if r.Rating == MaxRating {
			stats.TopRated = append(stats.TopRated, r)
		}
	}
	if len(reviews) > 0 {
		stats.AverageRating = float64(sum) / float64(len(reviews))
	}

	sort.SliceStable(stats.TopRated, func(i, j int) bool {
		return stats.TopRated[i].CreatedAt.After(stats.TopRated[j].CreatedAt)
	})
	if len(stats.TopRated) > maxTopRated {
		stats.TopRated = stats.TopRated[:maxTopRated]
	}
	return stats
}

func validateReviewFields(errs fieldErrors, reviewType model.ReviewType, title string, rating int) {
	if !reviewType.Valid() {
		errs.add("type", "must be film, album or book")
	}
	if title == "" {
		errs.add("title", "is required")
	}
	if rating < MinRating || rating > MaxRating {
		errs.add("rating", "must be between 1 and 5")
	}
}
