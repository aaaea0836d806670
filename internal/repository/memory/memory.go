// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository"
)

// DB holds every collection behind a single lock.
type DB struct {
	mu      sync.Mutex
	admins  map[string]*model.AdminCredential
	posts   map[string]*model.Post
	reviews map[string]*model.Review
	media   map[string]*model.Media
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		admins:  make(map[string]*model.AdminCredential),
		posts:   make(map[string]*model.Post),
		reviews: make(map[string]*model.Review),
		media:   make(map[string]*model.Media),
	}
}

func (db *DB) Admins() repository.AdminCredentialRepository { return &AdminRepo{db: db} }
func (db *DB) Posts() repository.PostRepository             { return &PostRepo{db: db} }
func (db *DB) Reviews() repository.ReviewRepository         { return &ReviewRepo{db: db} }
func (db *DB) Media() repository.MediaRepository            { return &MediaRepo{db: db} }

// Ensure interfaces are met.
var _ repository.AdminCredentialRepository = (*AdminRepo)(nil)
var _ repository.PostRepository = (*PostRepo)(nil)
var _ repository.ReviewRepository = (*ReviewRepo)(nil)
var _ repository.MediaRepository = (*MediaRepo)(nil)

// --- AdminCredentialRepository ---

type AdminRepo struct{ db *DB }

func (r *AdminRepo) findByEmail(email string) *model.AdminCredential {
	for _, c := range r.db.admins {
		if c.Email == email {
			return c
		}
	}
	return nil
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*model.AdminCredential, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c := r.findByEmail(email); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *AdminRepo) FindByID(ctx context.Context, id string) (*model.AdminCredential, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c, ok := r.db.admins[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *AdminRepo) Upsert(ctx context.Context, params model.UpsertAdminParams) (*model.AdminCredential, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c := r.findByEmail(params.Email); c != nil {
		c.PasswordHash = params.PasswordHash
		if params.Name != "" {
			c.Name = params.Name
		}
		cp := *c
		return &cp, nil
	}

	c := &model.AdminCredential{
		ID:           params.ID,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Name:         params.Name,
		CreatedAt:    time.Now().UTC(),
	}
	r.db.admins[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *AdminRepo) UpdateEmail(ctx context.Context, id, email string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	if other := r.findByEmail(email); other != nil && other.ID != id {
		return repository.ErrDuplicate
	}
	c.Email = email
	return nil
}

func (r *AdminRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.admins[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.PasswordHash = passwordHash
	return nil
}

func (r *AdminRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if c, ok := r.db.admins[id]; ok {
		t := at.UTC()
		c.LastLoginAt = &t
	}
	return nil
}

func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.admins), nil
}

// --- PostRepository ---

type PostRepo struct{ db *DB }

func (r *PostRepo) slugTaken(slug, exceptID string) bool {
	for _, p := range r.db.posts {
		if p.Slug == slug && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *PostRepo) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	posts := make([]model.Post, 0, len(r.db.posts))
	for _, p := range r.db.posts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		posts = append(posts, *p)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PublishedAt.Equal(posts[j].PublishedAt) {
			return posts[i].PublishedAt.After(posts[j].PublishedAt)
		}
		return posts[i].ID < posts[j].ID
	})

	return paginate(posts, filter.Limit, filter.Offset), nil
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if p, ok := r.db.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.posts[post.ID]; exists || r.slugTaken(post.Slug, "") {
		return repository.ErrDuplicate
	}
	cp := *post
	r.db.posts[post.ID] = &cp
	return nil
}

func (r *PostRepo) Update(ctx context.Context, post *model.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return repository.ErrDuplicate
	}
	cp := *post
	cp.AuthorID = existing.AuthorID
	r.db.posts[post.ID] = &cp
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.posts, id)
	return nil
}

func (r *PostRepo) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	counts := make(map[string]int)
	for _, p := range r.db.posts {
		counts[p.Category]++
	}

	categories := make([]model.CategoryCount, 0, len(counts))
	for c, n := range counts {
		categories = append(categories, model.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})
	return categories, nil
}

func (r *PostRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.posts), nil
}

// --- ReviewRepository ---

type ReviewRepo struct{ db *DB }

func copyReview(r *model.Review) model.Review {
	cp := *r
	if r.Tags != nil {
		cp.Tags = append([]string{}, r.Tags...)
	}
	return cp
}

func (r *ReviewRepo) List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	reviews := make([]model.Review, 0, len(r.db.reviews))
	for _, rv := range r.db.reviews {
		if filter.Type != "" && rv.Type != filter.Type {
			continue
		}
		reviews = append(reviews, copyReview(rv))
	}

	// Mirrors repository.ReviewOrderBy.
	asc := filter.Order == model.SortAsc || (filter.Order == "" && filter.SortBy == model.ReviewSortTitle)
	sort.Slice(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		var cmp int
		switch filter.SortBy {
		case model.ReviewSortRating:
			cmp = a.Rating - b.Rating
		case model.ReviewSortTitle:
			cmp = strings.Compare(a.Title, b.Title)
		default:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp == 0 {
			return a.ID < b.ID
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})

	return reviews, nil
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*model.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if rv, ok := r.db.reviews[id]; ok {
		cp := copyReview(rv)
		return &cp, nil
	}
	return nil, nil
}

func (r *ReviewRepo) Create(ctx context.Context, review *model.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.reviews[review.ID]; exists {
		return repository.ErrDuplicate
	}
	cp := copyReview(review)
	r.db.reviews[review.ID] = &cp
	return nil
}

func (r *ReviewRepo) Update(ctx context.Context, review *model.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.reviews[review.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := copyReview(review)
	cp.CreatedAt = existing.CreatedAt
	cp.UserID = existing.UserID
	r.db.reviews[review.ID] = &cp
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.reviews, id)
	return nil
}

func (r *ReviewRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.reviews), nil
}

// --- MediaRepository ---

type MediaRepo struct{ db *DB }

func (r *MediaRepo) List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	items := make([]model.Media, 0, len(r.db.media))
	for _, m := range r.db.media {
		if filter.FileType != "" && m.FileType != filter.FileType {
			continue
		}
		items = append(items, *m)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return paginate(items, filter.Limit, filter.Offset), nil
}

func (r *MediaRepo) FindByID(ctx context.Context, id string) (*model.Media, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if m, ok := r.db.media[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *MediaRepo) Create(ctx context.Context, media *model.Media) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.media[media.ID]; exists {
		return repository.ErrDuplicate
	}
	for _, m := range r.db.media {
		if m.StorageKey == media.StorageKey {
			return repository.ErrDuplicate
		}
	}
	cp := *media
	r.db.media[media.ID] = &cp
	return nil
}

func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.media, id)
	return nil
}

func (r *MediaRepo) StorageKeys(ctx context.Context) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	keys := make([]string, 0, len(r.db.media))
	for _, m := range r.db.media {
		keys = append(keys, m.StorageKey)
	}
	return keys, nil
}

func (r *MediaRepo) Count(ctx context.Context) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.media), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
