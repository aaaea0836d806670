package model

import (
	"time"

	"github.com/lib/pq"
)

type Review struct {
	ID         string         `db:"id" json:"id" yaml:"id"`
	Type       ReviewType     `db:"type" json:"type" yaml:"type"`
	Title      string         `db:"title" json:"title" yaml:"title"`
	Creator    *string        `db:"creator" json:"creator" yaml:"creator,omitempty"`
	Year       *int           `db:"year" json:"year" yaml:"year,omitempty"`
	Rating     int            `db:"rating" json:"rating" yaml:"rating"`
	Notes      *string        `db:"notes" json:"notes" yaml:"notes,omitempty"`
	Tags       pq.StringArray `db:"tags" json:"tags" yaml:"tags,omitempty"`
	CoverImage *string        `db:"cover_image" json:"coverImage" yaml:"coverImage,omitempty"`
	APIID      *string        `db:"api_id" json:"apiId" yaml:"apiId,omitempty"`
	Metadata   JSONObject     `db:"metadata" json:"metadata" yaml:"metadata,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt" yaml:"updatedAt"`
	UserID     *string        `db:"user_id" json:"userId" yaml:"-"`
}

type CreateReviewParams struct {
	Type       ReviewType `json:"type"`
	Title      string     `json:"title"`
	Creator    *string    `json:"creator"`
	Year       *int       `json:"year"`
	Rating     int        `json:"rating"`
	Notes      *string    `json:"notes"`
	Tags       []string   `json:"tags"`
	CoverImage *string    `json:"coverImage"`
	APIID      *string    `json:"apiId"`
	Metadata   JSONObject `json:"metadata"`
}

// UpdateReviewParams carries a partial update; nil fields are left unchanged.
type UpdateReviewParams struct {
	Type       *ReviewType `json:"type"`
	Title      *string     `json:"title"`
	Creator    *string     `json:"creator"`
	Year       *int        `json:"year"`
	Rating     *int        `json:"rating"`
	Notes      *string     `json:"notes"`
	Tags       *[]string   `json:"tags"`
	CoverImage *string     `json:"coverImage"`
	APIID      *string     `json:"apiId"`
	Metadata   *JSONObject `json:"metadata"`
}

type ReviewFilter struct {
	Type   ReviewType
	SortBy ReviewSortField
	Order  SortOrder
}

type ReviewStats struct {
	Total         int                `json:"total"`
	ByType        map[ReviewType]int `json:"byType"`
	AverageRating float64            `json:"averageRating"`
	TopRated      []Review           `json:"topRated"`
}
