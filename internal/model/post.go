package model

import (
	"time"
)

type Post struct {
	ID          string    `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Excerpt     string    `db:"excerpt" json:"excerpt"`
	Content     string    `db:"content" json:"content"`
	CoverImage  *string   `db:"cover_image" json:"coverImage"`
	Category    string    `db:"category" json:"category"`
	Featured    bool      `db:"featured" json:"featured"`
	PublishedAt time.Time `db:"published_at" json:"publishedAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
	AuthorID    *string   `db:"author_id" json:"authorId"`
}

type CreatePostParams struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	Category    string     `json:"category"`
	Featured    bool       `json:"featured"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// UpdatePostParams carries a partial update; nil fields are left unchanged.
type UpdatePostParams struct {
	Slug        *string    `json:"slug"`
	Title       *string    `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	Category    *string    `json:"category"`
	Featured    *bool      `json:"featured"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type PostFilter struct {
	Category string
	Featured *bool
	Limit    int
	Offset   int
}

type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}
