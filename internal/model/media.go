package model

import (
	"time"
)

type Media struct {
	ID          string        `db:"id" json:"id"`
	Filename    string        `db:"filename" json:"filename"`
	FileType    MediaFileType `db:"file_type" json:"fileType"`
	ContentType string        `db:"content_type" json:"contentType"`
	Size        int64         `db:"size" json:"size"`
	StorageKey  string        `db:"storage_key" json:"storageKey"`
	URL         string        `db:"url" json:"url"`
	Thumbnail   *string       `db:"thumbnail" json:"thumbnail"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
	UserID      *string       `db:"user_id" json:"userId"`
}

type CreateMediaParams struct {
	Filename    string        `json:"filename"`
	FileType    MediaFileType `json:"fileType"`
	ContentType string        `json:"contentType"`
	Size        int64         `json:"size"`
	StorageKey  string        `json:"storageKey"`
	URL         string        `json:"url"`
	Thumbnail   *string       `json:"thumbnail"`
}

type MediaFilter struct {
	FileType MediaFileType
	Limit    int
	Offset   int
}
