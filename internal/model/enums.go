package model

type ReviewType string

const (
	ReviewTypeFilm  ReviewType = "film"
	ReviewTypeAlbum ReviewType = "album"
	ReviewTypeBook  ReviewType = "book"
)

var ReviewTypes = []ReviewType{ReviewTypeFilm, ReviewTypeAlbum, ReviewTypeBook}

func (t ReviewType) Valid() bool {
	switch t {
	case ReviewTypeFilm, ReviewTypeAlbum, ReviewTypeBook:
		return true
	}
	return false
}

type MediaFileType string

const (
	MediaFileTypeImage    MediaFileType = "image"
	MediaFileTypeVideo    MediaFileType = "video"
	MediaFileTypeDocument MediaFileType = "document"
)

func (t MediaFileType) Valid() bool {
	switch t {
	case MediaFileTypeImage, MediaFileTypeVideo, MediaFileTypeDocument:
		return true
	}
	return false
}

type ReviewSortField string

const (
	ReviewSortDate   ReviewSortField = "date"
	ReviewSortRating ReviewSortField = "rating"
	ReviewSortTitle  ReviewSortField = "title"
)

func (f ReviewSortField) Valid() bool {
	switch f {
	case ReviewSortDate, ReviewSortRating, ReviewSortTitle:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// ContentKind names a guarded content collection for read policy lookups.
type ContentKind string

const (
	ContentPosts   ContentKind = "posts"
	ContentReviews ContentKind = "reviews"
	ContentMedia   ContentKind = "media"
)

type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportMarkdown ExportFormat = "markdown"
	ExportHTML     ExportFormat = "html"
	ExportYAML     ExportFormat = "yaml"
)

func (f ExportFormat) Valid() bool {
	switch f {
	case ExportJSON, ExportMarkdown, ExportHTML, ExportYAML:
		return true
	}
	return false
}
