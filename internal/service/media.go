package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/storage"
	"github.com/folio-labs/portfolio-server/internal/util"
)

const maxMediaPageSize = 200

// externalKeyPrefix marks records whose bytes live outside the blob store.
const externalKeyPrefix = "external/"

// allowedContentTypes maps each media kind to the MIME types it accepts and
// the file extension stored for each.
var allowedContentTypes = map[model.MediaFileType]map[string]string{
	model.MediaFileTypeImage: {
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
		"image/webp": "webp",
		"image/avif": "avif",
	},
	model.MediaFileTypeVideo: {
		"video/mp4":       "mp4",
		"video/webm":      "webm",
		"video/quicktime": "mov",
	},
	model.MediaFileTypeDocument: {
		"application/pdf": "pdf",
		"text/plain":      "txt",
		"text/markdown":   "md",
	},
}

// UploadInput describes a file received from a multipart form.
type UploadInput struct {
	Filename    string
	FileType    model.MediaFileType
	ContentType string
	Body        io.Reader
}

// MediaService manages media records and their stored bytes.
type MediaService struct {
	repo     repository.MediaRepository
	blobs    storage.BlobStore
	policy   ReadPolicy
	maxBytes int64
	now      func() time.Time
}

func NewMediaService(repo repository.MediaRepository, blobs storage.BlobStore, policy ReadPolicy, maxBytes int64) *MediaService {
	return &MediaService{repo: repo, blobs: blobs, policy: policy, maxBytes: maxBytes, now: time.Now}
}

func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// ParseMediaFileType accepts "", "all" or a known kind.
func ParseMediaFileType(raw string) (model.MediaFileType, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	fileType := model.MediaFileType(raw)
	if !fileType.Valid() {
		return "", apperrors.InvalidInput("fileType", "must be image, video or document")
	}
	return fileType, nil
}

func (s *MediaService) List(ctx context.Context, filter model.MediaFilter) ([]model.Media, error) {
	if err := s.policy.authorizeRead(ctx, model.ContentMedia); err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperrors.InvalidInput("pagination", "limit and offset must not be negative")
	}
	if filter.Limit > maxMediaPageSize {
		filter.Limit = maxMediaPageSize
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if items == nil {
		items = []model.Media{}
	}
	return items, nil
}

func (s *MediaService) Get(ctx context.Context, id string) (*model.Media, error) {
	if err := s.policy.authorizeRead(ctx, model.ContentMedia); err != nil {
		return nil, err
	}
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Media")
	}
	media, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if media == nil {
		return nil, apperrors.NotFound("Media")
	}
	return media, nil
}

// Create records media whose bytes are hosted elsewhere (an external URL).
func (s *MediaService) Create(ctx context.Context, params model.CreateMediaParams) (*model.Media, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	params.Filename = strings.TrimSpace(params.Filename)
	errs := fieldErrors{}
	if params.Filename == "" {
		errs.add("filename", "is required")
	}
	if !params.FileType.Valid() {
		errs.add("fileType", "must be image, video or document")
	}
	if strings.TrimSpace(params.URL) == "" {
		errs.add("url", "is required")
	}
	if params.Size < 0 {
		errs.add("size", "must not be negative")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if params.StorageKey == "" {
		params.StorageKey = externalKeyPrefix + id
	}
	if params.ContentType == "" {
		params.ContentType = "application/octet-stream"
	}

	now := s.now().UTC()
	media := &model.Media{
		ID:          id,
		Filename:    params.Filename,
		FileType:    params.FileType,
		ContentType: params.ContentType,
		Size:        params.Size,
		StorageKey:  params.StorageKey,
		URL:         params.URL,
		Thumbnail:   params.Thumbnail,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      &claims.AdminID,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		return nil, repoError(err, "Media with this storage key")
	}
	return media, nil
}

// Upload stores the bytes first and then records them. If the record cannot
// be written the stored bytes are removed again.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*model.Media, error) {
	claims, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if !in.FileType.Valid() {
		return nil, apperrors.InvalidInput("fileType", "must be image, video or document")
	}
	contentType := normalizeContentType(in.ContentType)
	ext, ok := allowedContentTypes[in.FileType][contentType]
	if !ok {
		return nil, apperrors.UnsupportedMediaType(contentType)
	}
	filename := path.Base(strings.ReplaceAll(strings.TrimSpace(in.Filename), "\\", "/"))
	if filename == "" || filename == "." || filename == "/" {
		return nil, apperrors.MissingRequired("file")
	}

	id := uuid.NewString()
	key := string(in.FileType) + "s/" + id + "." + ext

	size, err := s.blobs.Put(ctx, key, io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.Internal("Failed to store upload").WithCause(err)
	}
	if size > s.maxBytes {
		s.removeBlob(ctx, key)
		return nil, apperrors.PayloadTooLarge(s.maxBytes)
	}
	if size == 0 {
		s.removeBlob(ctx, key)
		return nil, apperrors.InvalidInput("file", "must not be empty")
	}

	now := s.now().UTC()
	media := &model.Media{
		ID:          id,
		Filename:    filename,
		FileType:    in.FileType,
		ContentType: contentType,
		Size:        size,
		StorageKey:  key,
		URL:         s.blobs.URL(key),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      &claims.AdminID,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		s.removeBlob(ctx, key)
		return nil, repoError(err, "Media")
	}
	return media, nil
}

// Delete removes the record and then, best effort, its bytes. Bytes left
// behind are reclaimed by the blob sweep job.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if !util.IsValidUUID(id) {
		return apperrors.NotFound("Media")
	}

	media, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if media == nil {
		return apperrors.NotFound("Media")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "Media")
	}
	if !strings.HasPrefix(media.StorageKey, externalKeyPrefix) {
		s.removeBlob(ctx, media.StorageKey)
	}
	return nil
}

func (s *MediaService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrInvalidKey) {
		log.Warn().Err(err).Str("storage_key", key).Msg("failed to delete media blob")
	}
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
