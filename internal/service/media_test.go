package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/repository/memory"
	"github.com/folio-labs/portfolio-server/internal/storage"
)

type mediaFixture struct {
	svc  *MediaService
	root string
}

func newMediaFixture(t *testing.T, maxBytes int64) *mediaFixture {
	t.Helper()
	root := t.TempDir()
	blobs, err := storage.NewLocalStore(root, "/uploads")
	require.NoError(t, err)

	svc := NewMediaService(memory.New().Media(), blobs, ReadPolicy{}, maxBytes)
	svc.now = stepClock(fixedNow)
	return &mediaFixture{svc: svc, root: root}
}

func (f *mediaFixture) blobFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(f.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(f.root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func pngUpload(body string) UploadInput {
	return UploadInput{
		Filename:    "photo.PNG",
		FileType:    model.MediaFileTypeImage,
		ContentType: "image/png",
		Body:        strings.NewReader(body),
	}
}

func TestMediaService_Upload(t *testing.T) {
	f := newMediaFixture(t, 1024)
	ctx := adminCtx()

	media, err := f.svc.Upload(ctx, pngUpload("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "photo.PNG", media.Filename)
	assert.Equal(t, int64(9), media.Size)
	assert.True(t, strings.HasPrefix(media.StorageKey, "images/"))
	assert.True(t, strings.HasSuffix(media.StorageKey, ".png"))
	assert.Equal(t, "/uploads/"+media.StorageKey, media.URL)
	assert.Equal(t, []string{media.StorageKey}, f.blobFiles(t))

	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(media.StorageKey)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestMediaService_UploadRejections(t *testing.T) {
	ctx := adminCtx()

	t.Run("unauthorized upload stores nothing", func(t *testing.T) {
		f := newMediaFixture(t, 1024)
		_, err := f.svc.Upload(context.Background(), pngUpload("png-bytes"))
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))
		assert.Empty(t, f.blobFiles(t))
	})

	t.Run("content type must match the file type", func(t *testing.T) {
		f := newMediaFixture(t, 1024)
		in := pngUpload("x")
		in.FileType = model.MediaFileTypeVideo
		_, err := f.svc.Upload(ctx, in)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnsupportedMedia))
	})

	t.Run("svg images are not accepted", func(t *testing.T) {
		f := newMediaFixture(t, 1024)
		in := pngUpload("<svg onload=\"alert(1)\"/>")
		in.Filename = "logo.svg"
		in.ContentType = "image/svg+xml"
		_, err := f.svc.Upload(ctx, in)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnsupportedMedia))
		assert.Empty(t, f.blobFiles(t))
	})

	t.Run("oversized body is removed", func(t *testing.T) {
		f := newMediaFixture(t, 4)
		_, err := f.svc.Upload(ctx, pngUpload("too-large"))
		assert.True(t, apperrors.Is(err, apperrors.ErrCodePayloadTooLarge))
		assert.Empty(t, f.blobFiles(t))
	})

	t.Run("empty body", func(t *testing.T) {
		f := newMediaFixture(t, 1024)
		_, err := f.svc.Upload(ctx, pngUpload(""))
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
		assert.Empty(t, f.blobFiles(t))
	})

	t.Run("content type parameters are ignored", func(t *testing.T) {
		f := newMediaFixture(t, 1024)
		in := UploadInput{Filename: "notes.txt", FileType: model.MediaFileTypeDocument, ContentType: "text/plain; charset=utf-8", Body: bytes.NewReader([]byte("hi"))}
		media, err := f.svc.Upload(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "text/plain", media.ContentType)
		assert.True(t, strings.HasPrefix(media.StorageKey, "documents/"))
	})
}

func TestMediaService_Delete(t *testing.T) {
	f := newMediaFixture(t, 1024)
	ctx := adminCtx()

	media, err := f.svc.Upload(ctx, pngUpload("png-bytes"))
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), media.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))
	assert.Len(t, f.blobFiles(t), 1)

	require.NoError(t, f.svc.Delete(ctx, media.ID))
	assert.Empty(t, f.blobFiles(t))

	_, err = f.svc.Get(ctx, media.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	assert.True(t, apperrors.Is(f.svc.Delete(ctx, media.ID), apperrors.ErrCodeNotFound))
}

func TestMediaService_CreateRecord(t *testing.T) {
	f := newMediaFixture(t, 1024)
	ctx := adminCtx()

	media, err := f.svc.Create(ctx, model.CreateMediaParams{
		Filename: "hero.jpg",
		FileType: model.MediaFileTypeImage,
		URL:      "https://cdn.example.com/hero.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, externalKeyPrefix+media.ID, media.StorageKey)
	assert.Equal(t, "application/octet-stream", media.ContentType)

	_, err = f.svc.Create(ctx, model.CreateMediaParams{FileType: "audio"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Details, "filename")
	assert.Contains(t, appErr.Details, "fileType")
	assert.Contains(t, appErr.Details, "url")

	require.NoError(t, f.svc.Delete(ctx, media.ID))
}

func TestMediaService_List(t *testing.T) {
	f := newMediaFixture(t, 1024)
	ctx := adminCtx()

	_, err := f.svc.Upload(ctx, pngUpload("a"))
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, UploadInput{Filename: "a.pdf", FileType: model.MediaFileTypeDocument, ContentType: "application/pdf", Body: strings.NewReader("pdf")})
	require.NoError(t, err)

	_, err = f.svc.List(context.Background(), model.MediaFilter{})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUnauthorized))

	all, err := f.svc.List(ctx, model.MediaFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, model.MediaFileTypeDocument, all[0].FileType, "newest first")

	images, err := f.svc.List(ctx, model.MediaFilter{FileType: model.MediaFileTypeImage})
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestParseMediaFileType(t *testing.T) {
	ft, err := ParseMediaFileType("all")
	require.NoError(t, err)
	assert.Empty(t, ft)

	ft, err = ParseMediaFileType("video")
	require.NoError(t, err)
	assert.Equal(t, model.MediaFileTypeVideo, ft)

	_, err = ParseMediaFileType("audio")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}
