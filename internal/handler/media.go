package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/folio-labs/portfolio-server/internal/audit"
	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/middleware"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/service"
)

// multipartMemory is how much of a multipart form is buffered in memory
// before spilling to temp files.
const multipartMemory = 8 << 20

type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

func (h *MediaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Create)
		r.Post("/upload", h.Upload)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := ParsePagination(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fileType, err := service.ParseMediaFileType(r.URL.Query().Get("fileType"))
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.media.List(r.Context(), model.MediaFilter{
		FileType: fileType,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	media, err := h.media.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, media)
}

func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params model.CreateMediaParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, err)
		return
	}

	media, err := h.media.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentCreate, model.ContentMedia, media.ID)
	writeJSON(w, http.StatusCreated, media)
}

// Upload accepts a multipart form with a "file" part and a "fileType" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxBytes()+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, apperrors.PayloadTooLarge(h.media.MaxBytes()))
			return
		}
		writeError(w, apperrors.InvalidInput("body", "expected multipart form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.MissingRequired("file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			contentType = byExt
		}
	}

	media, err := h.media.Upload(r.Context(), service.UploadInput{
		Filename:    header.Filename,
		FileType:    model.MediaFileType(r.FormValue("fileType")),
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	auditContent(r, audit.EventMediaUpload, model.ContentMedia, media.ID)
	writeJSON(w, http.StatusCreated, media)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.media.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentDelete, model.ContentMedia, id)
	writeSuccess(w)
}
