package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folio-labs/portfolio-server/internal/audit"
	"github.com/folio-labs/portfolio-server/internal/middleware"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Routes leaves read authorization to the service, which applies the
// configured read policy.
func (h *ReviewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := service.ParseReviewFilter(q.Get("type"), q.Get("sortBy"), q.Get("order"))
	if err != nil {
		writeError(w, err)
		return
	}

	reviews, err := h.reviews.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviews.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ReviewHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	export, err := h.reviews.Export(r.Context(), model.ExportFormat(q.Get("format")), q.Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params model.CreateReviewParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentCreate, model.ContentReviews, review.ID)
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var params model.UpdateReviewParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, err)
		return
	}

	review, err := h.reviews.Update(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentUpdate, model.ContentReviews, review.ID)
	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentDelete, model.ContentReviews, id)
	writeSuccess(w)
}
