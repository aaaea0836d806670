package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/folio-labs/portfolio-server/internal/audit"
	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/middleware"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/service"
	"github.com/folio-labs/portfolio-server/internal/session"
)

type PostHandler struct {
	posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/categories", h.Categories)
	r.Get("/slug/{slug}", h.GetBySlug)
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

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := ParsePagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	filter := model.PostFilter{
		Category: r.URL.Query().Get("category"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperrors.InvalidInput("featured", "must be true or false"))
			return
		}
		filter.Featured = &featured
	}

	posts, err := h.posts.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.posts.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params model.CreatePostParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentCreate, model.ContentPosts, post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var params model.UpdatePostParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentUpdate, model.ContentPosts, post.ID)
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.posts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	auditContent(r, audit.EventContentDelete, model.ContentPosts, id)
	writeSuccess(w)
}

func auditContent(r *http.Request, eventType audit.EventType, kind model.ContentKind, id string) {
	event := audit.Event{
		Type:    eventType,
		Details: map[string]any{"kind": string(kind), "id": id},
	}
	if claims, ok := session.FromContext(r.Context()); ok {
		event.AdminID = claims.AdminID
	}
	audit.LogFromRequest(r, event)
}
