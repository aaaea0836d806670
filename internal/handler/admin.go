package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folio-labs/portfolio-server/internal/audit"
	"github.com/folio-labs/portfolio-server/internal/middleware"
	"github.com/folio-labs/portfolio-server/internal/service"
	"github.com/folio-labs/portfolio-server/internal/session"
)

type AdminHandler struct {
	adminService *service.AdminService
	loginLimit   func(http.Handler) http.Handler
	secureCookie bool
}

func NewAdminHandler(
	adminService *service.AdminService,
	loginLimit func(http.Handler) http.Handler,
	secureCookie bool,
) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		loginLimit:   loginLimit,
		secureCookie: secureCookie,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginLimit).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Put("/email", h.UpdateEmail)
		r.Put("/password", h.UpdatePassword)
		r.Get("/stats", h.Stats)
	})

	return r
}

type adminSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Admin   adminSummary `json:"admin"`
}

type meResponse struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.adminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure, Email: req.Email})
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, AdminID: result.Admin.ID, Email: result.Admin.Email})
	middleware.SetSessionCookie(w, result.Token, h.adminService.SessionTTL(), h.secureCookie)
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Admin: adminSummary{
			ID:    result.Admin.ID,
			Email: result.Admin.Email,
			Name:  result.Admin.Name,
		},
	})
}

// Me answers with the current session or JSON null; it never fails.
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := h.adminService.Me(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		AdminID: claims.AdminID,
		Email:   claims.Email,
		Name:    claims.Name,
	})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.AdminSessionCookie); err == nil {
		h.adminService.Logout(cookie.Value)
	}

	event := audit.Event{Type: audit.EventLogout}
	if claims, ok := session.FromContext(r.Context()); ok {
		event.AdminID = claims.AdminID
	}
	audit.LogFromRequest(r, event)

	middleware.ClearSessionCookie(w, h.secureCookie)
	writeSuccess(w)
}

func (h *AdminHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentEmail string `json:"currentEmail"`
		NewEmail     string `json:"newEmail"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	issued, err := h.adminService.UpdateEmail(r.Context(), req.CurrentEmail, req.NewEmail)
	if err != nil {
		writeError(w, err)
		return
	}

	claims, _ := session.FromContext(r.Context())
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventEmailChange,
		AdminID: claims.AdminID,
		Details: map[string]any{"from": req.CurrentEmail, "to": req.NewEmail},
	})

	if issued != nil {
		middleware.SetSessionCookie(w, issued.Token, h.adminService.SessionTTL(), h.secureCookie)
	}
	writeSuccess(w)
}

func (h *AdminHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.adminService.UpdatePassword(r.Context(), req.Email, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	claims, _ := session.FromContext(r.Context())
	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordChange, AdminID: claims.AdminID, Email: req.Email})
	writeSuccess(w)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
