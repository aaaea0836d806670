package handler

import (
	"net/http"

	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/service"
)

type ContactHandler struct {
	contact *service.ContactService
}

func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeError(w, err)
		return
	}
	if err := h.contact.Send(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w)
}
