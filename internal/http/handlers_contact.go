package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// ContactHandlers provides the public contact form endpoint and the admin
// inbox behind it.
type ContactHandlers struct {
	Svc *service.ContactService
}

// Submit accepts a contact form message. No authentication required.
// POST /api/contact.
func (h *ContactHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.CreateContactMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	msg, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, msg)
}

// List returns received messages, newest first.
// GET /api/admin/contact-messages.
func (h *ContactHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 200)
	msgs, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// Delete removes a handled message.
// DELETE /api/admin/contact-messages/{id}.
func (h *ContactHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
