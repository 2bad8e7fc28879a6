package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// WebhookHandlers provides HTTP handlers for an employer's application
// webhooks.
type WebhookHandlers struct {
	Svc *service.WebhookService
}

// Create registers a webhook endpoint for the employer.
// POST /api/employer/webhooks.
func (h *WebhookHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.CreateWebhookRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	hook, err := h.Svc.Create(r.Context(), sess.UserID, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, hook)
}

// List returns the employer's webhooks.
// GET /api/employer/webhooks.
func (h *WebhookHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	hooks, err := h.Svc.List(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"webhooks": hooks})
}

// Get returns one of the employer's webhooks.
// GET /api/employer/webhooks/{id}.
func (h *WebhookHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	hook, err := h.Svc.Get(r.Context(), sess.UserID, r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, hook)
}

// Update changes a webhook's endpoint, filter, or enabled flag.
// PUT /api/employer/webhooks/{id}.
func (h *WebhookHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.UpdateWebhookRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	hook, err := h.Svc.Update(r.Context(), sess.UserID, r.PathValue("id"), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, hook)
}

// Delete removes a webhook.
// DELETE /api/employer/webhooks/{id}.
func (h *WebhookHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.Svc.Delete(r.Context(), sess.UserID, r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
