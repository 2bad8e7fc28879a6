package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// ApplicationHandlers provides HTTP handlers for applications and saved
// jobs, covering both the student and the employer side.
type ApplicationHandlers struct {
	Svc *service.ApplicationService
}

// Apply submits an application to an open listing.
// POST /api/applications.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	app, err := h.Svc.Apply(r.Context(), sess.UserID, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, app)
}

// ListMine returns the student's applications with listing titles.
// GET /api/applications.
func (h *ApplicationHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	apps, err := h.Svc.ListMine(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// Withdraw removes the student's own application.
// DELETE /api/applications/{id}.
func (h *ApplicationHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.Svc.Withdraw(r.Context(), sess.UserID, r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListReceived returns every application across the employer's listings.
// GET /api/employer/applications.
func (h *ApplicationHandlers) ListReceived(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	apps, err := h.Svc.ListForEmployer(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// ListForJob returns the applications for one owned listing.
// GET /api/jobs/{id}/applications.
func (h *ApplicationHandlers) ListForJob(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	apps, err := h.Svc.ListForJob(r.Context(), sess.UserID, r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

// UpdateStatus moves an application through the review pipeline.
// PUT /api/applications/{id}/status.
func (h *ApplicationHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.UpdateApplicationStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	app, err := h.Svc.UpdateStatus(r.Context(), sess.UserID, r.PathValue("id"), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, app)
}

// SaveJob bookmarks a listing for the student. Saving twice is a no-op.
// POST /api/saved-jobs/{jobID}.
func (h *ApplicationHandlers) SaveJob(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	saved, err := h.Svc.SaveJob(r.Context(), sess.UserID, r.PathValue("jobID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, saved)
}

// UnsaveJob removes a bookmark.
// DELETE /api/saved-jobs/{jobID}.
func (h *ApplicationHandlers) UnsaveJob(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.Svc.UnsaveJob(r.Context(), sess.UserID, r.PathValue("jobID")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSaved returns the student's bookmarks with listing details.
// GET /api/saved-jobs.
func (h *ApplicationHandlers) ListSaved(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	saved, err := h.Svc.ListSaved(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"saved_jobs": saved})
}
