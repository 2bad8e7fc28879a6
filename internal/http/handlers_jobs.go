package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// JobHandlers provides HTTP handlers for job listings: public search and
// lookup plus employer-owned listing management.
type JobHandlers struct {
	Svc *service.JobService
}

// Search lists published job listings matching the query.
// GET /api/jobs?q=&location=&type=&remote=&limit=&offset=.
func (h *JobHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.JobSearchFilter{
		Query:    q.Get("q"),
		Location: q.Get("location"),
		Type:     model.JobType(q.Get("type")),
	}
	if raw := q.Get("remote"); raw != "" {
		remote := raw == "true" || raw == "1"
		filter.Remote = &remote
	}
	limit, offset := ParseLimitOffset(r, 50, 100)

	jobs, err := h.Svc.Search(r.Context(), filter, model.JobListOptions{Limit: limit, Offset: offset})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// Get returns one listing. Drafts and closed listings stay visible to the
// owning employer only.
// GET /api/jobs/{id}.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if sess := SessionFromContext(r.Context()); sess != nil {
		viewerID = sess.UserID
	}
	job, err := h.Svc.Get(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Create posts a new listing for the signed-in employer.
// POST /api/jobs.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.Create(r.Context(), sess.UserID, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

// ListMine returns the employer's own listings in every status.
// GET /api/employer/jobs.
func (h *JobHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	limit, offset := ParseLimitOffset(r, 50, 100)
	jobs, err := h.Svc.ListByEmployer(r.Context(), sess.UserID, model.JobListOptions{Limit: limit, Offset: offset})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// Update applies a partial update to an owned listing.
// PUT /api/jobs/{id}.
func (h *JobHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.UpdateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.Update(r.Context(), sess.UserID, r.PathValue("id"), req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Publish makes an owned listing visible to applicants.
// POST /api/jobs/{id}/publish.
func (h *JobHandlers) Publish(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	job, err := h.Svc.Publish(r.Context(), sess.UserID, r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Close stops an owned listing from accepting applications.
// POST /api/jobs/{id}/close.
func (h *JobHandlers) Close(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	job, err := h.Svc.Close(r.Context(), sess.UserID, r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// Delete removes an owned listing.
// DELETE /api/jobs/{id}.
func (h *JobHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.Svc.Delete(r.Context(), sess.UserID, r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
