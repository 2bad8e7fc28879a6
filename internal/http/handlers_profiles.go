package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// ProfileHandlers provides HTTP handlers for the caller's own profile and
// the admin user directory.
type ProfileHandlers struct {
	Svc *service.ProfileService
}

// Me returns the signed-in user's profile.
// GET /api/profile/me.
func (h *ProfileHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	profile, err := h.Svc.Get(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

// UpdateMe changes the signed-in user's display name.
// PUT /api/profile/me.
func (h *ProfileHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req updateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	profile, err := h.Svc.SetFullName(r.Context(), sess.UserID, req.FullName)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// List returns profiles for the admin directory, filterable by role and a
// free-text query over email and name.
// GET /api/admin/profiles?q=&role=&limit=&offset=.
func (h *ProfileHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 200)
	opts := model.ProfileListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if role := r.URL.Query().Get("role"); role != "" {
		opts.Role = &role
	}
	profiles, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// Get returns one profile by id for the admin directory.
// GET /api/admin/profiles/{id}.
func (h *ProfileHandlers) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// Delete removes an account.
// DELETE /api/admin/profiles/{id}.
func (h *ProfileHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
