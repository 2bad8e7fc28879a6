package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// CollegeDomainHandlers manages the recognized college domain allowlist
// and exposes the public pre-signup domain check.
type CollegeDomainHandlers struct {
	Svc *service.CollegeDomainService
}

// Verify reports whether an email address belongs to a recognized
// college. The signup form calls this before submitting.
// GET /api/college-domains/verify?email=.
func (h *CollegeDomainHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	ok, err := h.Svc.VerifyEmailDomain(r.Context(), email)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"recognized": ok})
}

// Create adds a domain to the allowlist.
// POST /api/admin/college-domains.
func (h *CollegeDomainHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCollegeDomainRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	entry, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// List pages through the allowlist.
// GET /api/admin/college-domains.
func (h *CollegeDomainHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 500)
	entries, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"college_domains": entries})
}

// Get returns one allowlist entry.
// GET /api/admin/college-domains/{id}.
func (h *CollegeDomainHandlers) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// Delete removes an allowlist entry.
// DELETE /api/admin/college-domains/{id}.
func (h *CollegeDomainHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
