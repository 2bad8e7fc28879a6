package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	"github.com/talentexcel/talentexcel-api/internal/service"
)

// OnboardingHandlers provides HTTP handlers for the post-registration
// onboarding flow: interests, achievements, and completion.
type OnboardingHandlers struct {
	Svc *service.OnboardingService
}

// SaveInterests replaces the user's interest list.
// PUT /api/onboarding/interests.
func (h *OnboardingHandlers) SaveInterests(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.SaveInterestsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	interests, err := h.Svc.SaveInterests(r.Context(), sess.UserID, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, interests)
}

// GetInterests returns the user's saved interests, or an empty list when
// none have been saved yet.
// GET /api/onboarding/interests.
func (h *OnboardingHandlers) GetInterests(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	interests, err := h.Svc.GetInterests(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if interests == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"interests": []string{}})
		return
	}
	WriteJSON(w, http.StatusOK, interests)
}

// AddAchievement records an achievement on the user's profile.
// POST /api/onboarding/achievements.
func (h *OnboardingHandlers) AddAchievement(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var req model.CreateAchievementRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	achievement, err := h.Svc.AddAchievement(r.Context(), sess.UserID, &req)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, achievement)
}

// ListAchievements returns the user's achievements.
// GET /api/onboarding/achievements.
func (h *OnboardingHandlers) ListAchievements(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	achievements, err := h.Svc.ListAchievements(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"achievements": achievements})
}

// DeleteAchievement removes one of the user's achievements.
// DELETE /api/onboarding/achievements/{id}.
func (h *OnboardingHandlers) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.Svc.DeleteAchievement(r.Context(), sess.UserID, r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete marks onboarding finished. Interests must be saved first.
// POST /api/onboarding/complete.
func (h *OnboardingHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if err := h.Svc.Complete(r.Context(), sess.UserID); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
