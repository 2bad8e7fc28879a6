package httpx

import (
	"net/http"

	"github.com/talentexcel/talentexcel-api/internal/service"
)

// DashboardHandlers serves the role-specific dashboard statistics.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// Stats returns the stats block matching the caller's role.
// GET /api/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	stats, err := h.Svc.StatsFor(r.Context(), *sess)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
