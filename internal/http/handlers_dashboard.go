package httpx

import (
	"context"
	"net/http"

	"github.com/dentnotion/dentnotion/internal/service"
)

// DashboardSource is the aggregate view the dashboard handler serves.
type DashboardSource interface {
	Snapshot(ctx context.Context) (service.Snapshot, error)
}

// DashboardHandlers serves the aggregated overview figures.
type DashboardHandlers struct {
	source DashboardSource
}

// NewDashboardHandlers constructs DashboardHandlers.
func NewDashboardHandlers(source DashboardSource) *DashboardHandlers {
	return &DashboardHandlers{source: source}
}

// Snapshot returns the joined dashboard figures. Any upstream failure fails
// the whole snapshot; there is no partial payload.
func (h *DashboardHandlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Snapshot(r.Context())
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}
