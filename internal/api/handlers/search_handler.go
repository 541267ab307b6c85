package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// SearchService defines the interface for the global search
type SearchService interface {
	PerformSearch(ctx context.Context, query string) (*entities.SearchResults, error)
}

// DashboardService defines the interface for the role dashboards
type DashboardService interface {
	SuperAdmin(ctx context.Context) (*services.SuperAdminDashboard, error)
	Staff(ctx context.Context, query string) (*services.StaffDashboard, error)
}

// SearchHandler handles search and dashboard requests
type SearchHandler struct {
	search     SearchService
	dashboards DashboardService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search SearchService, dashboards DashboardService) *SearchHandler {
	return &SearchHandler{
		search:     search,
		dashboards: dashboards,
	}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.PerformSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}

// SuperAdminDashboard handles GET /api/dashboard/super-admin
func (h *SearchHandler) SuperAdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboards.SuperAdmin(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}

// StaffDashboard handles GET /api/dashboard/staff?q=
func (h *SearchHandler) StaffDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboards.Staff(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}
