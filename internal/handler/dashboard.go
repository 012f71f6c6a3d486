package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/repository"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/occupancy", h.occupancy)
	r.Get("/dashboard/rent", h.rent)
}

func (h DashboardHandler) occupancy(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	s, err := h.Repo.Occupancy(r.Context(), branchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalBeds":     s.TotalBeds,
		"occupiedBeds":  s.OccupiedBeds,
		"availableBeds": s.TotalBeds - s.OccupiedBeds,
		"pending":       s.PendingCount,
		"active":        s.ActiveCount,
		"noticePeriod":  s.NoticeCount,
		"inactive":      s.InactiveCount,
		"overdue":       s.OverdueCount,
	})
}

func (h DashboardHandler) rent(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	now := time.Now()
	s, err := h.Repo.Rent(r.Context(), branchID, now.Month().String(), now.Year())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"collectedThisMonth": s.CollectedThisMonth,
		"paymentsThisMonth":  s.PaymentsThisMonth,
		"unpaidResidents":    s.UnpaidResidents,
	})
}
