package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
)

type VacationHandler struct {
	Lifecycle service.LifecycleService
	Sweeper   service.VacationSweeper
}

func (h VacationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/vacations/overdue", h.listOverdue)
}

func (h VacationHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/residents/{id}/vacate", h.vacate)
	r.Post("/residents/{id}/vacate/finalize", h.finalize)
	r.Post("/vacations/sweep", h.sweep)
}

func (h VacationHandler) vacate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Type         string `json:"type"`
		NoticeDays   int    `json:"noticeDays"`
		VacationDate string `json:"vacationDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	vacationDate, err := parseDateBody(req.VacationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "vacationDate must be YYYY-MM-DD")
		return
	}
	res, err := h.Lifecycle.Vacate(r.Context(), id, service.VacateRequest{
		Type:         domain.VacateType(req.Type),
		NoticeDays:   req.NoticeDays,
		VacationDate: vacationDate,
	}, actorName(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, residentResponse(res))
}

func (h VacationHandler) finalize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	res, applied, err := h.Lifecycle.FinalizeVacation(r.Context(), id, actorName(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resident": residentResponse(res),
		"applied":  applied,
	})
}

func (h VacationHandler) listOverdue(w http.ResponseWriter, r *http.Request) {
	items, err := h.Sweeper.ListOverdue(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, residentResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h VacationHandler) sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Sweeper.ProcessOverdueVacations(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"processedCount": result.ProcessedCount,
		"processed":      sweepEntries(result.Processed),
		"skipped":        sweepEntries(result.Skipped),
		"failed":         sweepEntries(result.Failed),
	})
}

func sweepEntries(entries []service.SweepEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		item := map[string]any{
			"residentId": e.ResidentID,
			"name":       e.Name,
		}
		if e.Error != "" {
			item["error"] = e.Error
		}
		out = append(out, item)
	}
	return out
}
