package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/repository"
)

// ActivityLogHandler reads back the events core operations emit. There is
// no write endpoint; the engine is the only writer.
type ActivityLogHandler struct {
	Repo repository.ActivityLogRepository
}

func (h ActivityLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/logs", h.list)
}

func (h ActivityLogHandler) list(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Repo.ListByBranch(r.Context(), branchID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, ev := range items {
		resp = append(resp, map[string]any{
			"id":        ev.ID,
			"type":      string(ev.Type),
			"entityId":  ev.EntityID,
			"actor":     ev.Actor,
			"message":   ev.Message,
			"metadata":  ev.Metadata,
			"timestamp": ev.LoggedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
