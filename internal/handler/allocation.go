package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
)

type AllocationHandler struct {
	Service service.AllocationService
}

func (h AllocationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/residents/{id}/switches", h.switchHistory)
}

func (h AllocationHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/residents/{id}/allocate", h.allocate)
	r.Post("/residents/{id}/switch", h.switchRoom)
}

func (h AllocationHandler) allocate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		RoomID    int64 `json:"roomId"`
		BedNumber int   `json:"bedNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Allocate(r.Context(), id, req.RoomID, req.BedNumber, actorName(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, residentResponse(res))
}

func (h AllocationHandler) switchRoom(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		RoomID    int64  `json:"roomId"`
		BedNumber int    `json:"bedNumber"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.Service.SwitchRoom(r.Context(), id, req.RoomID, req.BedNumber, req.Reason, actorName(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resident": residentResponse(result.Resident),
		"previous": map[string]any{
			"roomId":    result.Switch.FromRoomID,
			"bedNumber": result.Switch.FromBed,
		},
		"current": map[string]any{
			"roomId":    result.Switch.ToRoomID,
			"bedNumber": result.Switch.ToBed,
		},
	})
}

func (h AllocationHandler) switchHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.Service.SwitchHistory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, sw := range items {
		resp = append(resp, map[string]any{
			"id":         sw.ID,
			"fromRoomId": sw.FromRoomID,
			"toRoomId":   sw.ToRoomID,
			"fromBed":    sw.FromBed,
			"toBed":      sw.ToBed,
			"reason":     sw.Reason,
			"switchedAt": sw.SwitchedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
