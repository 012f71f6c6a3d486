package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
)

type RoomHandler struct {
	Service  service.InventoryService
	Currency string
}

func (h RoomHandler) RegisterRoutes(r chi.Router) {
	r.Get("/rooms", h.list)
	r.Get("/rooms/available-beds", h.availableBeds)
	r.Get("/rooms/{id}/occupancy", h.occupancy)
}

func (h RoomHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/rooms", h.create)
	r.Delete("/rooms/{id}", h.delete)
}

func (h RoomHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID    int64  `json:"branchId"`
		RoomNumber  string `json:"roomNumber"`
		SharingType int    `json:"sharingType"`
		CostPerBed  int64  `json:"costPerBed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	room, err := h.Service.CreateRoom(r.Context(), ports.CreateRoomParams{
		BranchID:    req.BranchID,
		RoomNumber:  req.RoomNumber,
		SharingType: req.SharingType,
		CostPerBed:  domain.Money{Amount: req.CostPerBed, Currency: h.Currency},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roomResponse(*room))
}

func (h RoomHandler) list(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	rooms, err := h.Service.ListRooms(r.Context(), branchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, roomResponse(room))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h RoomHandler) availableBeds(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	items, err := h.Service.ListAvailableBeds(r.Context(), branchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, av := range items {
		resp = append(resp, map[string]any{
			"room":                roomResponse(av.Room),
			"sharingType":         av.Room.SharingType,
			"cost":                av.Room.CostPerBed.Amount,
			"availableBedNumbers": av.AvailableBeds,
			"occupiedBedNumbers":  av.OccupiedBeds,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h RoomHandler) occupancy(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	occ, err := h.Service.RoomOccupancy(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bedCount":      occ.BedCount,
		"occupiedCount": occ.OccupiedCount,
		"availableBeds": occ.AvailableBeds,
	})
}

func (h RoomHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.DeleteRoom(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func roomResponse(room domain.Room) map[string]any {
	return map[string]any{
		"id":          room.ID,
		"branchId":    room.BranchID,
		"roomNumber":  room.RoomNumber,
		"sharingType": room.SharingType,
		"bedCount":    room.BedCount,
		"costPerBed":  room.CostPerBed.Amount,
		"currency":    room.CostPerBed.Currency,
	}
}
