package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/repository"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	writeRawJSON(w, status, apiResponse{
		Status:  "ok",
		Message: "",
		Data:    payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Data:    nil,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

// writeDomainError maps the engine's error taxonomy onto HTTP statuses.
// Conflict errors keep actionable messages so the UI can tell the operator
// what to do instead of showing a generic failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrBedOccupied):
		writeError(w, http.StatusConflict, "this bed was just taken, pick another")
	case errors.Is(err, domain.ErrDuplicatePayment):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSameAssignment),
		errors.Is(err, domain.ErrAlreadyAllocated),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrRoomOccupied):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrResidentNotAllocated):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrResidentNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
