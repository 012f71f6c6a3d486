package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/server/authctx"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
)

type ResidentHandler struct {
	Service  service.ResidentService
	Currency string
}

func (h ResidentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/residents", h.list)
	r.Get("/residents/{id}", h.get)
}

func (h ResidentHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/residents", h.create)
}

// RegisterPublicRoutes exposes the QR self-registration endpoint; the token
// in the URL identifies the branch.
func (h ResidentHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/register/{token}", h.selfRegister)
}

type residentPayload struct {
	BranchID        int64  `json:"branchId"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	RentAmount      int64  `json:"rentAmount"`
	AdvancePayment  int64  `json:"advancePayment"`
	SecurityDeposit int64  `json:"securityDeposit"`
}

func (p residentPayload) toInput(currency string) service.CreateResidentInput {
	return service.CreateResidentInput{
		BranchID:        p.BranchID,
		Name:            p.Name,
		Phone:           p.Phone,
		Email:           p.Email,
		RentAmount:      domain.Money{Amount: p.RentAmount, Currency: currency},
		AdvancePayment:  domain.Money{Amount: p.AdvancePayment, Currency: currency},
		SecurityDeposit: domain.Money{Amount: p.SecurityDeposit, Currency: currency},
	}
}

func (h ResidentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req residentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.CreatePending(r.Context(), req.toInput(h.Currency), actorName(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, residentResponse(res))
}

func (h ResidentHandler) selfRegister(w http.ResponseWriter, r *http.Request) {
	var req residentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	// Self-registered residents never set their own money fields.
	req.RentAmount, req.AdvancePayment, req.SecurityDeposit = 0, 0, 0
	res, err := h.Service.RegisterViaToken(r.Context(), chi.URLParam(r, "token"), req.toInput(h.Currency))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     res.ID,
		"status": string(res.Status),
	})
}

func (h ResidentHandler) list(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	items, err := h.Service.ListByBranch(r.Context(), branchID, r.URL.Query().Get("status"))
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

func (h ResidentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	res, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, residentResponse(res))
}

func residentResponse(res *domain.Resident) map[string]any {
	out := map[string]any{
		"id":               res.ID,
		"branchId":         res.BranchID,
		"name":             res.Name,
		"phone":            res.Phone,
		"email":            res.Email,
		"roomId":           res.RoomID,
		"bedNumber":        res.BedNumber,
		"status":           string(res.Status),
		"rentAmount":       res.RentAmount.Amount,
		"advancePayment":   res.AdvancePayment.Amount,
		"securityDeposit":  res.SecurityDeposit.Amount,
		"currency":         res.RentAmount.Currency,
		"currentMonthPaid": res.CurrentMonthPaid,
		"noticeDays":       res.NoticeDays,
	}
	if res.CheckInDate != nil {
		out["checkInDate"] = res.CheckInDate.Format(dateLayout)
	}
	if res.CheckOutDate != nil {
		out["checkOutDate"] = res.CheckOutDate.Format(dateLayout)
	}
	if res.VacationDate != nil {
		out["vacationDate"] = res.VacationDate.Format(dateLayout)
	}
	return out
}

// actorName identifies the operator for activity events; public routes have
// no authenticated user.
func actorName(r *http.Request) string {
	if user := authctx.FromContext(r.Context()); user != nil {
		return user.Email
	}
	return "anonymous"
}
