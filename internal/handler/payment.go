package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
)

type PaymentHandler struct {
	Service service.PaymentService
}

func (h PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/residents/{id}/payments/summary", h.summary)
	r.Get("/residents/{id}/payments/current", h.currentMonth)
}

func (h PaymentHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/residents/{id}/payments", h.markPaid)
	r.Post("/payments/refresh", h.refreshBranch)
	r.Delete("/payments/{id}", h.void)
}

func (h PaymentHandler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		PaymentDate   string `json:"paymentDate"`
		PaymentMethod string `json:"paymentMethod"`
		ReceiptImage  string `json:"receiptImage"`
		Amount        int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	paymentDate, err := parseDateBody(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "paymentDate must be YYYY-MM-DD")
		return
	}
	var date time.Time
	if paymentDate != nil {
		date = *paymentDate
	}
	pay, err := h.Service.MarkPaid(r.Context(), id, service.MarkPaidInput{
		PaymentDate:   date,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		ReceiptImage:  req.ReceiptImage,
		Amount:        req.Amount,
	}, actorName(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentResponse(*pay))
}

func (h PaymentHandler) currentMonth(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	paid, err := h.Service.IsCurrentMonthPaid(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"isPaid": paid})
}

func (h PaymentHandler) refreshBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := branchIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	refreshed, err := h.Service.RefreshAllForBranch(r.Context(), branchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"refreshed": refreshed})
}

func (h PaymentHandler) void(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.VoidPayment(r.Context(), id, actorName(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "voided"})
}

func (h PaymentHandler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Service.GetSummary(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recent := make([]map[string]any, 0, len(s.RecentPayments))
	for _, pay := range s.RecentPayments {
		recent = append(recent, paymentResponse(pay))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentMonth": map[string]any{
			"isPaid": s.CurrentMonth.IsPaid,
			"amount": s.CurrentMonth.Amount.Amount,
			"status": s.CurrentMonth.Status,
		},
		"totalPaid":       s.TotalPaid.Amount,
		"totalMonths":     s.TotalMonths,
		"pendingAmount":   s.PendingAmount.Amount,
		"advancePayment":  s.AdvancePayment.Amount,
		"securityDeposit": s.SecurityDeposit.Amount,
		"currency":        s.TotalPaid.Currency,
		"recentPayments":  recent,
	})
}

func paymentResponse(pay domain.Payment) map[string]any {
	return map[string]any{
		"id":            pay.ID,
		"residentId":    pay.ResidentID,
		"month":         pay.Month,
		"year":          pay.Year,
		"amount":        pay.Amount.Amount,
		"currency":      pay.Amount.Currency,
		"paymentMethod": string(pay.PaymentMethod),
		"paymentDate":   pay.PaymentDate.Format(dateLayout),
		"receiptImage":  pay.ReceiptImage,
		"markedBy":      pay.MarkedBy,
		"markedAt":      pay.MarkedAt,
	}
}
