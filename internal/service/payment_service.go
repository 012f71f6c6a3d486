package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

// PaymentService reconciles monthly rent per resident. Months are tracked
// by calendar month name plus year, matching how operators mark rent.
type PaymentService struct {
	Payments  ports.PaymentStore
	Residents ports.ResidentStore
	Activity  ports.ActivityRecorder
	Logger    *slog.Logger
	Now       func() time.Time
}

type MarkPaidInput struct {
	PaymentDate   time.Time
	PaymentMethod domain.PaymentMethod
	ReceiptImage  string
	// Amount overrides the resident's rent when set (partial/adjusted
	// collections); zero means use the rent amount.
	Amount int64
}

// Summary is the aggregate the offboarding review screen renders.
type Summary struct {
	CurrentMonth    CurrentMonthStatus
	TotalPaid       domain.Money
	TotalMonths     int
	PendingAmount   domain.Money
	AdvancePayment  domain.Money
	SecurityDeposit domain.Money
	RecentPayments  []domain.Payment
}

type CurrentMonthStatus struct {
	IsPaid bool
	Amount domain.Money
	Status string
}

func (s PaymentService) IsCurrentMonthPaid(ctx context.Context, residentID int64) (bool, error) {
	month, year := s.currentMonth()
	pay, err := s.Payments.GetActive(ctx, residentID, month, year)
	if err != nil {
		return false, err
	}
	return pay != nil, nil
}

func (s PaymentService) MarkPaid(ctx context.Context, residentID int64, in MarkPaidInput, actor string) (*domain.Payment, error) {
	if in.PaymentMethod != domain.PaymentCash && in.PaymentMethod != domain.PaymentUPI {
		return nil, domain.Validationf("paymentMethod", "must be %q or %q", domain.PaymentCash, domain.PaymentUPI)
	}
	if in.PaymentMethod == domain.PaymentUPI && in.ReceiptImage == "" {
		return nil, domain.Validationf("receiptImage", "required for upi payments")
	}
	if in.PaymentDate.IsZero() {
		return nil, domain.Validationf("paymentDate", "required")
	}

	res, err := s.Residents.Get(ctx, residentID)
	if err != nil {
		return nil, err
	}

	amount := res.RentAmount
	if in.Amount > 0 {
		amount.Amount = in.Amount
	}

	month, year := s.currentMonth()
	pay, err := s.Payments.Insert(ctx, ports.CreatePaymentParams{
		BranchID:      res.BranchID,
		ResidentID:    res.ID,
		Month:         month,
		Year:          year,
		Amount:        amount,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   in.PaymentDate,
		ReceiptImage:  in.ReceiptImage,
		MarkedBy:      actor,
	})
	if err != nil {
		return nil, err
	}

	// The cached badge flag is a convenience; a failed update self-heals on
	// the next refresh.
	if err := s.Residents.SetCurrentMonthPaid(ctx, res.ID, true); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to cache paid flag", "resident", res.ID, "err", err)
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventPaymentMarked,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "rent marked paid for " + month,
		Metadata: map[string]any{
			"paymentId": pay.ID,
			"month":     month,
			"year":      year,
			"amount":    pay.Amount.Amount,
			"method":    string(pay.PaymentMethod),
		},
	})
	return pay, nil
}

// RefreshStatus recomputes one resident's cached current-month flag.
func (s PaymentService) RefreshStatus(ctx context.Context, residentID int64) (bool, error) {
	paid, err := s.IsCurrentMonthPaid(ctx, residentID)
	if err != nil {
		return false, err
	}
	if err := s.Residents.SetCurrentMonthPaid(ctx, residentID, paid); err != nil {
		return false, err
	}
	return paid, nil
}

// RefreshAllForBranch recomputes the cached flag for every non-inactive
// resident in the branch. Called before rendering lists so badges stay
// correct after a month rollover.
func (s PaymentService) RefreshAllForBranch(ctx context.Context, branchID int64) (int64, error) {
	month, year := s.currentMonth()
	return s.Residents.RefreshPaidFlags(ctx, branchID, month, year)
}

func (s PaymentService) VoidPayment(ctx context.Context, paymentID int64, actor string) error {
	pay, err := s.Payments.Void(ctx, paymentID)
	if err != nil {
		return err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: pay.BranchID,
		Type:     domain.EventPaymentVoided,
		EntityID: pay.ResidentID,
		Actor:    actor,
		Message:  "payment voided for " + pay.Month,
		Metadata: map[string]any{
			"paymentId": pay.ID,
			"month":     pay.Month,
			"year":      pay.Year,
			"amount":    pay.Amount.Amount,
		},
	})
	return nil
}

func (s PaymentService) GetSummary(ctx context.Context, residentID int64) (*Summary, error) {
	res, err := s.Residents.Get(ctx, residentID)
	if err != nil {
		return nil, err
	}
	totals, err := s.Payments.Totals(ctx, residentID)
	if err != nil {
		return nil, err
	}
	recent, err := s.Payments.ListByResident(ctx, residentID, 12)
	if err != nil {
		return nil, err
	}
	month, year := s.currentMonth()
	current, err := s.Payments.GetActive(ctx, residentID, month, year)
	if err != nil {
		return nil, err
	}

	cm := CurrentMonthStatus{Amount: res.RentAmount, Status: "pending"}
	if current != nil {
		cm.IsPaid = true
		cm.Amount = current.Amount
		cm.Status = "paid"
	}

	expected := s.expectedMonths(res)
	pending := expected*res.RentAmount.Amount - totals.TotalPaid
	if pending < 0 {
		pending = 0
	}

	cur := res.RentAmount.Currency
	return &Summary{
		CurrentMonth:    cm,
		TotalPaid:       domain.Money{Amount: totals.TotalPaid, Currency: cur},
		TotalMonths:     totals.TotalMonths,
		PendingAmount:   domain.Money{Amount: pending, Currency: cur},
		AdvancePayment:  res.AdvancePayment,
		SecurityDeposit: res.SecurityDeposit,
		RecentPayments:  recent,
	}, nil
}

// expectedMonths counts calendar months from check-in through now,
// inclusive, stopping at check-out for archived residents. A resident who
// never checked in owes nothing yet.
func (s PaymentService) expectedMonths(res *domain.Resident) int64 {
	if res.CheckInDate == nil {
		return 0
	}
	until := s.now()
	if res.Status == domain.StatusInactive && res.CheckOutDate != nil {
		until = *res.CheckOutDate
	}
	if until.Before(*res.CheckInDate) {
		return 0
	}
	in := *res.CheckInDate
	months := (until.Year()-in.Year())*12 + int(until.Month()) - int(in.Month()) + 1
	return int64(months)
}

func (s PaymentService) currentMonth() (string, int) {
	now := s.now()
	return now.Month().String(), now.Year()
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s PaymentService) record(ctx context.Context, ev domain.ActivityEvent) {
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to record activity", "type", ev.Type, "entity", ev.EntityID, "err", err)
	}
}
