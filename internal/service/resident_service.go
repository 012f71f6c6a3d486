package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

// ResidentService is the record store for residents: creation always starts
// at pending with no bed, and both room and bed only ever change together
// through the allocation paths.
type ResidentService struct {
	Residents ports.ResidentStore
	Branches  ports.BranchStore
	Activity  ports.ActivityRecorder
	Logger    *slog.Logger
}

type CreateResidentInput struct {
	BranchID        int64
	Name            string
	Phone           string
	Email           string
	RentAmount      domain.Money
	AdvancePayment  domain.Money
	SecurityDeposit domain.Money
}

func (s ResidentService) CreatePending(ctx context.Context, in CreateResidentInput, actor string) (*domain.Resident, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Validationf("name", "required")
	}
	if !validPhone(in.Phone) {
		return nil, domain.Validationf("phone", "must be at least 7 digits")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return nil, domain.Validationf("email", "invalid address")
	}

	res, err := s.Residents.CreatePending(ctx, ports.CreateResidentParams{
		BranchID:        in.BranchID,
		Name:            strings.TrimSpace(in.Name),
		Phone:           in.Phone,
		Email:           in.Email,
		RentAmount:      in.RentAmount,
		AdvancePayment:  in.AdvancePayment,
		SecurityDeposit: in.SecurityDeposit,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventResidentRegistered,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "resident registered as pending",
	})
	return res, nil
}

// RegisterViaToken handles the public QR self-registration flow: the token
// identifies the branch, and the resident lands as pending for an admin to
// allocate later.
func (s ResidentService) RegisterViaToken(ctx context.Context, token string, in CreateResidentInput) (*domain.Resident, error) {
	branch, err := s.Branches.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	in.BranchID = branch.ID
	return s.CreatePending(ctx, in, "self-registration")
}

func (s ResidentService) Get(ctx context.Context, id int64) (*domain.Resident, error) {
	return s.Residents.Get(ctx, id)
}

func (s ResidentService) ListByBranch(ctx context.Context, branchID int64, statusFilter string) ([]domain.Resident, error) {
	var status *domain.ResidentStatus
	if statusFilter != "" {
		st := domain.ResidentStatus(statusFilter)
		switch st {
		case domain.StatusPending, domain.StatusActive, domain.StatusNoticePeriod, domain.StatusInactive:
			status = &st
		default:
			return nil, domain.Validationf("status", "unknown status %q", statusFilter)
		}
	}
	return s.Residents.ListByBranch(ctx, branchID, status)
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 7
}

func (s ResidentService) record(ctx context.Context, ev domain.ActivityEvent) {
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to record activity", "type", ev.Type, "entity", ev.EntityID, "err", err)
	}
}
