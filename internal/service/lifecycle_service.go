package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

// LifecycleService drives resident status transitions:
//
//	pending -> active -> notice_period -> inactive
//	                  \________________-> inactive (immediate)
//
// inactive is terminal. The pending->active edge belongs to the
// AllocationService; everything from active onward happens here. All
// writes are conditioned on the source state at the storage layer, so
// concurrent callers can never double-apply a transition.
type LifecycleService struct {
	Residents ports.ResidentStore
	Activity  ports.ActivityRecorder
	Logger    *slog.Logger
	Now       func() time.Time
}

// VacateRequest describes either an immediate vacation or a future-dated
// notice-period vacation.
type VacateRequest struct {
	Type         domain.VacateType
	NoticeDays   int
	VacationDate *time.Time
}

func (s LifecycleService) Vacate(ctx context.Context, residentID int64, req VacateRequest, actor string) (*domain.Resident, error) {
	switch req.Type {
	case domain.VacateImmediate:
		return s.vacateImmediate(ctx, residentID, actor)
	case domain.VacateNotice:
		return s.vacateNotice(ctx, residentID, req, actor)
	default:
		return nil, domain.Validationf("type", "must be %q or %q", domain.VacateImmediate, domain.VacateNotice)
	}
}

func (s LifecycleService) vacateImmediate(ctx context.Context, residentID int64, actor string) (*domain.Resident, error) {
	res, err := s.Residents.VacateNow(ctx, residentID, s.now())
	if err != nil {
		// A repeat call on an already-vacated resident changes nothing and
		// is reported as success with the current record; the bed was freed
		// exactly once by whoever got there first.
		if errors.Is(err, domain.ErrInvalidTransition) {
			if cur, getErr := s.Residents.Get(ctx, residentID); getErr == nil && cur.Status == domain.StatusInactive {
				return cur, nil
			}
		}
		return nil, err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventResidentVacated,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "resident vacated immediately",
		Metadata: map[string]any{"vacateType": string(domain.VacateImmediate)},
	})
	return res, nil
}

func (s LifecycleService) vacateNotice(ctx context.Context, residentID int64, req VacateRequest, actor string) (*domain.Resident, error) {
	if req.NoticeDays < 1 || req.NoticeDays > domain.MaxNoticeDays {
		return nil, domain.Validationf("noticeDays", "must be between 1 and %d", domain.MaxNoticeDays)
	}
	now := s.now()
	vacationDate := now.AddDate(0, 0, req.NoticeDays)
	if req.VacationDate != nil {
		vacationDate = *req.VacationDate
	}
	if !vacationDate.After(now) {
		return nil, domain.Validationf("vacationDate", "must be in the future")
	}

	res, err := s.Residents.StartNotice(ctx, residentID, req.NoticeDays, vacationDate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			if cur, getErr := s.Residents.Get(ctx, residentID); getErr == nil && cur.Status == domain.StatusNoticePeriod {
				return cur, nil
			}
		}
		return nil, err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventResidentVacated,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "resident serving notice period",
		Metadata: map[string]any{
			"vacateType":   string(domain.VacateNotice),
			"noticeDays":   req.NoticeDays,
			"vacationDate": vacationDate.Format("2006-01-02"),
		},
	})
	return res, nil
}

// FinalizeVacation completes a notice-period vacation: the bed is reclaimed
// and the resident archived. The second of two racing callers gets
// applied=false and the already-inactive record, never an error and never a
// second deallocation.
func (s LifecycleService) FinalizeVacation(ctx context.Context, residentID int64, actor string) (*domain.Resident, bool, error) {
	res, applied, err := s.Residents.FinalizeVacation(ctx, residentID, s.now())
	if err != nil || !applied {
		return res, applied, err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventVacationFinalized,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "notice-period vacation finalized",
	})
	return res, true, nil
}

func (s LifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s LifecycleService) record(ctx context.Context, ev domain.ActivityEvent) {
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to record activity", "type", ev.Type, "entity", ev.EntityID, "err", err)
	}
}
