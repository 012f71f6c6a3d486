package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

var (
	sweepFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vacation_sweep_finalized_total",
		Help: "Residents finalized by the overdue-vacation sweep.",
	})
	sweepSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vacation_sweep_skipped_total",
		Help: "Residents another caller finalized first during a sweep.",
	})
	sweepErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vacation_sweep_errors_total",
		Help: "Per-resident failures during the overdue-vacation sweep.",
	})
)

// VacationSweeper finalizes notice-period residents whose vacation date has
// passed. It holds no timer of its own; cmd/server drives it on an interval
// and operators can trigger it over HTTP. Overlapping runs are harmless
// because each finalize is conditioned on the resident still being in
// notice_period.
type VacationSweeper struct {
	Residents ports.ResidentStore
	Lifecycle LifecycleService
	Logger    *slog.Logger
	Now       func() time.Time
}

// SweepEntry is one resident's outcome within a sweep.
type SweepEntry struct {
	ResidentID int64
	Name       string
	Error      string
}

// SweepResult reports a completed sweep. Failed entries never abort the
// batch; the caller sees exactly which residents succeeded.
type SweepResult struct {
	ProcessedCount int
	Processed      []SweepEntry
	Skipped        []SweepEntry
	Failed         []SweepEntry
}

// ListOverdue is the read-only preview dashboards use before running or
// instead of running the sweep.
func (s VacationSweeper) ListOverdue(ctx context.Context) ([]domain.Resident, error) {
	return s.Residents.ListOverdueNotice(ctx, s.now())
}

func (s VacationSweeper) ProcessOverdueVacations(ctx context.Context) (*SweepResult, error) {
	overdue, err := s.Residents.ListOverdueNotice(ctx, s.now())
	if err != nil {
		// The sweep could not start at all; this is the only error the
		// caller sees.
		return nil, err
	}

	result := &SweepResult{}
	for _, res := range overdue {
		entry := SweepEntry{ResidentID: res.ID, Name: res.Name}
		_, applied, err := s.Lifecycle.FinalizeVacation(ctx, res.ID, "vacation-sweep")
		switch {
		case err != nil:
			entry.Error = err.Error()
			result.Failed = append(result.Failed, entry)
			sweepErrors.Inc()
			if s.Logger != nil {
				s.Logger.Error("sweep: finalize failed", "resident", res.ID, "err", err)
			}
		case !applied:
			result.Skipped = append(result.Skipped, entry)
			sweepSkipped.Inc()
		default:
			result.Processed = append(result.Processed, entry)
			result.ProcessedCount++
			sweepFinalized.Inc()
		}
	}

	if s.Logger != nil {
		s.Logger.Info("vacation sweep complete",
			"overdue", len(overdue),
			"finalized", result.ProcessedCount,
			"skipped", len(result.Skipped),
			"failed", len(result.Failed))
	}
	return result, nil
}

func (s VacationSweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
