package repository

import (
	"context"

	"github.com/srikanth112236/pg-application-sub004/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type OccupancySummary struct {
	TotalBeds     int64
	OccupiedBeds  int64
	PendingCount  int64
	ActiveCount   int64
	NoticeCount   int64
	InactiveCount int64
	OverdueCount  int64
}

type RentSummary struct {
	CollectedThisMonth int64
	PaymentsThisMonth  int64
	UnpaidResidents    int64
}

func (r DashboardRepository) Occupancy(ctx context.Context, branchID int64) (OccupancySummary, error) {
	var s OccupancySummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(bed_count) FROM rooms WHERE branch_id=$1 AND deleted_at IS NULL),0) AS total_beds,
			COUNT(*) FILTER (WHERE status IN ('active','notice_period') AND room_id IS NOT NULL) AS occupied,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'notice_period') AS notice,
			COUNT(*) FILTER (WHERE status = 'inactive') AS inactive,
			COUNT(*) FILTER (WHERE status = 'notice_period' AND vacation_date <= CURRENT_DATE) AS overdue
		FROM residents
		WHERE branch_id=$1 AND deleted_at IS NULL
	`, branchID).Scan(&s.TotalBeds, &s.OccupiedBeds, &s.PendingCount, &s.ActiveCount, &s.NoticeCount, &s.InactiveCount, &s.OverdueCount)
	return s, err
}

func (r DashboardRepository) Rent(ctx context.Context, branchID int64, month string, year int) (RentSummary, error) {
	var s RentSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM payments WHERE branch_id=$1 AND month=$2 AND year=$3 AND is_active),0) AS collected,
			COALESCE((SELECT COUNT(*) FROM payments WHERE branch_id=$1 AND month=$2 AND year=$3 AND is_active),0) AS cnt,
			COUNT(*) FILTER (WHERE status IN ('active','notice_period') AND NOT current_month_paid) AS unpaid
		FROM residents
		WHERE branch_id=$1 AND deleted_at IS NULL
	`, branchID, month, year).Scan(&s.CollectedThisMonth, &s.PaymentsThisMonth, &s.UnpaidResidents)
	return s, err
}
