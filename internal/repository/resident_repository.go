package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

type ResidentRepository struct {
	DB *db.Postgres
}

const residentColumns = `
	id, branch_id, name, phone, email, room_id, bed_number, status,
	check_in_date, check_out_date, vacation_date, notice_days,
	rent_amount, advance_payment, security_deposit, currency,
	current_month_paid, created_at, updated_at`

func (r ResidentRepository) CreatePending(ctx context.Context, p ports.CreateResidentParams) (*domain.Resident, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO residents (branch_id, name, phone, email, status, rent_amount, advance_payment, security_deposit, currency, created_at, updated_at)
		VALUES ($1,$2,$3,$4,'pending',$5,$6,$7,$8, now(), now())
		RETURNING`+residentColumns,
		p.BranchID, p.Name, p.Phone, p.Email,
		p.RentAmount.Amount, p.AdvancePayment.Amount, p.SecurityDeposit.Amount, p.RentAmount.Currency)
	return scanResident(row)
}

func (r ResidentRepository) Get(ctx context.Context, id int64) (*domain.Resident, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT`+residentColumns+`
		FROM residents
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	res, err := scanResident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResidentNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r ResidentRepository) ListByBranch(ctx context.Context, branchID int64, status *domain.ResidentStatus) ([]domain.Resident, error) {
	query := `
		SELECT` + residentColumns + `
		FROM residents
		WHERE branch_id=$1 AND deleted_at IS NULL`
	args := []any{branchID}
	if status != nil {
		query += ` AND status=$2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResidents(rows)
}

// AssignBed activates the resident on (roomID, bed). The occupancy check and
// the write are one statement; the partial unique index on occupied beds is
// the backstop when two allocations race past the NOT EXISTS. A resident who
// already holds a bed is rejected here: moves go through SwitchBed only.
func (r ResidentRepository) AssignBed(ctx context.Context, residentID, roomID int64, bed int, checkIn time.Time) (*domain.Resident, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE residents
		SET room_id=$2, bed_number=$3, status='active',
		    check_in_date=COALESCE(check_in_date, $4), updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		  AND (status='pending' OR (status='active' AND room_id IS NULL))
		  AND NOT EXISTS (
		      SELECT 1 FROM residents o
		      WHERE o.room_id=$2 AND o.bed_number=$3
		        AND o.status IN ('active','notice_period')
		        AND o.id <> $1
		  )
		RETURNING`+residentColumns,
		residentID, roomID, bed, checkIn)
	res, err := scanResident(row)
	if err == nil {
		return res, nil
	}
	if db.IsUniqueViolation(err) {
		return nil, domain.ErrBedOccupied
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	cur, err := r.Get(ctx, residentID)
	if err != nil {
		return nil, err
	}
	switch {
	case cur.Status == domain.StatusActive && cur.Allocated():
		return nil, domain.ErrAlreadyAllocated
	case cur.Status != domain.StatusPending && cur.Status != domain.StatusActive:
		return nil, domain.ErrInvalidTransition
	default:
		return nil, domain.ErrBedOccupied
	}
}

// SwitchBed moves an allocated resident and writes the switch-history row in
// one transaction, so the audit trail never disagrees with the assignment.
func (r ResidentRepository) SwitchBed(ctx context.Context, residentID, newRoomID int64, newBed int, reason string) (*domain.Resident, *domain.RoomSwitch, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var (
		curRoom *int64
		curBed  *int
		status  string
	)
	err = tx.QueryRow(ctx, `
		SELECT room_id, bed_number, status FROM residents
		WHERE id=$1 AND deleted_at IS NULL
		FOR UPDATE
	`, residentID).Scan(&curRoom, &curBed, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrResidentNotFound
		}
		return nil, nil, err
	}
	if !domain.ResidentStatus(status).OccupiesBed() {
		return nil, nil, domain.ErrInvalidTransition
	}
	if curRoom == nil || curBed == nil {
		return nil, nil, domain.ErrResidentNotAllocated
	}
	if *curRoom == newRoomID && *curBed == newBed {
		return nil, nil, domain.ErrSameAssignment
	}

	row := tx.QueryRow(ctx, `
		UPDATE residents
		SET room_id=$2, bed_number=$3, updated_at=now()
		WHERE id=$1
		  AND NOT EXISTS (
		      SELECT 1 FROM residents o
		      WHERE o.room_id=$2 AND o.bed_number=$3
		        AND o.status IN ('active','notice_period')
		        AND o.id <> $1
		  )
		RETURNING`+residentColumns,
		residentID, newRoomID, newBed)
	res, err := scanResident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsUniqueViolation(err) {
			return nil, nil, domain.ErrBedOccupied
		}
		return nil, nil, err
	}

	sw := domain.RoomSwitch{
		ResidentID: residentID,
		FromRoomID: *curRoom,
		ToRoomID:   newRoomID,
		FromBed:    *curBed,
		ToBed:      newBed,
		Reason:     reason,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO room_switches (resident_id, from_room_id, to_room_id, from_bed, to_bed, reason, switched_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, switched_at
	`, sw.ResidentID, sw.FromRoomID, sw.ToRoomID, sw.FromBed, sw.ToBed, sw.Reason).Scan(&sw.ID, &sw.SwitchedAt)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, nil, domain.ErrBedOccupied
		}
		return nil, nil, err
	}
	return res, &sw, nil
}

func (r ResidentRepository) StartNotice(ctx context.Context, residentID int64, noticeDays int, vacationDate time.Time) (*domain.Resident, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE residents
		SET status='notice_period', notice_days=$2, vacation_date=$3, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL AND status='active' AND room_id IS NOT NULL
		RETURNING`+residentColumns,
		residentID, noticeDays, vacationDate)
	res, err := scanResident(row)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return nil, r.classifyAssignFailure(ctx, residentID, domain.StatusActive)
}

func (r ResidentRepository) VacateNow(ctx context.Context, residentID int64, checkOut time.Time) (*domain.Resident, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE residents
		SET status='inactive', room_id=NULL, bed_number=NULL,
		    check_out_date=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL AND status='active'
		RETURNING`+residentColumns,
		residentID, checkOut)
	res, err := scanResident(row)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return nil, r.classifyAssignFailure(ctx, residentID, domain.StatusActive)
}

// FinalizeVacation is conditioned on the resident still being in
// notice_period, so two overlapping sweeps (or a sweep racing a manual
// finalize) apply the side effects exactly once. The slower caller gets the
// already-inactive record with applied=false.
func (r ResidentRepository) FinalizeVacation(ctx context.Context, residentID int64, checkOut time.Time) (*domain.Resident, bool, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE residents
		SET status='inactive', room_id=NULL, bed_number=NULL,
		    check_out_date=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL AND status='notice_period'
		RETURNING`+residentColumns,
		residentID, checkOut)
	res, err := scanResident(row)
	if err == nil {
		return res, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	cur, err := r.Get(ctx, residentID)
	if err != nil {
		return nil, false, err
	}
	if cur.Status == domain.StatusInactive {
		return cur, false, nil
	}
	return nil, false, domain.ErrInvalidTransition
}

func (r ResidentRepository) ListOverdueNotice(ctx context.Context, asOf time.Time) ([]domain.Resident, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT`+residentColumns+`
		FROM residents
		WHERE status='notice_period' AND vacation_date <= $1 AND deleted_at IS NULL
		ORDER BY vacation_date ASC, id ASC
	`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResidents(rows)
}

func (r ResidentRepository) SetCurrentMonthPaid(ctx context.Context, residentID int64, paid bool) error {
	_, err := r.DB.Pool.Exec(ctx, `
		UPDATE residents SET current_month_paid=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, residentID, paid)
	return err
}

// RefreshPaidFlags recomputes the cached current-month flag for a whole
// branch from the active payment records, so badges stay correct after the
// month rolls over.
func (r ResidentRepository) RefreshPaidFlags(ctx context.Context, branchID int64, month string, year int) (int64, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE residents r
		SET current_month_paid = EXISTS (
			SELECT 1 FROM payments p
			WHERE p.resident_id=r.id AND p.month=$2 AND p.year=$3 AND p.is_active
		), updated_at=now()
		WHERE r.branch_id=$1 AND r.deleted_at IS NULL AND r.status <> 'inactive'
	`, branchID, month, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// classifyAssignFailure turns a zero-row conditional write into the precise
// domain error: the resident is gone, holds no bed, or is not in a state
// the operation accepts.
func (r ResidentRepository) classifyAssignFailure(ctx context.Context, residentID int64, allowed ...domain.ResidentStatus) error {
	cur, err := r.Get(ctx, residentID)
	if err != nil {
		return err
	}
	ok := false
	for _, s := range allowed {
		if cur.Status == s {
			ok = true
			break
		}
	}
	if !ok {
		return domain.ErrInvalidTransition
	}
	if !cur.Allocated() {
		return domain.ErrResidentNotAllocated
	}
	return domain.ErrInvalidTransition
}

func scanResident(row interface {
	Scan(dest ...any) error
}) (*domain.Resident, error) {
	var (
		res    domain.Resident
		status string
	)
	if err := row.Scan(
		&res.ID,
		&res.BranchID,
		&res.Name,
		&res.Phone,
		&res.Email,
		&res.RoomID,
		&res.BedNumber,
		&status,
		&res.CheckInDate,
		&res.CheckOutDate,
		&res.VacationDate,
		&res.NoticeDays,
		&res.RentAmount.Amount,
		&res.AdvancePayment.Amount,
		&res.SecurityDeposit.Amount,
		&res.RentAmount.Currency,
		&res.CurrentMonthPaid,
		&res.CreatedAt,
		&res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.Status = domain.ResidentStatus(status)
	res.AdvancePayment.Currency = res.RentAmount.Currency
	res.SecurityDeposit.Currency = res.RentAmount.Currency
	return &res, nil
}

func collectResidents(rows pgx.Rows) ([]domain.Resident, error) {
	var out []domain.Resident
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}
