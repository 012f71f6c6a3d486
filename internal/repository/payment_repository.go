package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

type PaymentRepository struct {
	DB *db.Postgres
}

const paymentColumns = `
	id, branch_id, resident_id, month, year, amount, currency,
	payment_method, payment_date, receipt_image, is_active, marked_by, marked_at`

// Insert writes a payment record. The partial unique index on active
// payments turns a concurrent duplicate into a unique violation, which maps
// to domain.ErrDuplicatePayment rather than surfacing a raw 23505.
func (r PaymentRepository) Insert(ctx context.Context, p ports.CreatePaymentParams) (*domain.Payment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO payments (branch_id, resident_id, month, year, amount, currency, payment_method, payment_date, receipt_image, is_active, marked_by, marked_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,true,$10, now())
		RETURNING`+paymentColumns,
		p.BranchID, p.ResidentID, p.Month, p.Year, p.Amount.Amount, p.Amount.Currency,
		string(p.PaymentMethod), p.PaymentDate, p.ReceiptImage, p.MarkedBy)
	pay, err := scanPayment(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicatePayment
		}
		return nil, err
	}
	return pay, nil
}

// GetActive returns the active payment for the month, or nil when none
// exists.
func (r PaymentRepository) GetActive(ctx context.Context, residentID int64, month string, year int) (*domain.Payment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT`+paymentColumns+`
		FROM payments
		WHERE resident_id=$1 AND month=$2 AND year=$3 AND is_active
	`, residentID, month, year)
	pay, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pay, nil
}

func (r PaymentRepository) ListByResident(ctx context.Context, residentID int64, limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 12
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT`+paymentColumns+`
		FROM payments
		WHERE resident_id=$1 AND is_active
		ORDER BY year DESC, payment_date DESC, id DESC
		LIMIT $2
	`, residentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pay)
	}
	return out, rows.Err()
}

func (r PaymentRepository) Totals(ctx context.Context, residentID int64) (*ports.PaymentTotals, error) {
	var t ports.PaymentTotals
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0), COUNT(*)
		FROM payments
		WHERE resident_id=$1 AND is_active
	`, residentID).Scan(&t.TotalPaid, &t.TotalMonths)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Void supersedes a payment record. The row is kept for history; only the
// is_active flag flips, freeing the month slot in the partial unique index.
func (r PaymentRepository) Void(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE payments SET is_active=false WHERE id=$1 AND is_active
		RETURNING`+paymentColumns,
		paymentID)
	pay, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pay, nil
}

func scanPayment(row interface {
	Scan(dest ...any) error
}) (*domain.Payment, error) {
	var (
		pay    domain.Payment
		method string
	)
	if err := row.Scan(
		&pay.ID,
		&pay.BranchID,
		&pay.ResidentID,
		&pay.Month,
		&pay.Year,
		&pay.Amount.Amount,
		&pay.Amount.Currency,
		&method,
		&pay.PaymentDate,
		&pay.ReceiptImage,
		&pay.IsActive,
		&pay.MarkedBy,
		&pay.MarkedAt,
	); err != nil {
		return nil, err
	}
	pay.PaymentMethod = domain.PaymentMethod(method)
	return &pay, nil
}
