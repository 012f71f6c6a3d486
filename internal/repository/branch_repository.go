package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
)

type BranchRepository struct {
	DB *db.Postgres
}

func (r BranchRepository) Get(ctx context.Context, id int64) (*domain.Branch, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, address, registration_token, created_at, updated_at
		FROM branches
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	return scanBranch(row)
}

// GetByToken resolves the branch behind a QR self-registration link.
func (r BranchRepository) GetByToken(ctx context.Context, registrationToken string) (*domain.Branch, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, address, registration_token, created_at, updated_at
		FROM branches
		WHERE registration_token=$1 AND deleted_at IS NULL
	`, registrationToken)
	return scanBranch(row)
}

func (r BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, address, registration_token, created_at, updated_at
		FROM branches
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// SeedDefault creates an initial branch on first boot so a fresh install is
// usable without manual SQL. Existing installs are untouched.
func (r BranchRepository) SeedDefault(ctx context.Context, name string) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO branches (name, registration_token, created_at, updated_at)
		SELECT $1, $2, now(), now()
		WHERE NOT EXISTS (SELECT 1 FROM branches)
	`, name, uuid.NewString())
	return err
}

func scanBranch(row interface {
	Scan(dest ...any) error
}) (*domain.Branch, error) {
	var b domain.Branch
	if err := row.Scan(&b.ID, &b.Name, &b.Address, &b.RegistrationToken, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
