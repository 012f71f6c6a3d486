package db

import (
	"context"
	"fmt"
)

// EnsureSchema creates tables and indexes on startup. Statements are
// idempotent so repeated boots are harmless.
//
// Two partial unique indexes carry the engine's hard invariants:
// residents_bed_occupancy makes double-booking a bed impossible at the
// storage layer, and payments_active_month keeps one active payment per
// resident per calendar month.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS branches (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			registration_token TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			branch_id BIGINT REFERENCES branches(id),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			password_hash TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGSERIAL PRIMARY KEY,
			branch_id BIGINT NOT NULL REFERENCES branches(id),
			room_number TEXT NOT NULL,
			sharing_type INT NOT NULL CHECK (sharing_type >= 1),
			bed_count INT NOT NULL CHECK (bed_count >= 1),
			cost_per_bed BIGINT NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'INR',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (branch_id, room_number)
		)`,
		`CREATE TABLE IF NOT EXISTS residents (
			id BIGSERIAL PRIMARY KEY,
			branch_id BIGINT NOT NULL REFERENCES branches(id),
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			room_id BIGINT REFERENCES rooms(id),
			bed_number INT,
			status TEXT NOT NULL DEFAULT 'pending',
			check_in_date DATE,
			check_out_date DATE,
			vacation_date DATE,
			notice_days INT,
			rent_amount BIGINT NOT NULL DEFAULT 0,
			advance_payment BIGINT NOT NULL DEFAULT 0,
			security_deposit BIGINT NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'INR',
			current_month_paid BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ,
			CHECK ((room_id IS NULL) = (bed_number IS NULL))
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS residents_bed_occupancy
			ON residents (room_id, bed_number)
			WHERE status IN ('active','notice_period')`,
		`CREATE INDEX IF NOT EXISTS residents_sweep
			ON residents (vacation_date)
			WHERE status = 'notice_period'`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGSERIAL PRIMARY KEY,
			branch_id BIGINT NOT NULL REFERENCES branches(id),
			resident_id BIGINT NOT NULL REFERENCES residents(id),
			month TEXT NOT NULL,
			year INT NOT NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'INR',
			payment_method TEXT NOT NULL,
			payment_date DATE NOT NULL,
			receipt_image TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			marked_by TEXT NOT NULL DEFAULT '',
			marked_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS payments_active_month
			ON payments (resident_id, month, year)
			WHERE is_active`,
		`CREATE TABLE IF NOT EXISTS room_switches (
			id BIGSERIAL PRIMARY KEY,
			resident_id BIGINT NOT NULL REFERENCES residents(id),
			from_room_id BIGINT NOT NULL,
			to_room_id BIGINT NOT NULL,
			from_bed INT NOT NULL,
			to_bed INT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			switched_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS activity_logs (
			id BIGSERIAL PRIMARY KEY,
			branch_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			actor TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			logged_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
