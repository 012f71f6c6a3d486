package repository

import (
	"context"
	"encoding/json"

	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
)

type ActivityLogRepository struct {
	DB *db.Postgres
}

func (r ActivityLogRepository) Record(ctx context.Context, ev domain.ActivityEvent) error {
	var meta []byte
	if ev.Metadata != nil {
		var err error
		meta, err = json.Marshal(ev.Metadata)
		if err != nil {
			return err
		}
	}
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO activity_logs (branch_id, event_type, entity_id, actor, message, metadata, logged_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
	`, ev.BranchID, string(ev.Type), ev.EntityID, ev.Actor, ev.Message, meta)
	return err
}

func (r ActivityLogRepository) ListByBranch(ctx context.Context, branchID int64, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, branch_id, event_type, entity_id, actor, message, metadata, logged_at
		FROM activity_logs
		WHERE branch_id=$1
		ORDER BY logged_at DESC, id DESC
		LIMIT $2
	`, branchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityEvent
	for rows.Next() {
		var (
			ev   domain.ActivityEvent
			typ  string
			meta []byte
		)
		if err := rows.Scan(&ev.ID, &ev.BranchID, &typ, &ev.EntityID, &ev.Actor, &ev.Message, &meta, &ev.LoggedAt); err != nil {
			return nil, err
		}
		ev.Type = domain.ActivityEventType(typ)
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &ev.Metadata)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
