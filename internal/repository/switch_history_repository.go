package repository

import (
	"context"

	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
)

type SwitchHistoryRepository struct {
	DB *db.Postgres
}

func (r SwitchHistoryRepository) ListByResident(ctx context.Context, residentID int64) ([]domain.RoomSwitch, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, resident_id, from_room_id, to_room_id, from_bed, to_bed, reason, switched_at
		FROM room_switches
		WHERE resident_id=$1
		ORDER BY switched_at DESC, id DESC
	`, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomSwitch
	for rows.Next() {
		var sw domain.RoomSwitch
		if err := rows.Scan(&sw.ID, &sw.ResidentID, &sw.FromRoomID, &sw.ToRoomID, &sw.FromBed, &sw.ToBed, &sw.Reason, &sw.SwitchedAt); err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	return out, rows.Err()
}
