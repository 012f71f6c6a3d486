package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

type RoomRepository struct {
	DB *db.Postgres
}

func (r RoomRepository) Create(ctx context.Context, p ports.CreateRoomParams) (*domain.Room, error) {
	// Bed count mirrors the sharing type; a "2-sharing" room has two beds.
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO rooms (branch_id, room_number, sharing_type, bed_count, cost_per_bed, currency, created_at, updated_at)
		VALUES ($1,$2,$3,$3,$4,$5, now(), now())
		RETURNING id, branch_id, room_number, sharing_type, bed_count, cost_per_bed, currency, created_at, updated_at
	`, p.BranchID, p.RoomNumber, p.SharingType, p.CostPerBed.Amount, p.CostPerBed.Currency)
	return scanRoom(row)
}

func (r RoomRepository) Get(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, branch_id, room_number, sharing_type, bed_count, cost_per_bed, currency, created_at, updated_at
		FROM rooms
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r RoomRepository) ListByBranch(ctx context.Context, branchID int64) ([]domain.Room, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, branch_id, room_number, sharing_type, bed_count, cost_per_bed, currency, created_at, updated_at
		FROM rooms
		WHERE branch_id=$1 AND deleted_at IS NULL
		ORDER BY room_number ASC
	`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *room)
	}
	return out, rows.Err()
}

// Delete soft-deletes a room, conditioned on no resident in an occupying
// status being assigned to it.
func (r RoomRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE rooms SET deleted_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		  AND NOT EXISTS (
		      SELECT 1 FROM residents o
		      WHERE o.room_id=$1 AND o.status IN ('active','notice_period')
		  )
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return domain.ErrRoomOccupied
	}
	return nil
}

// AvailableBeds derives every room's bed picture from the current resident
// assignments. Occupancy is never stored on the room row, so there is
// nothing to drift.
func (r RoomRepository) AvailableBeds(ctx context.Context, branchID int64) ([]ports.RoomAvailability, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT rm.id, rm.branch_id, rm.room_number, rm.sharing_type, rm.bed_count, rm.cost_per_bed, rm.currency, rm.created_at, rm.updated_at,
		       COALESCE(array_agg(o.bed_number ORDER BY o.bed_number) FILTER (WHERE o.bed_number IS NOT NULL), '{}')
		FROM rooms rm
		LEFT JOIN residents o
		  ON o.room_id = rm.id AND o.status IN ('active','notice_period') AND o.deleted_at IS NULL
		WHERE rm.branch_id=$1 AND rm.deleted_at IS NULL
		GROUP BY rm.id
		ORDER BY rm.room_number ASC
	`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.RoomAvailability
	for rows.Next() {
		var (
			room     domain.Room
			occupied []int32
		)
		if err := rows.Scan(
			&room.ID, &room.BranchID, &room.RoomNumber, &room.SharingType, &room.BedCount,
			&room.CostPerBed.Amount, &room.CostPerBed.Currency, &room.CreatedAt, &room.UpdatedAt,
			&occupied,
		); err != nil {
			return nil, err
		}
		out = append(out, buildAvailability(room, occupied))
	}
	return out, rows.Err()
}

func (r RoomRepository) Occupancy(ctx context.Context, roomID int64) (*ports.RoomOccupancy, error) {
	room, err := r.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT bed_number FROM residents
		WHERE room_id=$1 AND status IN ('active','notice_period') AND deleted_at IS NULL
		ORDER BY bed_number ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occupied []int32
	for rows.Next() {
		var bed int32
		if err := rows.Scan(&bed); err != nil {
			return nil, err
		}
		occupied = append(occupied, bed)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	av := buildAvailability(*room, occupied)
	return &ports.RoomOccupancy{
		BedCount:      room.BedCount,
		OccupiedCount: len(av.OccupiedBeds),
		AvailableBeds: av.AvailableBeds,
	}, nil
}

func buildAvailability(room domain.Room, occupied []int32) ports.RoomAvailability {
	taken := make(map[int]bool, len(occupied))
	occ := make([]int, 0, len(occupied))
	for _, b := range occupied {
		taken[int(b)] = true
		occ = append(occ, int(b))
	}
	free := make([]int, 0, room.BedCount)
	for bed := 1; bed <= room.BedCount; bed++ {
		if !taken[bed] {
			free = append(free, bed)
		}
	}
	return ports.RoomAvailability{Room: room, AvailableBeds: free, OccupiedBeds: occ}
}

func scanRoom(row interface {
	Scan(dest ...any) error
}) (*domain.Room, error) {
	var room domain.Room
	if err := row.Scan(
		&room.ID,
		&room.BranchID,
		&room.RoomNumber,
		&room.SharingType,
		&room.BedCount,
		&room.CostPerBed.Amount,
		&room.CostPerBed.Currency,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &room, nil
}
