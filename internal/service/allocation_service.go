package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

// AllocationService binds residents to beds. The occupancy exclusivity
// check lives in the store's conditional writes; this layer validates
// input, shapes results and emits activity events.
type AllocationService struct {
	Residents ports.ResidentStore
	Rooms     ports.RoomStore
	History   ports.SwitchHistoryStore
	Activity  ports.ActivityRecorder
	Logger    *slog.Logger
	Now       func() time.Time
}

// SwitchResult reports both sides of a room switch.
type SwitchResult struct {
	Resident *domain.Resident
	Switch   *domain.RoomSwitch
}

func (s AllocationService) Allocate(ctx context.Context, residentID, roomID int64, bed int, actor string) (*domain.Resident, error) {
	room, err := s.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if bed < 1 || bed > room.BedCount {
		return nil, domain.Validationf("bedNumber", "must be between 1 and %d", room.BedCount)
	}

	res, err := s.Residents.AssignBed(ctx, residentID, roomID, bed, s.now())
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventResidentAllocated,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "resident allocated to " + room.RoomNumber,
		Metadata: map[string]any{"roomId": roomID, "bedNumber": bed},
	})
	return res, nil
}

func (s AllocationService) SwitchRoom(ctx context.Context, residentID, newRoomID int64, newBed int, reason, actor string) (*SwitchResult, error) {
	room, err := s.Rooms.Get(ctx, newRoomID)
	if err != nil {
		return nil, err
	}
	if newBed < 1 || newBed > room.BedCount {
		return nil, domain.Validationf("bedNumber", "must be between 1 and %d", room.BedCount)
	}

	res, sw, err := s.Residents.SwitchBed(ctx, residentID, newRoomID, newBed, reason)
	if err != nil {
		return nil, err
	}

	s.record(ctx, domain.ActivityEvent{
		BranchID: res.BranchID,
		Type:     domain.EventResidentSwitched,
		EntityID: res.ID,
		Actor:    actor,
		Message:  "resident moved to " + room.RoomNumber,
		Metadata: map[string]any{
			"fromRoomId": sw.FromRoomID,
			"toRoomId":   sw.ToRoomID,
			"fromBed":    sw.FromBed,
			"toBed":      sw.ToBed,
			"reason":     reason,
		},
	})
	return &SwitchResult{Resident: res, Switch: sw}, nil
}

func (s AllocationService) SwitchHistory(ctx context.Context, residentID int64) ([]domain.RoomSwitch, error) {
	return s.History.ListByResident(ctx, residentID)
}

func (s AllocationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AllocationService) record(ctx context.Context, ev domain.ActivityEvent) {
	if s.Activity == nil {
		return
	}
	if err := s.Activity.Record(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to record activity", "type", ev.Type, "entity", ev.EntityID, "err", err)
	}
}
