package service

import (
	"context"
	"strings"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

// maxSharingType bounds room creation; nothing in the occupancy logic
// depends on it.
const maxSharingType = 12

// InventoryService owns room definitions and the derived per-bed picture.
type InventoryService struct {
	Rooms ports.RoomStore
}

func (s InventoryService) CreateRoom(ctx context.Context, p ports.CreateRoomParams) (*domain.Room, error) {
	if strings.TrimSpace(p.RoomNumber) == "" {
		return nil, domain.Validationf("roomNumber", "required")
	}
	if p.SharingType < 1 || p.SharingType > maxSharingType {
		return nil, domain.Validationf("sharingType", "must be between 1 and %d", maxSharingType)
	}
	p.RoomNumber = strings.TrimSpace(p.RoomNumber)
	return s.Rooms.Create(ctx, p)
}

func (s InventoryService) ListRooms(ctx context.Context, branchID int64) ([]domain.Room, error) {
	return s.Rooms.ListByBranch(ctx, branchID)
}

// ListAvailableBeds derives availability per room. A fully occupied room is
// a valid entry with an empty available list, not an error.
func (s InventoryService) ListAvailableBeds(ctx context.Context, branchID int64) ([]ports.RoomAvailability, error) {
	return s.Rooms.AvailableBeds(ctx, branchID)
}

func (s InventoryService) RoomOccupancy(ctx context.Context, roomID int64) (*ports.RoomOccupancy, error) {
	return s.Rooms.Occupancy(ctx, roomID)
}

func (s InventoryService) DeleteRoom(ctx context.Context, roomID int64) error {
	return s.Rooms.Delete(ctx, roomID)
}
