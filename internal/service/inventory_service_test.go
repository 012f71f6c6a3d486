package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

func TestCreateRoomDerivesBedCount(t *testing.T) {
	svc := InventoryService{Rooms: newFakeRoomStore(nil)}

	room, err := svc.CreateRoom(context.Background(), ports.CreateRoomParams{
		BranchID:    1,
		RoomNumber:  " 101 ",
		SharingType: 3,
		CostPerBed:  domain.Money{Amount: 5000, Currency: "INR"},
	})
	require.NoError(t, err)
	assert.Equal(t, "101", room.RoomNumber)
	assert.Equal(t, 3, room.BedCount)

	_, err = svc.CreateRoom(context.Background(), ports.CreateRoomParams{BranchID: 1, RoomNumber: "", SharingType: 2})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.CreateRoom(context.Background(), ports.CreateRoomParams{BranchID: 1, RoomNumber: "102", SharingType: 0})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.CreateRoom(context.Background(), ports.CreateRoomParams{BranchID: 1, RoomNumber: "102", SharingType: 13})
	assert.True(t, domain.IsValidation(err))
}

func TestAvailableBedsTracksLifecycle(t *testing.T) {
	residents := newFakeResidentStore()
	rooms := newFakeRoomStore(residents)
	svc := InventoryService{Rooms: rooms}
	room := createRoom(t, rooms, "101", 3)

	res := seedActiveResident(t, residents, room.ID, 2)

	avail, err := svc.ListAvailableBeds(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, []int{1, 3}, avail[0].AvailableBeds)
	assert.Equal(t, []int{2}, avail[0].OccupiedBeds)

	// Notice period keeps the bed blocked.
	_, err = residents.StartNotice(context.Background(), res.ID, 7, jan1.AddDate(0, 0, 7))
	require.NoError(t, err)
	avail, err = svc.ListAvailableBeds(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, avail[0].OccupiedBeds)

	// Finalization frees it.
	_, applied, err := residents.FinalizeVacation(context.Background(), res.ID, jan1.AddDate(0, 0, 8))
	require.NoError(t, err)
	require.True(t, applied)
	avail, err = svc.ListAvailableBeds(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, avail[0].AvailableBeds)
	assert.Empty(t, avail[0].OccupiedBeds)
}

func TestRoomOccupancy(t *testing.T) {
	residents := newFakeResidentStore()
	rooms := newFakeRoomStore(residents)
	svc := InventoryService{Rooms: rooms}
	room := createRoom(t, rooms, "101", 2)
	seedActiveResident(t, residents, room.ID, 1)

	occ, err := svc.RoomOccupancy(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, occ.BedCount)
	assert.Equal(t, 1, occ.OccupiedCount)
	assert.Equal(t, []int{2}, occ.AvailableBeds)

	_, err = svc.RoomOccupancy(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDeleteRoomRefusesWhileOccupied(t *testing.T) {
	residents := newFakeResidentStore()
	rooms := newFakeRoomStore(residents)
	svc := InventoryService{Rooms: rooms}
	room := createRoom(t, rooms, "101", 2)
	res := seedActiveResident(t, residents, room.ID, 1)

	err := svc.DeleteRoom(context.Background(), room.ID)
	assert.ErrorIs(t, err, domain.ErrRoomOccupied)

	_, err = residents.VacateNow(context.Background(), res.ID, jan1)
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteRoom(context.Background(), room.ID))
}
