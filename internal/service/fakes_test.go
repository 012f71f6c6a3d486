package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

// In-memory stores mirroring the conditional-write semantics of the
// postgres repositories: every state change checks its precondition and
// the occupancy picture under one lock, so the tests exercise the same
// failure modes the SQL produces.

var errFakeNotFound = errors.New("not found")

type fakeResidentStore struct {
	mu        sync.Mutex
	nextID    int64
	residents map[int64]*domain.Resident
	switches  []domain.RoomSwitch

	// test hooks
	finalizeErr      map[int64]error
	afterOverdueList func()
	payments         *fakePaymentStore
}

func newFakeResidentStore() *fakeResidentStore {
	return &fakeResidentStore{residents: map[int64]*domain.Resident{}}
}

func (f *fakeResidentStore) CreatePending(_ context.Context, p ports.CreateResidentParams) (*domain.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	res := &domain.Resident{
		ID:              f.nextID,
		BranchID:        p.BranchID,
		Name:            p.Name,
		Phone:           p.Phone,
		Email:           p.Email,
		Status:          domain.StatusPending,
		RentAmount:      p.RentAmount,
		AdvancePayment:  p.AdvancePayment,
		SecurityDeposit: p.SecurityDeposit,
		CreatedAt:       time.Now(),
	}
	f.residents[res.ID] = res
	return cloneResident(res), nil
}

func (f *fakeResidentStore) Get(_ context.Context, id int64) (*domain.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.residents[id]
	if !ok {
		return nil, domain.ErrResidentNotFound
	}
	return cloneResident(res), nil
}

func (f *fakeResidentStore) ListByBranch(_ context.Context, branchID int64, status *domain.ResidentStatus) ([]domain.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Resident
	for _, res := range f.residents {
		if res.BranchID != branchID {
			continue
		}
		if status != nil && res.Status != *status {
			continue
		}
		out = append(out, *cloneResident(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeResidentStore) bedTakenLocked(roomID int64, bed int, excludeID int64) bool {
	for _, other := range f.residents {
		if other.ID == excludeID || !other.Status.OccupiesBed() || !other.Allocated() {
			continue
		}
		if *other.RoomID == roomID && *other.BedNumber == bed {
			return true
		}
	}
	return false
}

func (f *fakeResidentStore) AssignBed(_ context.Context, residentID, roomID int64, bed int, checkIn time.Time) (*domain.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.residents[residentID]
	if !ok {
		return nil, domain.ErrResidentNotFound
	}
	if res.Status == domain.StatusActive && res.Allocated() {
		return nil, domain.ErrAlreadyAllocated
	}
	if res.Status != domain.StatusPending && res.Status != domain.StatusActive {
		return nil, domain.ErrInvalidTransition
	}
	if f.bedTakenLocked(roomID, bed, residentID) {
		return nil, domain.ErrBedOccupied
	}
	res.RoomID = &roomID
	res.BedNumber = &bed
	res.Status = domain.StatusActive
	if res.CheckInDate == nil {
		res.CheckInDate = &checkIn
	}
	return cloneResident(res), nil
}

func (f *fakeResidentStore) SwitchBed(_ context.Context, residentID, newRoomID int64, newBed int, reason string) (*domain.Resident, *domain.RoomSwitch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.residents[residentID]
	if !ok {
		return nil, nil, domain.ErrResidentNotFound
	}
	if !res.Status.OccupiesBed() {
		return nil, nil, domain.ErrInvalidTransition
	}
	if !res.Allocated() {
		return nil, nil, domain.ErrResidentNotAllocated
	}
	if *res.RoomID == newRoomID && *res.BedNumber == newBed {
		return nil, nil, domain.ErrSameAssignment
	}
	if f.bedTakenLocked(newRoomID, newBed, residentID) {
		return nil, nil, domain.ErrBedOccupied
	}
	sw := domain.RoomSwitch{
		ID:         int64(len(f.switches) + 1),
		ResidentID: residentID,
		FromRoomID: *res.RoomID,
		ToRoomID:   newRoomID,
		FromBed:    *res.BedNumber,
		ToBed:      newBed,
		Reason:     reason,
		SwitchedAt: time.Now(),
	}
	f.switches = append(f.switches, sw)
	res.RoomID = &newRoomID
	res.BedNumber = &newBed
	return cloneResident(res), &sw, nil
}

func (f *fakeResidentStore) StartNotice(_ context.Context, residentID int64, noticeDays int, vacationDate time.Time) (*domain.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.residents[residentID]
	if !ok {
		return nil, domain.ErrResidentNotFound
	}
	if res.Status != domain.StatusActive {
		return nil, domain.ErrInvalidTransition
	}
	if !res.Allocated() {
		return nil, domain.ErrResidentNotAllocated
	}
	res.Status = domain.StatusNoticePeriod
	res.NoticeDays = &noticeDays
	res.VacationDate = &vacationDate
	return cloneResident(res), nil
}

func (f *fakeResidentStore) VacateNow(_ context.Context, residentID int64, checkOut time.Time) (*domain.Resident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.residents[residentID]
	if !ok {
		return nil, domain.ErrResidentNotFound
	}
	if res.Status != domain.StatusActive {
		return nil, domain.ErrInvalidTransition
	}
	res.RoomID = nil
	res.BedNumber = nil
	res.Status = domain.StatusInactive
	res.CheckOutDate = &checkOut
	return cloneResident(res), nil
}

func (f *fakeResidentStore) FinalizeVacation(_ context.Context, residentID int64, checkOut time.Time) (*domain.Resident, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.finalizeErr[residentID]; ok {
		return nil, false, err
	}
	res, ok := f.residents[residentID]
	if !ok {
		return nil, false, domain.ErrResidentNotFound
	}
	switch res.Status {
	case domain.StatusNoticePeriod:
		res.RoomID = nil
		res.BedNumber = nil
		res.Status = domain.StatusInactive
		res.CheckOutDate = &checkOut
		return cloneResident(res), true, nil
	case domain.StatusInactive:
		return cloneResident(res), false, nil
	default:
		return nil, false, domain.ErrInvalidTransition
	}
}

func (f *fakeResidentStore) ListOverdueNotice(_ context.Context, asOf time.Time) ([]domain.Resident, error) {
	f.mu.Lock()
	var out []domain.Resident
	for _, res := range f.residents {
		if res.Status == domain.StatusNoticePeriod && res.VacationDate != nil && !res.VacationDate.After(asOf) {
			out = append(out, *cloneResident(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	f.mu.Unlock()
	if f.afterOverdueList != nil {
		f.afterOverdueList()
	}
	return out, nil
}

func (f *fakeResidentStore) SetCurrentMonthPaid(_ context.Context, residentID int64, paid bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.residents[residentID]
	if !ok {
		return domain.ErrResidentNotFound
	}
	res.CurrentMonthPaid = paid
	return nil
}

func (f *fakeResidentStore) RefreshPaidFlags(_ context.Context, branchID int64, month string, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, res := range f.residents {
		if res.BranchID != branchID || res.Status == domain.StatusInactive {
			continue
		}
		paid := f.payments != nil && f.payments.hasActive(res.ID, month, year)
		res.CurrentMonthPaid = paid
		n++
	}
	return n, nil
}

func (f *fakeResidentStore) ListByResident(_ context.Context, residentID int64) ([]domain.RoomSwitch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RoomSwitch
	for i := len(f.switches) - 1; i >= 0; i-- {
		if f.switches[i].ResidentID == residentID {
			out = append(out, f.switches[i])
		}
	}
	return out, nil
}

func cloneResident(r *domain.Resident) *domain.Resident {
	c := *r
	if r.RoomID != nil {
		v := *r.RoomID
		c.RoomID = &v
	}
	if r.BedNumber != nil {
		v := *r.BedNumber
		c.BedNumber = &v
	}
	if r.CheckInDate != nil {
		v := *r.CheckInDate
		c.CheckInDate = &v
	}
	if r.CheckOutDate != nil {
		v := *r.CheckOutDate
		c.CheckOutDate = &v
	}
	if r.VacationDate != nil {
		v := *r.VacationDate
		c.VacationDate = &v
	}
	if r.NoticeDays != nil {
		v := *r.NoticeDays
		c.NoticeDays = &v
	}
	return &c
}

type fakeRoomStore struct {
	mu        sync.Mutex
	nextID    int64
	rooms     map[int64]*domain.Room
	residents *fakeResidentStore
}

func newFakeRoomStore(residents *fakeResidentStore) *fakeRoomStore {
	return &fakeRoomStore{rooms: map[int64]*domain.Room{}, residents: residents}
}

func (f *fakeRoomStore) Create(_ context.Context, p ports.CreateRoomParams) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	room := &domain.Room{
		ID:          f.nextID,
		BranchID:    p.BranchID,
		RoomNumber:  p.RoomNumber,
		SharingType: p.SharingType,
		BedCount:    p.SharingType,
		CostPerBed:  p.CostPerBed,
		CreatedAt:   time.Now(),
	}
	f.rooms[room.ID] = room
	return room, nil
}

func (f *fakeRoomStore) Get(_ context.Context, id int64) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

func (f *fakeRoomStore) ListByBranch(_ context.Context, branchID int64) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, room := range f.rooms {
		if room.BranchID == branchID {
			out = append(out, *room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRoomStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}
	if f.residents != nil {
		f.residents.mu.Lock()
		for _, res := range f.residents.residents {
			if res.Status.OccupiesBed() && res.Allocated() && *res.RoomID == id {
				f.residents.mu.Unlock()
				return domain.ErrRoomOccupied
			}
		}
		f.residents.mu.Unlock()
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomStore) occupiedBeds(roomID int64) []int {
	var beds []int
	if f.residents == nil {
		return beds
	}
	f.residents.mu.Lock()
	defer f.residents.mu.Unlock()
	for _, res := range f.residents.residents {
		if res.Status.OccupiesBed() && res.Allocated() && *res.RoomID == roomID {
			beds = append(beds, *res.BedNumber)
		}
	}
	sort.Ints(beds)
	return beds
}

func (f *fakeRoomStore) AvailableBeds(_ context.Context, branchID int64) ([]ports.RoomAvailability, error) {
	f.mu.Lock()
	rooms := make([]*domain.Room, 0, len(f.rooms))
	for _, room := range f.rooms {
		if room.BranchID == branchID {
			rooms = append(rooms, room)
		}
	}
	f.mu.Unlock()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	out := make([]ports.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		occupied := f.occupiedBeds(room.ID)
		taken := map[int]bool{}
		for _, b := range occupied {
			taken[b] = true
		}
		var free []int
		for b := 1; b <= room.BedCount; b++ {
			if !taken[b] {
				free = append(free, b)
			}
		}
		out = append(out, ports.RoomAvailability{Room: *room, AvailableBeds: free, OccupiedBeds: occupied})
	}
	return out, nil
}

func (f *fakeRoomStore) Occupancy(_ context.Context, roomID int64) (*ports.RoomOccupancy, error) {
	room, err := f.Get(context.Background(), roomID)
	if err != nil {
		return nil, err
	}
	occupied := f.occupiedBeds(roomID)
	taken := map[int]bool{}
	for _, b := range occupied {
		taken[b] = true
	}
	var free []int
	for b := 1; b <= room.BedCount; b++ {
		if !taken[b] {
			free = append(free, b)
		}
	}
	return &ports.RoomOccupancy{BedCount: room.BedCount, OccupiedCount: len(occupied), AvailableBeds: free}, nil
}

type fakePaymentStore struct {
	mu       sync.Mutex
	nextID   int64
	payments []*domain.Payment
}

func (f *fakePaymentStore) hasActive(residentID int64, month string, year int) bool {
	for _, p := range f.payments {
		if p.IsActive && p.ResidentID == residentID && p.Month == month && p.Year == year {
			return true
		}
	}
	return false
}

func (f *fakePaymentStore) Insert(_ context.Context, p ports.CreatePaymentParams) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasActive(p.ResidentID, p.Month, p.Year) {
		return nil, domain.ErrDuplicatePayment
	}
	f.nextID++
	pay := &domain.Payment{
		ID:            f.nextID,
		BranchID:      p.BranchID,
		ResidentID:    p.ResidentID,
		Month:         p.Month,
		Year:          p.Year,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
		ReceiptImage:  p.ReceiptImage,
		IsActive:      true,
		MarkedBy:      p.MarkedBy,
		MarkedAt:      time.Now(),
	}
	f.payments = append(f.payments, pay)
	cp := *pay
	return &cp, nil
}

func (f *fakePaymentStore) GetActive(_ context.Context, residentID int64, month string, year int) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.IsActive && p.ResidentID == residentID && p.Month == month && p.Year == year {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentStore) ListByResident(_ context.Context, residentID int64, limit int) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payment
	for i := len(f.payments) - 1; i >= 0 && len(out) < limit; i-- {
		if f.payments[i].ResidentID == residentID {
			out = append(out, *f.payments[i])
		}
	}
	return out, nil
}

func (f *fakePaymentStore) Totals(_ context.Context, residentID int64) (*ports.PaymentTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := &ports.PaymentTotals{}
	for _, p := range f.payments {
		if p.IsActive && p.ResidentID == residentID {
			totals.TotalPaid += p.Amount.Amount
			totals.TotalMonths++
		}
	}
	return totals, nil
}

func (f *fakePaymentStore) Void(_ context.Context, paymentID int64) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID == paymentID && p.IsActive {
			p.IsActive = false
			cp := *p
			return &cp, nil
		}
	}
	return nil, errFakeNotFound
}

type fakeActivityRecorder struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	err    error
}

func (f *fakeActivityRecorder) Record(_ context.Context, ev domain.ActivityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeActivityRecorder) byType(t domain.ActivityEventType) []domain.ActivityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ActivityEvent
	for _, ev := range f.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fakeBranchStore struct {
	branches map[string]*domain.Branch
}

func (f *fakeBranchStore) Get(_ context.Context, id int64) (*domain.Branch, error) {
	for _, b := range f.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeBranchStore) GetByToken(_ context.Context, token string) (*domain.Branch, error) {
	b, ok := f.branches[token]
	if !ok {
		return nil, errFakeNotFound
	}
	return b, nil
}

func (f *fakeBranchStore) List(_ context.Context) ([]domain.Branch, error) {
	var out []domain.Branch
	for _, b := range f.branches {
		out = append(out, *b)
	}
	return out, nil
}

// fixedClock pins service time for date arithmetic.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
