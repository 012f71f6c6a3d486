package ports

import (
	"context"
	"time"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// CreateResidentParams carries the identity fields for a new pending
// resident. Room and bed are never part of creation; allocation is a
// separate step.
type CreateResidentParams struct {
	BranchID        int64
	Name            string
	Phone           string
	Email           string
	RentAmount      domain.Money
	AdvancePayment  domain.Money
	SecurityDeposit domain.Money
}

// ResidentStore persists residents and performs the conditional writes the
// lifecycle depends on. Every state-changing method is a check-and-set at
// the storage layer: the condition is evaluated in the same statement as
// the write, never read-then-write from application code.
type ResidentStore interface {
	CreatePending(ctx context.Context, p CreateResidentParams) (*domain.Resident, error)
	Get(ctx context.Context, id int64) (*domain.Resident, error)
	ListByBranch(ctx context.Context, branchID int64, status *domain.ResidentStatus) ([]domain.Resident, error)

	// AssignBed binds the resident to (roomID, bed) and activates them,
	// conditioned on the resident holding no bed yet and the bed having no
	// occupant. A resident who already has a bed gets
	// domain.ErrAlreadyAllocated; moving them is SwitchBed's job. Other
	// failures map to domain.ErrBedOccupied, domain.ErrInvalidTransition or
	// domain.ErrResidentNotFound at commit time.
	AssignBed(ctx context.Context, residentID, roomID int64, bed int, checkIn time.Time) (*domain.Resident, error)

	// SwitchBed moves an allocated resident to a new bed and records the
	// switch history row in the same transaction.
	SwitchBed(ctx context.Context, residentID, newRoomID int64, newBed int, reason string) (*domain.Resident, *domain.RoomSwitch, error)

	// StartNotice moves an active resident into notice_period.
	StartNotice(ctx context.Context, residentID int64, noticeDays int, vacationDate time.Time) (*domain.Resident, error)

	// VacateNow deallocates and archives an active resident in one write.
	VacateNow(ctx context.Context, residentID int64, checkOut time.Time) (*domain.Resident, error)

	// FinalizeVacation completes a notice-period vacation. The write is
	// conditioned on status still being notice_period; when a concurrent
	// caller got there first the returned bool is false and err is nil.
	FinalizeVacation(ctx context.Context, residentID int64, checkOut time.Time) (*domain.Resident, bool, error)

	// ListOverdueNotice returns notice_period residents whose vacation date
	// has passed as of the given instant.
	ListOverdueNotice(ctx context.Context, asOf time.Time) ([]domain.Resident, error)

	SetCurrentMonthPaid(ctx context.Context, residentID int64, paid bool) error
	RefreshPaidFlags(ctx context.Context, branchID int64, month string, year int) (int64, error)
}

// RoomAvailability is the derived per-room bed picture; it is computed from
// resident assignments on every read, never stored.
type RoomAvailability struct {
	Room          domain.Room
	AvailableBeds []int
	OccupiedBeds  []int
}

// RoomOccupancy summarizes one room.
type RoomOccupancy struct {
	BedCount      int
	OccupiedCount int
	AvailableBeds []int
}

type CreateRoomParams struct {
	BranchID    int64
	RoomNumber  string
	SharingType int
	CostPerBed  domain.Money
}

// RoomStore owns room definitions and the occupancy joins.
type RoomStore interface {
	Create(ctx context.Context, p CreateRoomParams) (*domain.Room, error)
	Get(ctx context.Context, id int64) (*domain.Room, error)
	ListByBranch(ctx context.Context, branchID int64) ([]domain.Room, error)
	// Delete refuses with domain.ErrRoomOccupied while any resident in an
	// occupying status is assigned to the room.
	Delete(ctx context.Context, id int64) error
	AvailableBeds(ctx context.Context, branchID int64) ([]RoomAvailability, error)
	Occupancy(ctx context.Context, roomID int64) (*RoomOccupancy, error)
}

type CreatePaymentParams struct {
	BranchID      int64
	ResidentID    int64
	Month         string
	Year          int
	Amount        domain.Money
	PaymentMethod domain.PaymentMethod
	PaymentDate   time.Time
	ReceiptImage  string
	MarkedBy      string
}

// PaymentTotals aggregates a resident's active payment history.
type PaymentTotals struct {
	TotalPaid   int64
	TotalMonths int
}

// PaymentStore persists rent payments. Insert maps the partial unique index
// violation to domain.ErrDuplicatePayment so races between two markers
// resolve at the storage layer.
type PaymentStore interface {
	Insert(ctx context.Context, p CreatePaymentParams) (*domain.Payment, error)
	GetActive(ctx context.Context, residentID int64, month string, year int) (*domain.Payment, error)
	ListByResident(ctx context.Context, residentID int64, limit int) ([]domain.Payment, error)
	Totals(ctx context.Context, residentID int64) (*PaymentTotals, error)
	// Void flips is_active off and returns the superseded payment.
	Void(ctx context.Context, paymentID int64) (*domain.Payment, error)
}

// SwitchHistoryStore reads back room-switch audit rows.
type SwitchHistoryStore interface {
	ListByResident(ctx context.Context, residentID int64) ([]domain.RoomSwitch, error)
}

// ActivityRecorder receives the structured events core operations emit.
// Recording is best effort; failures are logged, never propagated.
type ActivityRecorder interface {
	Record(ctx context.Context, ev domain.ActivityEvent) error
}

// BranchStore resolves branches; creation beyond seeding is out of scope.
type BranchStore interface {
	Get(ctx context.Context, id int64) (*domain.Branch, error)
	GetByToken(ctx context.Context, registrationToken string) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
}
