package domain

import "time"

// Enumerations
const (
	RoleSuperadmin UserRole = "superadmin"
	RoleAdmin      UserRole = "admin"
	RoleSupport    UserRole = "support"

	StatusPending      ResidentStatus = "pending"
	StatusActive       ResidentStatus = "active"
	StatusNoticePeriod ResidentStatus = "notice_period"
	StatusInactive     ResidentStatus = "inactive"

	PaymentCash PaymentMethod = "cash"
	PaymentUPI  PaymentMethod = "upi"

	VacateImmediate VacateType = "immediate"
	VacateNotice    VacateType = "notice"

	EventResidentRegistered ActivityEventType = "resident.registered"
	EventResidentAllocated  ActivityEventType = "resident.allocated"
	EventResidentSwitched   ActivityEventType = "resident.switched"
	EventResidentVacated    ActivityEventType = "resident.vacated"
	EventVacationFinalized  ActivityEventType = "resident.vacation_finalized"
	EventPaymentMarked      ActivityEventType = "payment.marked"
	EventPaymentVoided      ActivityEventType = "payment.voided"
)

type UserRole string
type ResidentStatus string
type PaymentMethod string
type VacateType string
type ActivityEventType string

// MaxNoticeDays caps resident-initiated notice periods.
const MaxNoticeDays = 30

type Money struct {
	Amount   int64
	Currency string
}

type Branch struct {
	ID                int64
	Name              string
	Address           string
	RegistrationToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

type Room struct {
	ID          int64
	BranchID    int64
	RoomNumber  string
	SharingType int
	BedCount    int
	CostPerBed  Money
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type Resident struct {
	ID               int64
	BranchID         int64
	Name             string
	Phone            string
	Email            string
	RoomID           *int64
	BedNumber        *int
	Status           ResidentStatus
	CheckInDate      *time.Time
	CheckOutDate     *time.Time
	VacationDate     *time.Time
	NoticeDays       *int
	RentAmount       Money
	AdvancePayment   Money
	SecurityDeposit  Money
	CurrentMonthPaid bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// Allocated reports whether the resident currently holds a bed.
func (r Resident) Allocated() bool {
	return r.RoomID != nil && r.BedNumber != nil
}

// OccupiesBed reports whether the status keeps a bed blocked.
func (s ResidentStatus) OccupiesBed() bool {
	return s == StatusActive || s == StatusNoticePeriod
}

type Payment struct {
	ID            int64
	BranchID      int64
	ResidentID    int64
	Month         string
	Year          int
	Amount        Money
	PaymentMethod PaymentMethod
	PaymentDate   time.Time
	ReceiptImage  string
	IsActive      bool
	MarkedBy      string
	MarkedAt      time.Time
}

type RoomSwitch struct {
	ID         int64
	ResidentID int64
	FromRoomID int64
	ToRoomID   int64
	FromBed    int
	ToBed      int
	Reason     string
	SwitchedAt time.Time
}

// ActivityEvent is the structured record core operations emit. The engine
// only ever appends; read-back is for the activity screen.
type ActivityEvent struct {
	ID       int64
	BranchID int64
	Type     ActivityEventType
	EntityID int64
	Actor    string
	Message  string
	Metadata map[string]any
	LoggedAt time.Time
}

type User struct {
	ID           int64
	BranchID     *int64
	Name         string
	Email        string
	Phone        string
	Role         UserRole
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
