package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikanth112236/pg-application-sub004/internal/domain"
	"github.com/srikanth112236/pg-application-sub004/internal/ports"
)

func paymentFixture(t *testing.T) (PaymentService, *fakeResidentStore, *fakePaymentStore, *fakeActivityRecorder) {
	t.Helper()
	residents := newFakeResidentStore()
	payments := &fakePaymentStore{}
	residents.payments = payments
	activity := &fakeActivityRecorder{}
	svc := PaymentService{
		Payments:  payments,
		Residents: residents,
		Activity:  activity,
		Now:       fixedClock(jan1),
	}
	return svc, residents, payments, activity
}

func TestMarkPaidStoresCurrentMonth(t *testing.T) {
	svc, residents, _, activity := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	pay, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{
		PaymentDate:   jan1,
		PaymentMethod: domain.PaymentCash,
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "January", pay.Month)
	assert.Equal(t, 2024, pay.Year)
	assert.Equal(t, int64(5000), pay.Amount.Amount)
	assert.Equal(t, "admin", pay.MarkedBy)
	assert.True(t, pay.IsActive)

	paid, err := svc.IsCurrentMonthPaid(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, paid)

	got, err := residents.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentMonthPaid)

	assert.Len(t, activity.byType(domain.EventPaymentMarked), 1)
}

func TestMarkPaidDuplicateRejected(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	_, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: domain.PaymentCash}, "admin")
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: domain.PaymentCash}, "admin")
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)

	// A new month is a fresh slate.
	svc.Now = fixedClock(time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC))
	_, err = svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1.AddDate(0, 1, 0), PaymentMethod: domain.PaymentCash}, "admin")
	assert.NoError(t, err)
}

func TestMarkPaidValidation(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	_, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: "card"}, "admin")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: domain.PaymentUPI}, "admin")
	assert.True(t, domain.IsValidation(err), "upi without receipt should be rejected")

	_, err = svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentMethod: domain.PaymentCash}, "admin")
	assert.True(t, domain.IsValidation(err), "missing payment date should be rejected")

	_, err = svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{
		PaymentDate:   jan1,
		PaymentMethod: domain.PaymentUPI,
		ReceiptImage:  "receipts/jan.png",
	}, "admin")
	assert.NoError(t, err)
}

func TestMarkPaidAmountOverride(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	pay, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{
		PaymentDate:   jan1,
		PaymentMethod: domain.PaymentCash,
		Amount:        4500,
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(4500), pay.Amount.Amount)
	assert.Equal(t, "INR", pay.Amount.Currency)
}

func TestGetSummary(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	// Check-in November 2023, two months already paid; viewed on Jan 10 2024
	// the expected span is Nov, Dec, Jan = 3 months.
	checkIn := time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC)
	residents.mu.Lock()
	residents.residents[res.ID].CheckInDate = &checkIn
	residents.residents[res.ID].AdvancePayment = domain.Money{Amount: 5000, Currency: "INR"}
	residents.residents[res.ID].SecurityDeposit = domain.Money{Amount: 10000, Currency: "INR"}
	residents.mu.Unlock()

	for _, m := range []time.Time{checkIn, checkIn.AddDate(0, 1, 0)} {
		svc.Now = fixedClock(m)
		_, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: m, PaymentMethod: domain.PaymentCash}, "admin")
		require.NoError(t, err)
	}

	svc.Now = fixedClock(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	sum, err := svc.GetSummary(context.Background(), res.ID)
	require.NoError(t, err)

	assert.False(t, sum.CurrentMonth.IsPaid)
	assert.Equal(t, "pending", sum.CurrentMonth.Status)
	assert.Equal(t, int64(10000), sum.TotalPaid.Amount)
	assert.Equal(t, 2, sum.TotalMonths)
	assert.Equal(t, int64(5000), sum.PendingAmount.Amount)
	assert.Equal(t, int64(5000), sum.AdvancePayment.Amount)
	assert.Equal(t, int64(10000), sum.SecurityDeposit.Amount)
	assert.Len(t, sum.RecentPayments, 2)

	// Paying January flips the current-month block and clears the arrears.
	_, err = svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: svc.Now(), PaymentMethod: domain.PaymentCash}, "admin")
	require.NoError(t, err)
	sum, err = svc.GetSummary(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, sum.CurrentMonth.IsPaid)
	assert.Equal(t, "paid", sum.CurrentMonth.Status)
	assert.Equal(t, int64(0), sum.PendingAmount.Amount)
}

func TestGetSummaryNeverCheckedIn(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	res, err := residents.CreatePending(context.Background(), ports.CreateResidentParams{
		BranchID:   1,
		Name:       "Pending",
		Phone:      "9000000000",
		RentAmount: domain.Money{Amount: 5000, Currency: "INR"},
	})
	require.NoError(t, err)

	sum, err := svc.GetSummary(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.PendingAmount.Amount)
	assert.Equal(t, 0, sum.TotalMonths)
}

func TestGetSummaryStopsAtCheckOut(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	// Active Jan through Feb 2024, vacated, then viewed in June: only the
	// two occupied months count.
	_, err := residents.VacateNow(context.Background(), res.ID, time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	svc.Now = fixedClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	sum, err := svc.GetSummary(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2*5000), sum.PendingAmount.Amount)
}

func TestRefreshStatus(t *testing.T) {
	svc, residents, payments, _ := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	pay, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: domain.PaymentCash}, "admin")
	require.NoError(t, err)

	// Voiding the payment makes the cached flag stale until refreshed.
	require.NoError(t, svc.VoidPayment(context.Background(), pay.ID, "admin"))
	got, err := residents.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentMonthPaid)

	paid, err := svc.RefreshStatus(context.Background(), res.ID)
	require.NoError(t, err)
	assert.False(t, paid)
	got, err = residents.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.False(t, got.CurrentMonthPaid)

	assert.False(t, payments.hasActive(res.ID, "January", 2024))
}

func TestVoidPaymentEmitsEvent(t *testing.T) {
	svc, residents, _, activity := paymentFixture(t)
	res := seedActiveResident(t, residents, 1, 1)

	pay, err := svc.MarkPaid(context.Background(), res.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: domain.PaymentCash}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.VoidPayment(context.Background(), pay.ID, "admin"))

	events := activity.byType(domain.EventPaymentVoided)
	require.Len(t, events, 1)
	assert.Equal(t, res.ID, events[0].EntityID)
	assert.Equal(t, "admin", events[0].Actor)
	assert.Equal(t, pay.ID, events[0].Metadata["paymentId"])
	assert.Equal(t, "January", events[0].Metadata["month"])

	// Voiding twice finds no active row and emits nothing further.
	assert.Error(t, svc.VoidPayment(context.Background(), pay.ID, "admin"))
	assert.Len(t, activity.byType(domain.EventPaymentVoided), 1)
}

func TestRefreshAllForBranch(t *testing.T) {
	svc, residents, _, _ := paymentFixture(t)
	paid := seedActiveResident(t, residents, 1, 1)
	unpaid := seedActiveResident(t, residents, 1, 2)

	_, err := svc.MarkPaid(context.Background(), paid.ID, MarkPaidInput{PaymentDate: jan1, PaymentMethod: domain.PaymentCash}, "admin")
	require.NoError(t, err)

	n, err := svc.RefreshAllForBranch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	gotPaid, _ := residents.Get(context.Background(), paid.ID)
	gotUnpaid, _ := residents.Get(context.Background(), unpaid.ID)
	assert.True(t, gotPaid.CurrentMonthPaid)
	assert.False(t, gotUnpaid.CurrentMonthPaid)
}
