package bill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/internal/event_bus"
	"github.com/equilibrium-app/equilibrium/internal/utils"
	"github.com/equilibrium-app/equilibrium/pkg/user"
)

func setupServiceTest(t *testing.T) (*BillServiceImpl, context.Context, *utils.MockClock) {
	t.Helper()
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.August, 10, 12, 0, 0, 0, time.UTC)}
	service := NewBillService(NewStubBillRepo(), NewStubPaymentRepo(), clock, event_bus.NewEventBus())
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})
	return service, ctx, clock
}

func createTestBill(t *testing.T, service *BillServiceImpl, ctx context.Context) RecurringBill {
	t.Helper()
	b, err := service.Create(ctx, RecurringBill{
		Name:      "Electricity",
		Amount:    15000,
		DueDay:    15,
		Frequency: FrequencyMonthly,
	})
	require.NoError(t, err)
	return b
}

func TestBillService_Create(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)

	t.Run("creates active monthly bill", func(t *testing.T) {
		b := createTestBill(t, service, ctx)
		assert.True(t, b.IsActive)
		assert.True(t, b.DeactivatedAt.IsZero())
		assert.Equal(t, FrequencyMonthly, b.Frequency)
	})

	t.Run("rejects due day outside 1-31", func(t *testing.T) {
		_, err := service.Create(ctx, RecurringBill{Name: "Bad", Amount: 100, DueDay: 32})
		assert.ErrorIs(t, err, ErrInvalidDueDay)
	})
}

func TestBillService_GetStatus(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)
	b := createTestBill(t, service, ctx)

	t.Run("pending without a stored record", func(t *testing.T) {
		status, err := service.GetStatus(ctx, b.ID, 2024, 8)
		assert.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, status)
	})

	t.Run("does not create a record as a side effect", func(t *testing.T) {
		_, err := service.GetStatus(ctx, b.ID, 2024, 8)
		require.NoError(t, err)
		_, err = service.payments.Find(ctx, b.ID, 2024, 8)
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("paid after marking paid", func(t *testing.T) {
		_, err := service.MarkPaid(ctx, b.ID, 2024, 8, 0, "")
		require.NoError(t, err)
		status, err := service.GetStatus(ctx, b.ID, 2024, 8)
		assert.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, status)
	})

	t.Run("invalid month rejected", func(t *testing.T) {
		_, err := service.GetStatus(ctx, b.ID, 2024, 0)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("unknown bill", func(t *testing.T) {
		_, err := service.GetStatus(ctx, 999, 2024, 8)
		assert.ErrorIs(t, err, ErrBillNotFound)
	})
}

func TestBillService_GetOrCreatePayment(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)
	b := createTestBill(t, service, ctx)

	first, created, err := service.GetOrCreatePayment(ctx, b.ID, 2024, 8)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, PaymentStatusPending, first.Status)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 8, first.Month)

	second, created, err := service.GetOrCreatePayment(ctx, b.ID, 2024, 8)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestBillService_MarkPaid(t *testing.T) {
	t.Run("uses the nominal amount by default", func(t *testing.T) {
		service, ctx, clock := setupServiceTest(t)
		b := createTestBill(t, service, ctx)

		payment, err := service.MarkPaid(ctx, b.ID, 2024, 8, 0, "")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, payment.Status)
		assert.Equal(t, b.Amount, payment.AmountPaid)
		assert.Equal(t, clock.Now(), payment.PaidDate)
	})

	t.Run("keeps an explicit amount and notes", func(t *testing.T) {
		service, ctx, _ := setupServiceTest(t)
		b := createTestBill(t, service, ctx)

		payment, err := service.MarkPaid(ctx, b.ID, 2024, 8, 14500, "paid with discount")
		require.NoError(t, err)
		assert.Equal(t, int64(14500), int64(payment.AmountPaid))
		assert.Equal(t, "paid with discount", payment.Notes)
	})

	t.Run("publishes a bill paid event", func(t *testing.T) {
		clock := &utils.MockClock{FixedNow: time.Date(2024, time.August, 10, 12, 0, 0, 0, time.UTC)}
		bus := event_bus.NewEventBus()
		service := NewBillService(NewStubBillRepo(), NewStubPaymentRepo(), clock, bus)
		ctx := user.WithUser(context.Background(), user.User{Id: 1})
		b := createTestBill(t, service, ctx)

		var published []event_bus.BillPaid
		event_bus.SubscribeTyped[event_bus.BillPaid](bus, event_bus.BillPaidEvent,
			func(e event_bus.EventT[event_bus.BillPaid]) error {
				published = append(published, e.Data)
				return nil
			})

		_, err := service.MarkPaid(ctx, b.ID, 2024, 8, 0, "")
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, b.ID, published[0].BillId)
		assert.Equal(t, 2024, published[0].Year)
	})
}

func TestBillService_MarkPending(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)
	b := createTestBill(t, service, ctx)

	t.Run("no-op when no record exists", func(t *testing.T) {
		payment, err := service.MarkPending(ctx, b.ID, 2024, 7)
		assert.NoError(t, err)
		assert.Nil(t, payment)
	})

	t.Run("clears paid date and amount", func(t *testing.T) {
		paid, err := service.MarkPaid(ctx, b.ID, 2024, 8, 0, "")
		require.NoError(t, err)
		require.Equal(t, PaymentStatusPaid, paid.Status)

		reverted, err := service.MarkPending(ctx, b.ID, 2024, 8)
		require.NoError(t, err)
		require.NotNil(t, reverted)
		assert.Equal(t, PaymentStatusPending, reverted.Status)
		assert.True(t, reverted.PaidDate.IsZero())
		assert.Zero(t, reverted.AmountPaid)
	})
}

func TestBillService_NonMonthlyHasNoPeriodLedger(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)
	weekly, err := service.Create(ctx, RecurringBill{
		Name:      "Cleaning",
		Amount:    8000,
		DueDay:    1,
		Frequency: FrequencyWeekly,
	})
	require.NoError(t, err)

	t.Run("mark paid rejected without creating a record", func(t *testing.T) {
		_, err := service.MarkPaid(ctx, weekly.ID, 2024, 8, 0, "")
		assert.ErrorIs(t, err, ErrUnsupportedFrequency)
		_, err = service.payments.Find(ctx, weekly.ID, 2024, 8)
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("status and get-or-create rejected", func(t *testing.T) {
		_, err := service.GetStatus(ctx, weekly.ID, 2024, 8)
		assert.ErrorIs(t, err, ErrUnsupportedFrequency)
		_, _, err = service.GetOrCreatePayment(ctx, weekly.ID, 2024, 8)
		assert.ErrorIs(t, err, ErrUnsupportedFrequency)
		_, err = service.MarkPending(ctx, weekly.ID, 2024, 8)
		assert.ErrorIs(t, err, ErrUnsupportedFrequency)
		_, err = service.PaymentForPeriod(ctx, weekly.ID, 2024, 8)
		assert.ErrorIs(t, err, ErrUnsupportedFrequency)
	})

	t.Run("excluded from the period listing", func(t *testing.T) {
		monthly := createTestBill(t, service, ctx)
		details, err := service.GetAllForPeriod(ctx, 2024, 8)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, monthly.ID, details[0].Bill.ID)
	})
}

func TestBillService_Deactivate(t *testing.T) {
	service, ctx, clock := setupServiceTest(t)
	b := createTestBill(t, service, ctx)

	deactivated, err := service.Deactivate(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	assert.Equal(t, clock.Now(), deactivated.DeactivatedAt)

	t.Run("repeated deactivation keeps the first tombstone", func(t *testing.T) {
		firstTombstone := deactivated.DeactivatedAt
		clock.SetNow(clock.Now().Add(48 * time.Hour))

		again, err := service.Deactivate(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, firstTombstone, again.DeactivatedAt)
	})
}

func TestBillService_WasActiveDuring(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)
	b := createTestBill(t, service, ctx)

	// Deactivate on 2024-08-10; August began before that, September after.
	_, err := service.Deactivate(ctx, b.ID)
	require.NoError(t, err)

	active, err := service.WasActiveDuring(ctx, b.ID, 2024, 7)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = service.WasActiveDuring(ctx, b.ID, 2024, 8)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = service.WasActiveDuring(ctx, b.ID, 2024, 9)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestBillService_PaymentForPeriod(t *testing.T) {
	service, ctx, clock := setupServiceTest(t)
	b := createTestBill(t, service, ctx)

	t.Run("pending period past its due date is overdue", func(t *testing.T) {
		details, err := service.PaymentForPeriod(ctx, b.ID, 2024, 1)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, details.Status)
		assert.Nil(t, details.Payment)
		assert.True(t, details.Overdue)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), details.DueDate)
	})

	t.Run("future period is not overdue", func(t *testing.T) {
		details, err := service.PaymentForPeriod(ctx, b.ID, 2024, 12)
		require.NoError(t, err)
		assert.False(t, details.Overdue)
	})

	t.Run("paid period is not overdue", func(t *testing.T) {
		_, err := service.MarkPaid(ctx, b.ID, 2024, 1, 0, "")
		require.NoError(t, err)
		details, err := service.PaymentForPeriod(ctx, b.ID, 2024, 1)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, details.Status)
		assert.False(t, details.Overdue)
	})

	t.Run("overdue flips as the clock moves", func(t *testing.T) {
		clock.SetNow(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
		details, err := service.PaymentForPeriod(ctx, b.ID, 2024, 12)
		require.NoError(t, err)
		assert.True(t, details.Overdue)
	})
}

func TestBillService_GetAllForPeriod(t *testing.T) {
	service, ctx, _ := setupServiceTest(t)
	kept := createTestBill(t, service, ctx)
	dropped, err := service.Create(ctx, RecurringBill{Name: "Old gym", Amount: 9000, DueDay: 5})
	require.NoError(t, err)
	_, err = service.Deactivate(ctx, dropped.ID)
	require.NoError(t, err)

	// Deactivated on 2024-08-10: both bills show for August, only one for
	// September.
	details, err := service.GetAllForPeriod(ctx, 2024, 8)
	require.NoError(t, err)
	assert.Len(t, details, 2)

	details, err = service.GetAllForPeriod(ctx, 2024, 9)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, kept.ID, details[0].Bill.ID)
}
