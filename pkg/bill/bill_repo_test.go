package bill

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/internal/test_utils"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupBillRepoTest(t *testing.T) (context.Context, *BillRepoImpl, *PaymentRepoImpl, int) {
	t.Helper()
	ctx := context.Background()
	userId, err := test_utils.CreateTestUser(ctx, db, "bill_"+t.Name())
	require.NoError(t, err)
	return ctx, NewBillRepo(db), NewPaymentRepo(db), userId
}

func TestBillRepoImpl_StoreAndGet(t *testing.T) {
	ctx, bills, _, userId := setupBillRepoTest(t)

	id, err := bills.Store(ctx, userId, RecurringBill{
		Name:      "Internet",
		Amount:    9990,
		DueDay:    20,
		Frequency: FrequencyMonthly,
	})
	require.NoError(t, err)

	stored, err := bills.Get(ctx, userId, id)
	require.NoError(t, err)
	assert.Equal(t, "Internet", stored.Name)
	assert.True(t, stored.IsActive)
	assert.True(t, stored.DeactivatedAt.IsZero())

	_, err = bills.Get(ctx, userId+1, id)
	assert.ErrorIs(t, err, ErrBillNotFound)
}

func TestBillRepoImpl_DeactivatePreservesFirstTombstone(t *testing.T) {
	ctx, bills, _, userId := setupBillRepoTest(t)

	id, err := bills.Store(ctx, userId, RecurringBill{Name: "Gym", Amount: 12000, DueDay: 5, Frequency: FrequencyMonthly})
	require.NoError(t, err)

	first := time.Date(2024, time.August, 17, 10, 0, 0, 0, time.UTC)
	ok, err := bills.Deactivate(ctx, userId, id, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bills.Deactivate(ctx, userId, id, first.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := bills.Get(ctx, userId, id)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.DeactivatedAt.Equal(first))
}

func TestPaymentRepoImpl_CreateIsIdempotentPerPeriod(t *testing.T) {
	ctx, bills, payments, userId := setupBillRepoTest(t)

	billId, err := bills.Store(ctx, userId, RecurringBill{Name: "Rent", Amount: 180000, DueDay: 1, Frequency: FrequencyMonthly})
	require.NoError(t, err)

	created, wasCreated, err := payments.Create(ctx, billId, 2024, 8)
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.Equal(t, PaymentStatusPending, created.Status)

	_, wasCreated, err = payments.Create(ctx, billId, 2024, 8)
	require.NoError(t, err)
	assert.False(t, wasCreated)

	existing, err := payments.Find(ctx, billId, 2024, 8)
	require.NoError(t, err)
	assert.Equal(t, created.ID, existing.ID)
}

func TestPaymentRepoImpl_UpdateMarksPaid(t *testing.T) {
	ctx, bills, payments, userId := setupBillRepoTest(t)

	billId, err := bills.Store(ctx, userId, RecurringBill{Name: "Water", Amount: 6000, DueDay: 10, Frequency: FrequencyMonthly})
	require.NoError(t, err)
	payment, _, err := payments.Create(ctx, billId, 2024, 8)
	require.NoError(t, err)

	payment.Status = PaymentStatusPaid
	payment.PaidDate = time.Date(2024, time.August, 9, 14, 0, 0, 0, time.UTC)
	payment.AmountPaid = 6000
	payment.Notes = "paid online"

	updated, err := payments.Update(ctx, payment)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, updated.Status)
	assert.Equal(t, payment.AmountPaid, updated.AmountPaid)
	assert.Equal(t, "paid online", updated.Notes)
	assert.True(t, updated.PaidDate.Equal(payment.PaidDate))
}
