package debt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

func TestDebtService(t *testing.T) {
	service := NewDebtService(NewStubDebtRepo())
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

	loan, err := service.Create(ctx, Debt{
		Name:    "Car loan installment",
		Amount:  85000,
		Date:    time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		DueDate: time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("paid toggle round-trips", func(t *testing.T) {
		paid, err := service.MarkPaid(ctx, loan.ID)
		require.NoError(t, err)
		assert.True(t, paid.Paid)

		unpaid, err := service.MarkUnpaid(ctx, loan.ID)
		require.NoError(t, err)
		assert.False(t, unpaid.Paid)
	})

	t.Run("unpaid filter", func(t *testing.T) {
		_, err := service.MarkPaid(ctx, loan.ID)
		require.NoError(t, err)
		debts, err := service.GetAll(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, debts)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.MarkPaid(ctx, 999)
		assert.ErrorIs(t, err, ErrDebtNotFound)
	})
}

func TestDebt_IsOverdue(t *testing.T) {
	now := time.Date(2024, time.August, 10, 15, 0, 0, 0, time.UTC)
	due := time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC)

	assert.True(t, Debt{DueDate: due}.IsOverdue(now))
	assert.False(t, Debt{DueDate: due, Paid: true}.IsOverdue(now))
	// Due today is not overdue yet.
	assert.False(t, Debt{DueDate: time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC)}.IsOverdue(now))
}
