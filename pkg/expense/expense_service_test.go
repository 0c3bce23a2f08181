package expense

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

func TestExpenseService(t *testing.T) {
	service := NewExpenseService(NewStubExpenseRepo())
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

	_, err := service.Create(ctx, Expense{
		Title:  "Groceries",
		Amount: 45030,
		Date:   time.Date(2024, time.August, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	rent, err := service.Create(ctx, Expense{
		Title:  "Rent",
		Amount: 180000,
		Date:   time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("listing is newest first", func(t *testing.T) {
		expenses, err := service.GetForMonth(ctx, 2024, 8)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Groceries", expenses[0].Title)
	})

	t.Run("empty month", func(t *testing.T) {
		expenses, err := service.GetForMonth(ctx, 2024, 9)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, rent.ID))
		_, err := service.Get(ctx, rent.ID)
		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})
}
