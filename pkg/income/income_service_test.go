package income

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

func TestIncomeService(t *testing.T) {
	service := NewIncomeService(NewStubIncomeRepo())
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

	july := time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)
	august := time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC)

	first, err := service.Create(ctx, Income{Title: "Salary", Amount: 500000, Date: july})
	require.NoError(t, err)
	_, err = service.Create(ctx, Income{Title: "Freelance", Amount: 120000, Date: august})
	require.NoError(t, err)

	t.Run("month filter", func(t *testing.T) {
		incomes, err := service.GetForMonth(ctx, 2024, 7)
		require.NoError(t, err)
		require.Len(t, incomes, 1)
		assert.Equal(t, "Salary", incomes[0].Title)
	})

	t.Run("update round-trips", func(t *testing.T) {
		first.Amount = 510000
		updated, err := service.Update(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, first.Amount, updated.Amount)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.Get(ctx, 999)
		assert.ErrorIs(t, err, ErrIncomeNotFound)
		assert.ErrorIs(t, service.Delete(ctx, 999), ErrIncomeNotFound)
	})

	t.Run("requires user in context", func(t *testing.T) {
		_, err := service.GetAll(context.Background())
		assert.Error(t, err)
	})
}
