package investment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

func TestInvestment_ProfitLoss(t *testing.T) {
	gain := Investment{AmountInvested: 1000000, CurrentValue: 1125050}
	assert.Equal(t, money.Money(125050), gain.ProfitLoss())

	loss := Investment{AmountInvested: 1000000, CurrentValue: 940000}
	assert.Equal(t, money.Money(-60000), loss.ProfitLoss())
}

func TestInvestmentService(t *testing.T) {
	service := NewInvestmentService(NewStubInvestmentRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, Investment{
		Type:           "Tesouro Direto",
		AmountInvested: 500000,
		CurrentValue:   500000,
		DateInvested:   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		ExpectedReturn: 1050,
	})
	require.NoError(t, err)

	created.CurrentValue = 523000
	updated, err := service.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, money.Money(23000), updated.ProfitLoss())

	require.NoError(t, service.Delete(ctx, created.ID))
	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrInvestmentNotFound)
}
