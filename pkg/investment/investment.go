package investment

import (
	"errors"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

var ErrInvestmentNotFound = errors.New("investment not found")

// Investment tracks a position by its invested amount and a manually updated
// current value. ExpectedReturn is an annual percentage in basis points, zero
// when unknown.
type Investment struct {
	ID             int
	Type           string
	AmountInvested money.Money
	CurrentValue   money.Money
	DateInvested   time.Time
	ExpectedReturn int
}

// ProfitLoss is the signed difference between current value and the amount
// invested.
func (i Investment) ProfitLoss() money.Money {
	return i.CurrentValue - i.AmountInvested
}
