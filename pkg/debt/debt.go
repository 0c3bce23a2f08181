package debt

import (
	"errors"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

var ErrDebtNotFound = errors.New("debt not found")

// Debt is a one-off obligation with its own due date, unlike a recurring
// bill which regenerates per period. Paid is a simple flag, there is no
// per-period ledger behind it.
type Debt struct {
	ID          int
	Name        string
	Amount      money.Money
	Description string
	Date        time.Time
	DueDate     time.Time
	Paid        bool
	CategoryId  int
}

// IsOverdue reports whether the debt is unpaid past its due date.
func (d Debt) IsOverdue(now time.Time) bool {
	if d.Paid || d.DueDate.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.DueDate.Before(today)
}
