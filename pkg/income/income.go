package income

import (
	"errors"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

var ErrIncomeNotFound = errors.New("income not found")

// Income is a single dated money-in record, optionally labeled with a
// category.
type Income struct {
	ID          int
	Title       string
	Amount      money.Money
	Description string
	Date        time.Time
	CategoryId  int
}
