package expense

import (
	"errors"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

var ErrExpenseNotFound = errors.New("expense not found")

// Expense is a single dated money-out record, optionally labeled with a
// category.
type Expense struct {
	ID          int
	Title       string
	Amount      money.Money
	Description string
	Date        time.Time
	CategoryId  int
}
