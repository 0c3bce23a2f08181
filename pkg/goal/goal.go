package goal

import (
	"errors"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	// ErrExceedsRemainingCapacity rejects a deposit larger than the remaining
	// shortfall while the goal is still short of its target.
	ErrExceedsRemainingCapacity = errors.New("deposit exceeds remaining goal capacity")
	ErrInsufficientBalance      = errors.New("withdrawal exceeds current balance")
	// ErrConcurrencyConflict signals a lost optimistic update of the balance.
	// The service retries the whole operation once before surfacing it.
	ErrConcurrencyConflict = errors.New("concurrent goal update conflict")
	ErrInvalidTarget       = errors.New("goal target must be positive")
)

// Goal is a savings goal. Current is denormalized and must always equal the
// sum of the goal's entry amounts; every mutation goes through the entry
// ledger.
type Goal struct {
	ID          int
	Title       string
	Slug        string
	Description string
	Target      money.Money
	Current     money.Money
	Deadline    time.Time
	Achieved    bool
	// CompletedAt is stamped exactly once on the not-achieved to achieved
	// transition and cleared if the balance later falls below target again.
	CompletedAt time.Time
	CreatedAt   time.Time
}

// Remaining is the positive shortfall to the target, zero once met or
// exceeded.
func (g Goal) Remaining() money.Money {
	if g.Current >= g.Target {
		return 0
	}
	return g.Target - g.Current
}

// ProgressPercentage is capped at 100 even when the balance exceeds the
// target.
func (g Goal) ProgressPercentage() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := float64(g.Current) / float64(g.Target) * 100
	if p > 100 {
		return 100
	}
	return p
}

// DaysRemaining reports the whole days until the deadline. The second return
// value is false when the goal has no deadline.
func (g Goal) DaysRemaining(now time.Time) (int, bool) {
	if g.Deadline.IsZero() {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(g.Deadline.Sub(today).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

// GoalEntry is one immutable, signed movement of a goal's balance: positive
// for deposits, negative for withdrawals. Entries are the canonical audit
// trail for the balance.
type GoalEntry struct {
	ID        int
	GoalId    int
	Amount    money.Money
	Note      string
	CreatedAt time.Time
}
