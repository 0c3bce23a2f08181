package event_bus

import (
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

const (
	GoalCompletedEvent EventType = "goal.completed"
	GoalReopenedEvent  EventType = "goal.reopened"
	BillPaidEvent      EventType = "bill.paid"
)

// GoalCompleted is published exactly once per not-achieved to achieved
// transition of a goal balance.
type GoalCompleted struct {
	GoalId      int
	Title       string
	Target      money.Money
	CompletedAt time.Time
}

// GoalReopened is published when a withdrawal takes an achieved goal back
// below its target.
type GoalReopened struct {
	GoalId int
	Title  string
}

// BillPaid is published when a recurring bill payment is marked paid for a
// period.
type BillPaid struct {
	BillId     int
	Name       string
	Year       int
	Month      int
	AmountPaid money.Money
}
