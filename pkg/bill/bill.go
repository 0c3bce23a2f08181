package bill

import (
	"errors"
	"time"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

var (
	ErrBillNotFound    = errors.New("recurring bill not found")
	ErrPaymentNotFound = errors.New("bill payment not found")
	ErrInvalidDueDay   = errors.New("due day must be between 1 and 31")
	// ErrUnsupportedFrequency rejects per-period payment operations on bills
	// whose frequency is not monthly. The payment ledger is keyed by (year,
	// month) and has no meaning for weekly or yearly bills.
	ErrUnsupportedFrequency = errors.New("per-period payments are only tracked for monthly bills")
)

type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyYearly  Frequency = "yearly"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// RecurringBill is a periodic obligation with one nominal due day per month.
// It is never deleted: deactivation stamps DeactivatedAt and clears IsActive,
// keeping per-period history reconstructable.
type RecurringBill struct {
	ID          int
	Name        string
	Description string
	Amount      money.Money
	// DueDay is the nominal day of the month (1-31). For months shorter than
	// DueDay the due date clamps to the last day of the month.
	DueDay     int
	Frequency  Frequency
	CategoryId int
	IsActive   bool
	// DeactivatedAt is the deactivation tombstone; zero while the bill is
	// active.
	DeactivatedAt time.Time
	CreatedAt     time.Time
}

// WasActiveDuring reports whether the bill was still active when the given
// period began. A bill deactivated partway through a month still counts as
// active for that month. Without a tombstone the current IsActive flag is the
// answer.
func (b RecurringBill) WasActiveDuring(year, month int) (bool, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return false, err
	}
	if b.DeactivatedAt.IsZero() {
		return b.IsActive, nil
	}
	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return b.DeactivatedAt.After(periodStart), nil
}

// BillPayment is the materialized payment record of one bill for one (year,
// month) period. At most one exists per (bill, year, month); it is created
// lazily on first access.
type BillPayment struct {
	ID     int
	BillId int
	Year   int
	Month  int
	Status PaymentStatus
	// PaidDate and AmountPaid are set when Status is paid and cleared when the
	// payment reverts to pending.
	PaidDate   time.Time
	AmountPaid money.Money
	Notes      string
	CreatedAt  time.Time
}

// IsOverdue reports whether the payment is still pending past its due date.
// Overdue is derived at read time, never stored. A payment due today is not
// overdue yet.
func (p BillPayment) IsOverdue(dueDate time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return p.Status == PaymentStatusPending && dueDate.Before(today)
}
