package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecurringBill_WasActiveDuring(t *testing.T) {
	deactivated := time.Date(2024, time.August, 17, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		bill  RecurringBill
		year  int
		month int
		want  bool
	}{
		{
			name: "no tombstone and active",
			bill: RecurringBill{IsActive: true},
			year: 2024, month: 8,
			want: true,
		},
		{
			name: "no tombstone and inactive",
			bill: RecurringBill{IsActive: false},
			year: 2024, month: 8,
			want: false,
		},
		{
			name: "period before deactivation",
			bill: RecurringBill{DeactivatedAt: deactivated},
			year: 2024, month: 7,
			want: true,
		},
		{
			name: "deactivated partway through the period",
			bill: RecurringBill{DeactivatedAt: deactivated},
			year: 2024, month: 8,
			want: true,
		},
		{
			name: "period after deactivation",
			bill: RecurringBill{DeactivatedAt: deactivated},
			year: 2024, month: 9,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.bill.WasActiveDuring(tt.year, tt.month)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid period rejected", func(t *testing.T) {
		_, err := RecurringBill{IsActive: true}.WasActiveDuring(2024, 13)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestBillPayment_IsOverdue(t *testing.T) {
	dueDate := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)

	t.Run("pending after due date is overdue", func(t *testing.T) {
		payment := BillPayment{Status: PaymentStatusPending}
		now := time.Date(2024, time.August, 16, 9, 0, 0, 0, time.UTC)
		assert.True(t, payment.IsOverdue(dueDate, now))
	})

	t.Run("pending on the due date is not overdue", func(t *testing.T) {
		payment := BillPayment{Status: PaymentStatusPending}
		now := time.Date(2024, time.August, 15, 23, 59, 0, 0, time.UTC)
		assert.False(t, payment.IsOverdue(dueDate, now))
	})

	t.Run("paid is never overdue", func(t *testing.T) {
		payment := BillPayment{Status: PaymentStatusPaid}
		now := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
		assert.False(t, payment.IsOverdue(dueDate, now))
	})
}
