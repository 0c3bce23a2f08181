package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueDateFor(t *testing.T) {
	tests := []struct {
		name    string
		dueDay  int
		year    int
		month   int
		want    time.Time
		wantErr error
	}{
		{
			name:   "regular day",
			dueDay: 15, year: 2024, month: 8,
			want: time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "day 31 clamps to April 30",
			dueDay: 31, year: 2023, month: 4,
			want: time.Date(2023, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "day 31 clamps to Feb 29 in leap year",
			dueDay: 31, year: 2024, month: 2,
			want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "day 31 clamps to Feb 28 in non-leap year",
			dueDay: 31, year: 2023, month: 2,
			want: time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "day 30 fits in April",
			dueDay: 30, year: 2023, month: 4,
			want: time.Date(2023, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "month zero rejected",
			dueDay: 15, year: 2024, month: 0,
			wantErr: ErrInvalidPeriod,
		},
		{
			name:   "month 13 rejected",
			dueDay: 15, year: 2024, month: 13,
			wantErr: ErrInvalidPeriod,
		},
		{
			name:   "non-positive year rejected",
			dueDay: 15, year: 0, month: 6,
			wantErr: ErrInvalidPeriod,
		},
		{
			name:   "due day zero rejected",
			dueDay: 0, year: 2024, month: 6,
			wantErr: ErrInvalidDueDay,
		},
		{
			name:   "due day 32 rejected",
			dueDay: 32, year: 2024, month: 6,
			wantErr: ErrInvalidDueDay,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DueDateFor(tt.dueDay, tt.year, tt.month)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
