package bill

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// ValidatePeriod checks that (year, month) identifies a real calendar period.
func ValidatePeriod(year, month int) error {
	if year <= 0 || month < 1 || month > 12 {
		return ErrInvalidPeriod
	}
	return nil
}

// DueDateFor resolves the calendar due date of a bill with the given nominal
// due day for one (year, month) period. Days that do not exist in the target
// month clamp to its last day, so day 31 resolves to April 30 and to
// February 28 or 29 depending on the year.
func DueDateFor(dueDay, year, month int) (time.Time, error) {
	if err := ValidatePeriod(year, month); err != nil {
		return time.Time{}, err
	}
	if dueDay < 1 || dueDay > 31 {
		return time.Time{}, ErrInvalidDueDay
	}
	// Day 0 of the next month is the last day of this one.
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := dueDay
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
