// Package money provides a fixed-precision representation for monetary
// amounts. Amounts are stored as integer cents; floats never take part in
// arithmetic.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid monetary amount")

// Money is a monetary amount in cents. It is signed: goal ledger entries use
// negative values for withdrawals.
type Money int64

// Parse converts a decimal string with up to two fraction digits into Money.
// Both "12.34" and "12,34" are accepted. A third fraction digit is rounded
// half-up; more than three are rejected rather than silently discarded.
// Signs are rejected: callers decide the direction of an amount.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	if len(fracPart) > 3 {
		return 0, ErrInvalidAmount
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	if iv > math.MaxInt64/100 || (iv == math.MaxInt64/100 && fracCents > math.MaxInt64%100) {
		return 0, ErrInvalidAmount
	}
	return Money(iv*100 + fracCents), nil
}

// ParsePositive is Parse restricted to strictly positive amounts. It is the
// boundary check for deposit, withdrawal and payment inputs.
func ParsePositive(s string) (Money, error) {
	m, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if m <= 0 {
		return 0, ErrInvalidAmount
	}
	return m, nil
}

// String renders the amount as a plain decimal with two fraction digits,
// e.g. "1234.50" or "-3.07".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Abs returns the absolute value of the amount.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}
