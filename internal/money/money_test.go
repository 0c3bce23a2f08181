package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Money
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "no fraction", input: "150", want: 15000},
		{name: "single fraction digit", input: "4.5", want: 450},
		{name: "third digit rounds down", input: "12.344", want: 1234},
		{name: "third digit rounds up", input: "12.345", want: 1235},
		{name: "zero", input: "0", want: 0},
		{name: "leading dot", input: ".99", want: 99},
		{name: "empty", input: "", wantErr: true},
		{name: "negative sign rejected", input: "-1.00", wantErr: true},
		{name: "plus sign rejected", input: "+1.00", wantErr: true},
		{name: "letters rejected", input: "12abc", wantErr: true},
		{name: "two dots rejected", input: "1.2.3", wantErr: true},
		{name: "four fraction digits rejected", input: "12.3456", wantErr: true},
		{name: "largest representable amount", input: "92233720368547758.07", want: Money(math.MaxInt64)},
		{name: "cents past int64 rejected", input: "92233720368547758.08", wantErr: true},
		{name: "rounding past int64 rejected", input: "92233720368547758.075", wantErr: true},
		{name: "integer part past int64 rejected", input: "92233720368547759", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePositive(t *testing.T) {
	_, err := ParsePositive("0")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParsePositive("0.00")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	m, err := ParsePositive("0.01")
	assert.NoError(t, err)
	assert.Equal(t, Money(1), m)
}

func TestString(t *testing.T) {
	assert.Equal(t, "1234.50", Money(123450).String())
	assert.Equal(t, "0.07", Money(7).String())
	assert.Equal(t, "-3.07", Money(-307).String())
	assert.Equal(t, "0.00", Money(0).String())
}
