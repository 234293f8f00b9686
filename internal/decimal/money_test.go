package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/eracun-processor/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("2996.44")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("2996.44")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := decimal.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		decimal.MustFromString("invalid")
	})
}

func TestMul(t *testing.T) {
	a := dec.NewFromInt(100)
	b := dec.NewFromFloat(0.15)
	result := decimal.Mul(a, b)
	assert.True(t, result.Equal(dec.NewFromInt(15)))
}

func TestCalculateVAT(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		percent  string
		expected string
	}{
		{"25% of 2996.44", "2996.44", "25", "749.11"},
		{"13% of 1000.00", "1000.00", "13", "130.00"},
		{"0% of 250.00", "250.00", "0", "0"},
		{"25% of negative base", "-250.00", "25", "-62.50"},
		{"rounds to two places", "10.01", "25", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := dec.RequireFromString(tt.base)
			percent := dec.RequireFromString(tt.percent)
			result := decimal.CalculateVAT(base, percent)
			expected := dec.RequireFromString(tt.expected)

			assert.True(t, result.Equal(expected),
				"base=%s, rate=%s%%: got %s, want %s",
				tt.base, tt.percent, result.String(), tt.expected)
		})
	}
}

func TestSumStrings(t *testing.T) {
	sum, ok := decimal.SumStrings([]string{"1996.44", "1000.00"})
	require.True(t, ok)
	assert.True(t, sum.Equal(dec.RequireFromString("2996.44")))
}

func TestSumStrings_Unparsable(t *testing.T) {
	_, ok := decimal.SumStrings([]string{"1996.44", "n/a"})
	assert.False(t, ok)
}

func TestSumStrings_Empty(t *testing.T) {
	sum, ok := decimal.SumStrings(nil)
	require.True(t, ok)
	assert.True(t, sum.IsZero())
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(600)))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}
