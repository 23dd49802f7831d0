package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestCurrency(t *testing.T) {
	assert.Equal(t, NA, Currency(nil))
	assert.Equal(t, "$1,234.56", Currency(f(1234.56)))
	assert.Equal(t, "$0.50", Currency(f(0.5)))
	assert.Equal(t, "-$12.00", Currency(f(-12)))
}

func TestNumberAndPercent(t *testing.T) {
	assert.Equal(t, NA, Number(nil, 2))
	assert.Equal(t, "12.35", Number(f(12.346), 2))
	assert.Equal(t, "1234.5", Number(f(1234.5), 1))
	assert.Equal(t, "3.10%", Percent(f(3.1), 2))
	assert.Equal(t, NA, Percent(nil, 2))
}

func TestChange(t *testing.T) {
	assert.Equal(t, "▲ 1.50%", Change(f(1.5)))
	assert.Equal(t, "▼ 2.25%", Change(f(-2.25)))
	assert.Equal(t, "0.00%", Change(f(0)))
	assert.Equal(t, NA, Change(nil))
}

func TestMarketCap(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, NA},
		{f(2.5e12), "$2.50T"},
		{f(3.456e9), "$3.46B"},
		{f(45e6), "$45.00M"},
		{f(999999), "$999,999.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MarketCap(tt.in))
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "0", Count(0))
}
