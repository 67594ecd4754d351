package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassFor(t *testing.T) {
	tests := []struct {
		v    float64
		want Class
	}{
		{1, Positive},
		{0.0001, Positive},
		{0, Neutral},
		{math.Copysign(0, -1), Neutral},
		{-0.0001, Negative},
		{-3, Negative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassFor(tt.v), "ClassFor(%v)", tt.v)
	}
}

func TestTradeClass(t *testing.T) {
	assert.Equal(t, Positive, TradeClass(0))
	assert.Equal(t, Positive, TradeClass(2))
	assert.Equal(t, Negative, TradeClass(-0.01))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "+0.00%"},
		{1.234, "+1.23%"},
		{-2.5, "-2.50%"},
		{12, "+12.00%"},
		{-0.001, "-0.00%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.v), "Percent(%v)", tt.v)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$35.00", Money(35))
	assert.Equal(t, "$67412.50", Money(67412.5))
	assert.Equal(t, "$-3.10", Money(-3.1))
}

func TestSignedMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "+$0.00"},
		{1.5, "+$1.50"},
		{-1.5, "-$1.50"},
		{-0.004, "-$0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignedMoney(tt.v), "SignedMoney(%v)", tt.v)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, "0", Count(0))
	assert.Equal(t, "12", Count(12))
	assert.Equal(t, "2.5", Count(2.5))
}

func TestCountdown(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{300, "5:00"},
		{65, "1:05"},
		{59, "0:59"},
		{0, "0:00"},
		{-5, "-1:-5"},
		{-60, "-1:00"},
		{-65, "-2:-5"},
		{90.5, "1:30.5"},
		{6e20, "10000000000000000000:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Countdown(tt.seconds), "Countdown(%v)", tt.seconds)
	}
}

func TestDayHeader(t *testing.T) {
	assert.Equal(t, "Monday, January 1, 2024", DayHeader("2024-01-01"))
	assert.Equal(t, "01/02/2024", DayHeader("01/02/2024"))
	assert.Equal(t, "no date", DayHeader("no date"))
}
