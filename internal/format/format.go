// Package format turns raw snapshot numbers and timestamps into display
// strings and sign-aware style classes.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Class is the border style state of a bordered block.
type Class string

const (
	Positive Class = "border-green"
	Negative Class = "border-red"
	Neutral  Class = "border-neutral"
)

// ClassFor maps v to exactly one of the three classes by its sign.
func ClassFor(v float64) Class {
	switch {
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	default:
		return Neutral
	}
}

// TradeClass is the two-state border used by trade blocks: zero counts as positive.
func TradeClass(pnlPercent float64) Class {
	if pnlPercent >= 0 {
		return Positive
	}
	return Negative
}

// Fixed renders v with exactly two decimals. A negative value that rounds
// to zero keeps its minus sign.
func Fixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	s := decimal.NewFromFloat(v).StringFixed(2)
	if v < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// Money renders "$12.34".
func Money(v float64) string {
	return "$" + Fixed(v)
}

// Percent renders "+1.23%" for v >= 0 and "-1.23%" otherwise.
func Percent(v float64) string {
	return sign(v) + Fixed(v) + "%"
}

// SignedMoney renders the unsigned magnitude behind a sign marker:
// "+$1.23" or "-$1.23".
func SignedMoney(v float64) string {
	if v < 0 {
		return "-$" + Fixed(math.Abs(v))
	}
	return "+$" + Fixed(v)
}

// Count renders a counter the way the bot sends it, without forced decimals.
func Count(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Countdown renders seconds as "m:ss". Negative input is not clamped: the
// minutes are floored and the seconds keep the remainder's sign. A
// fractional remainder is shown as is.
func Countdown(seconds float64) string {
	minutes := math.Floor(seconds / 60)
	rem := math.Mod(seconds, 60)
	if minutes == 0 {
		minutes = 0 // no "-0"
	}
	if rem == 0 {
		rem = 0
	}
	secs := strconv.FormatFloat(rem, 'f', -1, 64)
	if len(secs) < 2 {
		secs = "0" + secs
	}
	return strconv.FormatFloat(minutes, 'f', -1, 64) + ":" + secs
}

// DayHeader renders a "YYYY-MM-DD" group key long-form. Keys that are not
// ISO dates come back unchanged.
func DayHeader(key string) string {
	d, err := time.Parse(time.DateOnly, key)
	if err != nil {
		return key
	}
	return d.Format("Monday, January 2, 2006")
}

func sign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}
