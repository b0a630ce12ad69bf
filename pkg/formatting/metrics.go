package formatting

import (
	"strconv"
	"strings"
)

// Level grades a performance metric for display.
type Level string

const (
	LevelGood Level = "good"
	LevelFair Level = "fair"
	LevelPoor Level = "poor"
)

// FormatCount renders usage counts compactly: 950, 12.5K, 3.2M.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCurrency renders a USD amount with two to four fraction digits
// and thousands separators, e.g. $0.0023 or $1,234.50.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 4, 64)
	whole, frac, _ := strings.Cut(s, ".")

	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}

	return sign + "$" + groupThousands(whole) + "." + frac
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

// FormatMillis renders a response time given in milliseconds.
// Values of one second or more are shown in seconds.
func FormatMillis(ms float64) string {
	if ms >= 1000 {
		return strconv.FormatFloat(ms/1000, 'f', 2, 64) + "s"
	}
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}

// SuccessLevel grades a success rate percentage.
func SuccessLevel(rate float64) Level {
	switch {
	case rate >= 95:
		return LevelGood
	case rate >= 85:
		return LevelFair
	default:
		return LevelPoor
	}
}

// ResponseLevel grades an average response time in milliseconds.
func ResponseLevel(ms float64) Level {
	switch {
	case ms <= 200:
		return LevelGood
	case ms <= 500:
		return LevelFair
	default:
		return LevelPoor
	}
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
