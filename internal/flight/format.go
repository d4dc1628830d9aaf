package flight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders an amount with thousands grouping, e.g. "IDR 1,250,000".
// Fractions are only shown when present.
func FormatPrice(amount float64, currency string) string {
	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))

	digits := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac := cents % 100; frac != 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		out = "-" + out
	}
	if currency = strings.TrimSpace(currency); currency != "" {
		out = currency + " " + out
	}
	return out
}

// FormatDuration renders minutes as "2h 5m", or "45m" under an hour.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
