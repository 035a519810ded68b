package finance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// All amounts are a single currency held as int64 cents. Decimal wire
// values are converted at the boundary and never carried as floats inside
// the engine.

// ParseCents converts a decimal string ("123.45") to cents. Commas are
// accepted as thousands separators only when they sit between 3-digit
// groups; anything else is rejected rather than silently reinterpreted.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		cleaned, ok := stripThousands(s)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		s = cleaned
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return roundCents(f * 100), nil
}

// FormatCents renders cents as a 2-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func roundCents(f float64) int64 {
	return int64(math.Round(f))
}

func stripThousands(s string) (string, bool) {
	intPart, rest := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, rest = s[:i], s[i:]
	}
	if strings.Contains(rest, ",") {
		return "", false
	}
	sign := ""
	if len(intPart) > 0 && (intPart[0] == '+' || intPart[0] == '-') {
		sign, intPart = intPart[:1], intPart[1:]
	}
	groups := strings.Split(intPart, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	for _, g := range groups {
		for _, c := range g {
			if c < '0' || c > '9' {
				return "", false
			}
		}
	}
	return sign + strings.Join(groups, "") + rest, true
}
