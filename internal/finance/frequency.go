package finance

import (
	"fmt"
	"strings"
	"time"
)

// Frequency describes how often a recurring amount applies.
type Frequency string

const (
	OneShot    Frequency = "one_shot"
	Weekly     Frequency = "weekly"
	Monthly    Frequency = "monthly"
	Quarterly  Frequency = "quarterly"
	SemiAnnual Frequency = "semi_annual"
	Yearly     Frequency = "yearly"
)

// ParseFrequency maps a stored or wire value onto a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case OneShot:
		return OneShot, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	case SemiAnnual:
		return SemiAnnual, nil
	case Yearly:
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q", ErrValidation, s)
}

// MonthlyMultiplier converts the frequency into a monthly-equivalent factor.
// OneShot contributes nothing to a recurring monthly figure. Every caller
// that needs a per-month number must go through here; multipliers are not
// duplicated elsewhere.
func (f Frequency) MonthlyMultiplier() (float64, error) {
	switch f {
	case OneShot:
		return 0, nil
	case Weekly:
		return 52.0 / 12.0, nil
	case Monthly:
		return 1, nil
	case Quarterly:
		return 1.0 / 3.0, nil
	case SemiAnnual:
		return 0.5, nil
	case Yearly:
		return 1.0 / 12.0, nil
	}
	return 0, fmt.Errorf("%w: unknown frequency %q", ErrValidation, string(f))
}

// Next returns the next occurrence after t. Calendar stepping, not
// day-count: monthly from Jan 31 lands on Mar 3 the way AddDate does.
// OneShot has no next occurrence and returns t unchanged.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Quarterly:
		return t.AddDate(0, 3, 0)
	case SemiAnnual:
		return t.AddDate(0, 6, 0)
	case Yearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// MonthlyCents applies the multiplier to an amount in cents, rounding
// half away from zero.
func (f Frequency) MonthlyCents(amountCents int64) (int64, error) {
	mult, err := f.MonthlyMultiplier()
	if err != nil {
		return 0, err
	}
	return roundCents(float64(amountCents) * mult), nil
}
