package finance

import (
	"errors"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

func TestMonthlyMultiplierTable(t *testing.T) {
	cases := []struct {
		freq Frequency
		want float64
	}{
		{OneShot, 0},
		{Weekly, 52.0 / 12.0},
		{Monthly, 1},
		{Quarterly, 1.0 / 3.0},
		{SemiAnnual, 0.5},
		{Yearly, 1.0 / 12.0},
	}
	for _, c := range cases {
		got, err := c.freq.MonthlyMultiplier()
		if err != nil {
			t.Fatalf("%s: %v", c.freq, err)
		}
		if !almostEqual(got, c.want) {
			t.Fatalf("%s: got %f want %f", c.freq, got, c.want)
		}
		// deterministic across repeated calls
		again, _ := c.freq.MonthlyMultiplier()
		if got != again {
			t.Fatalf("%s: multiplier not stable", c.freq)
		}
	}
}

func TestMonthlyMultiplierUnknownIsError(t *testing.T) {
	if _, err := Frequency("fortnightly").MonthlyMultiplier(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("  Quarterly ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f != Quarterly {
		t.Fatalf("got %s", f)
	}
	if _, err := ParseFrequency("daily"); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

func TestNextStepsCalendar(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		freq Frequency
		want time.Time
	}{
		{Weekly, time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC)},
		{Monthly, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{Quarterly, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
		{SemiAnnual, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)},
		{Yearly, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
		{OneShot, start},
	}
	for _, c := range cases {
		if got := c.freq.Next(start); !got.Equal(c.want) {
			t.Fatalf("%s: got %s want %s", c.freq, got, c.want)
		}
	}
}

func TestMonthlyCentsRounding(t *testing.T) {
	// 10.00 weekly = 43.33/month once rounded to cents
	got, err := Weekly.MonthlyCents(1000)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if got != 4333 {
		t.Fatalf("got %d want 4333", got)
	}
	if got, _ := OneShot.MonthlyCents(99999); got != 0 {
		t.Fatalf("one-shot should contribute 0, got %d", got)
	}
}
