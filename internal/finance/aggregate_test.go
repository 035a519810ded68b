package finance

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func TestAggregateYearReport(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	txns := []Transaction{
		{ID: "t1", Type: Credit, AmountCents: 150000, Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), Category: "dues"},
		{ID: "t2", Type: Debit, AmountCents: 42000, Date: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), Category: "fuel"},
		{ID: "t3", Type: Debit, AmountCents: 8000, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Category: "fuel"},
		{ID: "t4", Type: Credit, AmountCents: 5000, Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Category: "events"},
		// outside the window, must be ignored
		{ID: "t5", Type: Debit, AmountCents: 99999, Date: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), Category: "fuel"},
		{ID: "t6", Type: Credit, AmountCents: 99999, Date: end, Category: "dues"},
	}
	r := Aggregate(txns, start, end, 100000)

	if r.TotalCreditsCents != 155000 || r.TotalDebitsCents != 50000 {
		t.Fatalf("totals %d / %d", r.TotalCreditsCents, r.TotalDebitsCents)
	}
	if r.NetCents != 105000 {
		t.Fatalf("net %d", r.NetCents)
	}
	if r.ClosingCents != 205000 {
		t.Fatalf("closing %d", r.ClosingCents)
	}
	if r.Monthly[0].NetCents != 108000 {
		t.Fatalf("january net %d", r.Monthly[0].NetCents)
	}
	if r.Monthly[2].CreditsCents != 5000 || r.Monthly[2].DebitsCents != 8000 {
		t.Fatalf("march %+v", r.Monthly[2])
	}
	fuel := r.ByCategory["fuel"]
	if fuel.DebitsCents != 50000 || fuel.NetCents != -50000 {
		t.Fatalf("fuel %+v", fuel)
	}
}

func TestAggregateReconciliationCentExact(t *testing.T) {
	// 1000 random transactions between $0.01 and $9999.99; closing must be
	// opening + net with no drift.
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var txns []Transaction
	var wantNet int64
	for i := 0; i < 1000; i++ {
		amount := int64(rng.Intn(999999-1) + 1)
		typ := Credit
		if rng.Intn(2) == 0 {
			typ = Debit
			wantNet -= amount
		} else {
			wantNet += amount
		}
		txns = append(txns, Transaction{
			Type:        typ,
			AmountCents: amount,
			Date:        start.AddDate(0, 0, rng.Intn(365)),
			Category:    "misc",
		})
	}
	opening := int64(1234567)
	r := Aggregate(txns, start, end, opening)
	if r.NetCents != wantNet {
		t.Fatalf("net %d want %d", r.NetCents, wantNet)
	}
	if r.ClosingCents != opening+wantNet {
		t.Fatalf("closing %d want %d", r.ClosingCents, opening+wantNet)
	}
	var monthly int64
	for _, m := range r.Monthly {
		monthly += m.NetCents
	}
	if monthly != wantNet {
		t.Fatalf("monthly series sums to %d want %d", monthly, wantNet)
	}
}

func TestOpeningFromCurrent(t *testing.T) {
	if got := OpeningFromCurrent(205000, 105000); got != 100000 {
		t.Fatalf("got %d", got)
	}
}

func TestCheckAllocations(t *testing.T) {
	tx := Transaction{
		ID:          "t1",
		Type:        Debit,
		AmountCents: 10000,
		Allocations: []Allocation{
			{CategoryID: "fuel", AmountCents: 6000},
			{CategoryID: "tolls", AmountCents: 3000},
		},
	}
	// under-allocation is legal: unallocated remainder
	if w := CheckAllocations(tx); w != nil {
		t.Fatalf("unexpected warning: %s", w)
	}
	tx.Allocations = append(tx.Allocations, Allocation{CategoryID: "misc", AmountCents: 2000})
	w := CheckAllocations(tx)
	if w == nil {
		t.Fatal("expected over-allocation warning")
	}
	if w.AllocatedCents != 11000 {
		t.Fatalf("allocated %d", w.AllocatedCents)
	}
}

func TestParseFormatCents(t *testing.T) {
	c, err := ParseCents("1,234.56")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != 123456 {
		t.Fatalf("got %d", c)
	}
	if _, err := ParseCents("abc"); err == nil {
		t.Fatal("expected parse error")
	}
	if got := FormatCents(-12305); got != "-123.05" {
		t.Fatalf("got %q", got)
	}
}

func TestParseCentsCommaGroups(t *testing.T) {
	valid := map[string]int64{
		"1,234":        123400,
		"12,345.67":    1234567,
		"-1,234,567.8": -123456780,
	}
	for in, want := range valid {
		got, err := ParseCents(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %d, want %d", in, got, want)
		}
	}
	// a comma that is not a 3-digit group separator must not be
	// silently dropped ("1,2" is not 12.00)
	invalid := []string{"1,2", "12,34", ",123", "1234,567", "1,23.45", "1.2,3", "1,,234", "1,2e3"}
	for _, in := range invalid {
		if _, err := ParseCents(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v", in, err)
		}
	}
}
