package finance

import (
	"fmt"
	"time"
)

// TransactionType is the direction of a ledger transaction.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Allocation is an advisory split of a transaction across categories.
type Allocation struct {
	CategoryID  string
	AmountCents int64
	Notes       string
}

// Transaction is a dated credit or debit. Amounts are positive; the type
// carries the sign.
type Transaction struct {
	ID          string
	Type        TransactionType
	AmountCents int64
	Date        time.Time
	Category    string
	DocumentID  string
	Label       string
	Allocations []Allocation
}

// SignedCents returns the amount with a debit rendered negative.
func (t Transaction) SignedCents() int64 {
	if t.Type == Debit {
		return -t.AmountCents
	}
	return t.AmountCents
}

// CategoryTotals aggregates one category inside a report.
type CategoryTotals struct {
	CreditsCents int64
	DebitsCents  int64
	NetCents     int64
}

// MonthTotals is one slot of the monthly series.
type MonthTotals struct {
	CreditsCents int64
	DebitsCents  int64
	NetCents     int64
}

// Report is the aggregate view over a period.
type Report struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	TotalCreditsCents int64
	TotalDebitsCents  int64
	NetCents          int64

	// Monthly is indexed by calendar month (0 = January) for the common
	// whole-year report.
	Monthly [12]MonthTotals

	ByCategory map[string]CategoryTotals

	OpeningCents int64
	ClosingCents int64
}

// Aggregate folds transactions dated in [periodStart, periodEnd) into a
// Report. openingCents is the balance immediately before periodStart;
// closing is opening plus the period net, which must reconcile with the
// ledger's actual balance at period end when no out-of-band corrections
// happened inside the window.
func Aggregate(txns []Transaction, periodStart, periodEnd time.Time, openingCents int64) Report {
	r := Report{
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		ByCategory:   map[string]CategoryTotals{},
		OpeningCents: openingCents,
	}
	for _, t := range txns {
		if t.Date.Before(periodStart) || !t.Date.Before(periodEnd) {
			continue
		}
		m := int(t.Date.Month()) - 1
		cat := r.ByCategory[t.Category]
		switch t.Type {
		case Credit:
			r.TotalCreditsCents += t.AmountCents
			r.Monthly[m].CreditsCents += t.AmountCents
			cat.CreditsCents += t.AmountCents
		case Debit:
			r.TotalDebitsCents += t.AmountCents
			r.Monthly[m].DebitsCents += t.AmountCents
			cat.DebitsCents += t.AmountCents
		}
		r.Monthly[m].NetCents = r.Monthly[m].CreditsCents - r.Monthly[m].DebitsCents
		cat.NetCents = cat.CreditsCents - cat.DebitsCents
		r.ByCategory[t.Category] = cat
	}
	r.NetCents = r.TotalCreditsCents - r.TotalDebitsCents
	r.ClosingCents = r.OpeningCents + r.NetCents
	return r
}

// OpeningFromCurrent derives the opening balance of a period from the
// known current balance and the period's net, for callers that track only
// the live figure.
func OpeningFromCurrent(currentCents, periodNetCents int64) int64 {
	return currentCents - periodNetCents
}

// AllocationWarning flags a transaction whose allocations exceed its
// amount. Under-allocation is legal (the remainder is simply
// unallocated), so the check is advisory only.
type AllocationWarning struct {
	TransactionID  string
	AllocatedCents int64
	AmountCents    int64
}

func (w AllocationWarning) String() string {
	return fmt.Sprintf("transaction %s: allocated %s exceeds amount %s",
		w.TransactionID, FormatCents(w.AllocatedCents), FormatCents(w.AmountCents))
}

// CheckAllocations returns a warning when the allocation sum overshoots
// the transaction amount, or nil.
func CheckAllocations(t Transaction) *AllocationWarning {
	var sum int64
	for _, a := range t.Allocations {
		sum += a.AmountCents
	}
	if sum > t.AmountCents {
		return &AllocationWarning{TransactionID: t.ID, AllocatedCents: sum, AmountCents: t.AmountCents}
	}
	return nil
}
