package finance

import (
	"fmt"
	"time"
)

// OperationType distinguishes scheduled debits from scheduled credits.
type OperationType string

const (
	ScheduledPayment OperationType = "scheduled_payment"
	ScheduledCredit  OperationType = "scheduled_credit"
)

// ScheduledOperation is a recurring or amortized obligation. Remaining
// state is always derived from the payment history, never stored.
type ScheduledOperation struct {
	ID          string
	Label       string
	Type        OperationType
	AmountCents int64 // per-period installment
	Frequency   Frequency
	NextDate    time.Time
	Active      bool

	// Exactly one of the two amortization modes may be set.
	TotalCents       int64 // > 0: amount to fully amortize
	PlannedCountYear int   // > 0: fixed number of installments per year
}

// Payment is one declared installment against an operation.
type Payment struct {
	ID          string
	OperationID string
	Period      string // YYYY-MM
	AmountCents int64
	PaidAt      time.Time
	Attachment  string
}

// ValidateOperation checks the fields a scheduled operation must carry
// before it can be stored or projected.
func ValidateOperation(op ScheduledOperation) error {
	if op.Type != ScheduledPayment && op.Type != ScheduledCredit {
		return fmt.Errorf("%w: operation type %q", ErrValidation, string(op.Type))
	}
	if op.AmountCents <= 0 {
		return fmt.Errorf("%w: installment must be positive", ErrInvalidAmount)
	}
	if _, err := op.Frequency.MonthlyMultiplier(); err != nil {
		return err
	}
	if op.NextDate.IsZero() {
		return fmt.Errorf("%w: next date is required", ErrValidation)
	}
	if op.TotalCents > 0 && op.PlannedCountYear > 0 {
		return fmt.Errorf("%w: total amount and yearly count are mutually exclusive", ErrValidation)
	}
	if op.TotalCents < 0 || op.PlannedCountYear < 0 {
		return fmt.Errorf("%w: amortization target must be positive", ErrInvalidAmount)
	}
	return nil
}

// Amortization is the derived repayment state of one operation.
type Amortization struct {
	PaymentsCount int
	PaidCents     int64

	// Amortized-total mode.
	RemainingTotalCents int64
	MonthsRemaining     int
	MonthsKnown         bool // false when installment is zero
	EstimatedEnd        time.Time
	EstimatedEndKnown   bool

	// Fixed yearly count mode.
	RemainingCountYear int

	// Progress is paid/total or paidThisYear/plannedCount. ProgressKnown
	// is false when neither mode applies; unknown is not 0%.
	Progress      float64
	ProgressKnown bool
}

// TrackAmortization derives the repayment state of op from its payment
// history. now supplies "current year" for the fixed-count mode; the
// computation is otherwise independent of the clock.
func TrackAmortization(op ScheduledOperation, payments []Payment, now time.Time) Amortization {
	a := Amortization{PaymentsCount: len(payments)}
	yearPrefix := fmt.Sprintf("%04d-", now.Year())
	paidThisYear := 0
	for _, p := range payments {
		a.PaidCents += p.AmountCents
		if len(p.Period) >= 5 && p.Period[:5] == yearPrefix {
			paidThisYear++
		}
	}

	switch {
	case op.TotalCents > 0:
		a.RemainingTotalCents = op.TotalCents - a.PaidCents
		if a.RemainingTotalCents < 0 {
			a.RemainingTotalCents = 0
		}
		if op.AmountCents > 0 {
			a.MonthsKnown = true
			a.MonthsRemaining = int((a.RemainingTotalCents + op.AmountCents - 1) / op.AmountCents)
			a.EstimatedEnd = op.NextDate.AddDate(0, a.MonthsRemaining, 0)
			a.EstimatedEndKnown = true
		}
		a.Progress = float64(a.PaidCents) / float64(op.TotalCents)
		if a.Progress > 1 {
			a.Progress = 1
		}
		a.ProgressKnown = true
	case op.PlannedCountYear > 0:
		a.RemainingCountYear = op.PlannedCountYear - paidThisYear
		if a.RemainingCountYear < 0 {
			a.RemainingCountYear = 0
		}
		a.Progress = float64(paidThisYear) / float64(op.PlannedCountYear)
		if a.Progress > 1 {
			a.Progress = 1
		}
		a.ProgressKnown = true
	}
	return a
}

// MonthlyCommitment is the monthly-equivalent cost of one operation, zero
// when it is inactive.
func MonthlyCommitment(op ScheduledOperation) (int64, error) {
	if !op.Active {
		return 0, nil
	}
	return op.Frequency.MonthlyCents(op.AmountCents)
}
