package repository

import "time"

// Category represents a category row.
type Category struct {
	ID        string
	Name      string
	SortOrder int
}

// Transaction represents a transaction row. Amount is cents; the type
// column carries the direction.
type Transaction struct {
	ID          string
	Type        string // credit | debit
	AmountCents int64
	Date        time.Time
	Category    string
	Label       string
	DocumentID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Allocations []Allocation
}

// Allocation represents an advisory category split of a transaction.
type Allocation struct {
	ID            string
	TransactionID string
	CategoryID    string
	AmountCents   int64
	Notes         string
}

// ScheduledOperation represents a scheduled operation row. Remaining
// amounts are derived in the engine, never stored here.
type ScheduledOperation struct {
	ID               string
	Label            string
	Type             string // scheduled_payment | scheduled_credit
	AmountCents      int64
	Frequency        string
	NextDate         time.Time
	Active           bool
	TotalCents       int64
	PlannedCountYear int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Payment represents one declared installment.
type Payment struct {
	ID          string
	OperationID string
	Period      string // YYYY-MM
	AmountCents int64
	PaidAt      time.Time
	Attachment  string
}

// BalanceSnapshot represents one append-only audit row. seq orders the
// history; the latest row's new_balance is the current balance.
type BalanceSnapshot struct {
	ID              string
	Seq             int64
	OldBalanceCents int64
	NewBalanceCents int64
	Reason          string
	Actor           string
	CreatedAt       time.Time
}

// DifferenceCents is the correction this snapshot applied.
func (s BalanceSnapshot) DifferenceCents() int64 {
	return s.NewBalanceCents - s.OldBalanceCents
}

// Scenario represents a simulation scenario row.
type Scenario struct {
	ID               string
	Name             string
	Description      string
	ProjectionMonths int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []ScenarioItem
}

// ScenarioItem represents one income or expense line of a scenario.
type ScenarioItem struct {
	ID          string
	ScenarioID  string
	Kind        string // income | expense
	Description string
	AmountCents int64
	Frequency   string
}

// Document represents a quote or invoice row.
type Document struct {
	ID           string
	Type         string // quote | invoice
	Status       string
	Reference    string
	Recipient    string
	ExclTaxCents int64
	TaxRate      float64
	IssuedAt     time.Time
	ReeditOfID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
