package finance

import "fmt"

// ScenarioItem is one recurring income or expense line of a scenario.
type ScenarioItem struct {
	ID          string
	Description string
	AmountCents int64
	Frequency   Frequency
}

// Scenario is a hypothetical set of recurring incomes and expenses
// projected over a horizon of whole months.
type Scenario struct {
	ID               string
	Name             string
	Description      string
	ProjectionMonths int // 1-60
	Income           []ScenarioItem
	Expenses         []ScenarioItem
}

// ItemsCount reports how many lines the scenario carries. A scenario is
// runnable only once it has at least one.
func (s Scenario) ItemsCount() int {
	return len(s.Income) + len(s.Expenses)
}

// MonthlyIncomeCents is the monthly-equivalent total of all income items.
func (s Scenario) MonthlyIncomeCents() (int64, error) {
	return monthlyTotal(s.Income)
}

// MonthlyExpenseCents is the monthly-equivalent total of all expense items.
func (s Scenario) MonthlyExpenseCents() (int64, error) {
	return monthlyTotal(s.Expenses)
}

func monthlyTotal(items []ScenarioItem) (int64, error) {
	var total int64
	for _, it := range items {
		c, err := it.Frequency.MonthlyCents(it.AmountCents)
		if err != nil {
			return 0, fmt.Errorf("item %q: %w", it.Description, err)
		}
		total += c
	}
	return total, nil
}

// MonthProjection is one simulated month.
type MonthProjection struct {
	Month         int // 1-based
	StartCents    int64
	IncomeCents   int64
	ExpensesCents int64
	NetCents      int64
	EndCents      int64
}

// Summary condenses a projection.
type Summary struct {
	StartingCents    int64
	FinalCents       int64
	TotalChangeCents int64
	MonthlyNetCents  int64
	Positive         bool // final >= starting
	BreakEvenMonth   int  // first month whose end balance is negative
	BreakEven        bool // false when the balance never goes negative
}

// Projection is the result of one simulation run.
type Projection struct {
	Months  []MonthProjection
	Summary Summary
}

// RunSimulation projects the scenario month by month from startingCents.
// It is pure and deterministic: the same scenario and starting balance
// always produce the same projection. An empty scenario is rejected
// rather than projecting a flat line.
func RunSimulation(s Scenario, startingCents int64) (Projection, error) {
	if s.ItemsCount() == 0 {
		return Projection{}, fmt.Errorf("scenario %q: %w", s.Name, ErrIncompleteScenario)
	}
	months := s.ProjectionMonths
	if months < 1 || months > 60 {
		return Projection{}, fmt.Errorf("%w: projection horizon %d months out of range 1-60", ErrValidation, months)
	}
	income, err := s.MonthlyIncomeCents()
	if err != nil {
		return Projection{}, err
	}
	expenses, err := s.MonthlyExpenseCents()
	if err != nil {
		return Projection{}, err
	}
	net := income - expenses

	p := Projection{Months: make([]MonthProjection, 0, months)}
	balance := startingCents
	breakEven := 0
	for m := 1; m <= months; m++ {
		start := balance
		balance += net
		p.Months = append(p.Months, MonthProjection{
			Month:         m,
			StartCents:    start,
			IncomeCents:   income,
			ExpensesCents: expenses,
			NetCents:      net,
			EndCents:      balance,
		})
		if breakEven == 0 && balance < 0 {
			breakEven = m
		}
	}
	p.Summary = Summary{
		StartingCents:    startingCents,
		FinalCents:       balance,
		TotalChangeCents: balance - startingCents,
		MonthlyNetCents:  net,
		Positive:         balance >= startingCents,
		BreakEvenMonth:   breakEven,
		BreakEven:        breakEven != 0,
	}
	return p, nil
}
