package finance

import (
	"errors"
	"reflect"
	"testing"
)

func rentScenario() Scenario {
	return Scenario{
		ID:               "sc-1",
		Name:             "Hangar rental",
		ProjectionMonths: 3,
		Income:           []ScenarioItem{{Description: "Member dues", AmountCents: 30000, Frequency: Monthly}},
		Expenses:         []ScenarioItem{{Description: "Hangar rent", AmountCents: 40000, Frequency: Monthly}},
	}
}

func TestRunSimulationWorkedExample(t *testing.T) {
	// income 300 monthly, expense 400 monthly, start 500, 3 months
	p, err := RunSimulation(rentScenario(), 50000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []MonthProjection{
		{Month: 1, StartCents: 50000, IncomeCents: 30000, ExpensesCents: 40000, NetCents: -10000, EndCents: 40000},
		{Month: 2, StartCents: 40000, IncomeCents: 30000, ExpensesCents: 40000, NetCents: -10000, EndCents: 30000},
		{Month: 3, StartCents: 30000, IncomeCents: 30000, ExpensesCents: 40000, NetCents: -10000, EndCents: 20000},
	}
	if !reflect.DeepEqual(p.Months, want) {
		t.Fatalf("projection mismatch:\n got %+v\nwant %+v", p.Months, want)
	}
	if p.Summary.BreakEven {
		t.Fatalf("balance never negative, break-even reported at month %d", p.Summary.BreakEvenMonth)
	}
	if p.Summary.FinalCents != 20000 || p.Summary.TotalChangeCents != -30000 {
		t.Fatalf("summary %+v", p.Summary)
	}
	if p.Summary.Positive {
		t.Fatal("final below starting, Positive should be false")
	}
}

func TestRunSimulationBreakEven(t *testing.T) {
	// same scenario from 150: month 2 ends at -50
	p, err := RunSimulation(rentScenario(), 15000)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !p.Summary.BreakEven || p.Summary.BreakEvenMonth != 2 {
		t.Fatalf("break-even %+v, want month 2", p.Summary)
	}
	if p.Months[1].EndCents != -5000 {
		t.Fatalf("month 2 end %d, want -5000", p.Months[1].EndCents)
	}
	if p.Summary.Positive {
		t.Fatal("Positive should be false")
	}
}

func TestRunSimulationDeterministic(t *testing.T) {
	s := rentScenario()
	s.Income = append(s.Income, ScenarioItem{Description: "Event fares", AmountCents: 12345, Frequency: Quarterly})
	s.Expenses = append(s.Expenses, ScenarioItem{Description: "Insurance", AmountCents: 99900, Frequency: Yearly})
	s.ProjectionMonths = 24
	first, err := RunSimulation(s, 123456)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := RunSimulation(s, 123456)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first", i)
		}
	}
}

func TestRunSimulationRejectsEmptyScenario(t *testing.T) {
	s := Scenario{ID: "sc-2", Name: "Empty", ProjectionMonths: 12}
	if _, err := RunSimulation(s, 10000); !errors.Is(err, ErrIncompleteScenario) {
		t.Fatalf("expected ErrIncompleteScenario, got %v", err)
	}
}

func TestRunSimulationHorizonBounds(t *testing.T) {
	s := rentScenario()
	for _, months := range []int{0, -3, 61} {
		s.ProjectionMonths = months
		if _, err := RunSimulation(s, 0); !errors.Is(err, ErrValidation) {
			t.Fatalf("horizon %d: expected ErrValidation, got %v", months, err)
		}
	}
}

func TestRunSimulationOneShotItemsDoNotRecur(t *testing.T) {
	s := Scenario{
		ID:               "sc-3",
		Name:             "One-off grant",
		ProjectionMonths: 2,
		Income:           []ScenarioItem{{Description: "Grant", AmountCents: 500000, Frequency: OneShot}},
		Expenses:         []ScenarioItem{{Description: "Fuel", AmountCents: 10000, Frequency: Monthly}},
	}
	p, err := RunSimulation(s, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.Months[0].IncomeCents != 0 {
		t.Fatalf("one-shot income leaked into monthly figure: %d", p.Months[0].IncomeCents)
	}
}
