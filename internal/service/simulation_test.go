package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

func newSimulation(t *testing.T) *SimulationService {
	t.Helper()
	db := newTestDB(t)
	return &SimulationService{Scenarios: repository.NewScenarioRepo(db)}
}

func TestSimulationScenarioLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newSimulation(t)

	sc, err := svc.CreateScenario(ctx, "Winter season", "reduced event income", 6)
	require.NoError(t, err)
	require.NotEmpty(t, sc.ID)

	// incomplete scenario cannot run
	_, err = svc.Run(ctx, sc.ID, 50000)
	require.ErrorIs(t, err, finance.ErrIncompleteScenario)

	_, err = svc.AddItem(ctx, sc.ID, "income", "Member dues", 30000, finance.Monthly)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, sc.ID, "expense", "Hangar rent", 40000, finance.Monthly)
	require.NoError(t, err)

	p, err := svc.Run(ctx, sc.ID, 50000)
	require.NoError(t, err)
	require.Len(t, p.Months, 6)
	require.Equal(t, int64(-10000), p.Summary.MonthlyNetCents)

	// removing the expense flips the trend
	require.NoError(t, svc.RemoveItem(ctx, sc.ID, item.ID))
	p, err = svc.Run(ctx, sc.ID, 50000)
	require.NoError(t, err)
	require.Equal(t, int64(30000), p.Summary.MonthlyNetCents)
	require.True(t, p.Summary.Positive)
}

func TestSimulationRunDeterministicThroughStorage(t *testing.T) {
	ctx := context.Background()
	svc := newSimulation(t)
	sc, err := svc.CreateScenario(ctx, "Fuel shock", "", 12)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, sc.ID, "income", "Dues", 25000, finance.Monthly)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, sc.ID, "expense", "Fuel", 90000, finance.Quarterly)
	require.NoError(t, err)

	first, err := svc.Run(ctx, sc.ID, 10000)
	require.NoError(t, err)
	second, err := svc.Run(ctx, sc.ID, 10000)
	require.NoError(t, err)
	require.Equal(t, first, second)
	// 250 in, 300/month out
	require.True(t, first.Summary.BreakEven)
	require.Equal(t, 3, first.Summary.BreakEvenMonth)
}

func TestSimulationValidation(t *testing.T) {
	ctx := context.Background()
	svc := newSimulation(t)

	_, err := svc.CreateScenario(ctx, "  ", "", 6)
	require.ErrorIs(t, err, finance.ErrValidation)
	_, err = svc.CreateScenario(ctx, "Too long", "", 61)
	require.ErrorIs(t, err, finance.ErrValidation)

	sc, err := svc.CreateScenario(ctx, "Valid", "", 6)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, sc.ID, "donation", "Kind?", 1000, finance.Monthly)
	require.ErrorIs(t, err, finance.ErrValidation)
	_, err = svc.AddItem(ctx, sc.ID, "income", "Zero", 0, finance.Monthly)
	require.ErrorIs(t, err, finance.ErrInvalidAmount)
	_, err = svc.AddItem(ctx, "missing", "income", "Dues", 1000, finance.Monthly)
	require.ErrorIs(t, err, finance.ErrNotFound)
	_, err = svc.Run(ctx, "missing", 0)
	require.ErrorIs(t, err, finance.ErrNotFound)
}

func TestSimulationDeleteCascadesItems(t *testing.T) {
	ctx := context.Background()
	svc := newSimulation(t)
	sc, err := svc.CreateScenario(ctx, "Ephemeral", "", 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, sc.ID, "income", "Dues", 1000, finance.Monthly)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteScenario(ctx, sc.ID))

	scenarios, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, scenarios)
}
