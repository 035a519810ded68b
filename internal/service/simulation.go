package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

// SimulationService manages what-if scenarios and runs projections.
// Projections are never stored: a run is pure and recomputed on demand.
type SimulationService struct {
	Scenarios *repository.ScenarioRepo
}

// CreateScenario stores an empty scenario shell. Items are added
// separately; the scenario only becomes runnable once it has at least one.
func (s *SimulationService) CreateScenario(ctx context.Context, name, description string, projectionMonths int) (repository.Scenario, error) {
	if strings.TrimSpace(name) == "" {
		return repository.Scenario{}, fmt.Errorf("%w: scenario name is required", finance.ErrValidation)
	}
	if projectionMonths < 1 || projectionMonths > 60 {
		return repository.Scenario{}, fmt.Errorf("%w: projection horizon %d months out of range 1-60", finance.ErrValidation, projectionMonths)
	}
	sc := repository.Scenario{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(name),
		Description:      strings.TrimSpace(description),
		ProjectionMonths: projectionMonths,
	}
	if err := s.Scenarios.Insert(ctx, sc); err != nil {
		return repository.Scenario{}, fmt.Errorf("insert scenario: %w", err)
	}
	return sc, nil
}

// UpdateScenario renames or re-horizons a scenario.
func (s *SimulationService) UpdateScenario(ctx context.Context, sc repository.Scenario) error {
	if sc.ProjectionMonths < 1 || sc.ProjectionMonths > 60 {
		return fmt.Errorf("%w: projection horizon %d months out of range 1-60", finance.ErrValidation, sc.ProjectionMonths)
	}
	err := s.Scenarios.Update(ctx, sc)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("scenario %s: %w", sc.ID, finance.ErrNotFound)
	}
	return err
}

// DeleteScenario removes the scenario and its items together.
func (s *SimulationService) DeleteScenario(ctx context.Context, id string) error {
	err := s.Scenarios.Delete(ctx, id)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("scenario %s: %w", id, finance.ErrNotFound)
	}
	return err
}

// AddItem appends an income or expense line.
func (s *SimulationService) AddItem(ctx context.Context, scenarioID, kind, description string, amountCents int64, freq finance.Frequency) (repository.ScenarioItem, error) {
	if kind != "income" && kind != "expense" {
		return repository.ScenarioItem{}, fmt.Errorf("%w: item kind %q", finance.ErrValidation, kind)
	}
	if amountCents <= 0 {
		return repository.ScenarioItem{}, fmt.Errorf("%w: item amount must be positive", finance.ErrInvalidAmount)
	}
	if _, err := freq.MonthlyMultiplier(); err != nil {
		return repository.ScenarioItem{}, err
	}
	if _, err := s.Scenarios.Get(ctx, scenarioID); err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return repository.ScenarioItem{}, fmt.Errorf("scenario %s: %w", scenarioID, finance.ErrNotFound)
		}
		return repository.ScenarioItem{}, err
	}
	item := repository.ScenarioItem{
		ID:          uuid.NewString(),
		ScenarioID:  scenarioID,
		Kind:        kind,
		Description: strings.TrimSpace(description),
		AmountCents: amountCents,
		Frequency:   string(freq),
	}
	if err := s.Scenarios.InsertItem(ctx, item); err != nil {
		return repository.ScenarioItem{}, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// RemoveItem drops one line from a scenario.
func (s *SimulationService) RemoveItem(ctx context.Context, scenarioID, itemID string) error {
	err := s.Scenarios.DeleteItem(ctx, scenarioID, itemID)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("item %s: %w", itemID, finance.ErrNotFound)
	}
	return err
}

// List returns all scenarios with their items.
func (s *SimulationService) List(ctx context.Context) ([]repository.Scenario, error) {
	return s.Scenarios.List(ctx)
}

// Run projects the scenario from startingCents. Incomplete scenarios are
// rejected; the same inputs always produce the same projection.
func (s *SimulationService) Run(ctx context.Context, scenarioID string, startingCents int64) (finance.Projection, error) {
	row, err := s.Scenarios.Get(ctx, scenarioID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return finance.Projection{}, fmt.Errorf("scenario %s: %w", scenarioID, finance.ErrNotFound)
		}
		return finance.Projection{}, err
	}
	scenario, err := fromScenarioRow(row)
	if err != nil {
		return finance.Projection{}, err
	}
	p, err := finance.RunSimulation(scenario, startingCents)
	if err != nil {
		return finance.Projection{}, err
	}
	log.Debug().Str("scenario", scenarioID).Int64("final", p.Summary.FinalCents).Bool("break_even", p.Summary.BreakEven).Msg("simulation run")
	return p, nil
}

func fromScenarioRow(row repository.Scenario) (finance.Scenario, error) {
	sc := finance.Scenario{
		ID:               row.ID,
		Name:             row.Name,
		Description:      row.Description,
		ProjectionMonths: row.ProjectionMonths,
	}
	for _, it := range row.Items {
		freq, err := finance.ParseFrequency(it.Frequency)
		if err != nil {
			return finance.Scenario{}, fmt.Errorf("item %q: %w", it.Description, err)
		}
		line := finance.ScenarioItem{
			ID:          it.ID,
			Description: it.Description,
			AmountCents: it.AmountCents,
			Frequency:   freq,
		}
		if it.Kind == "income" {
			sc.Income = append(sc.Income, line)
		} else {
			sc.Expenses = append(sc.Expenses, line)
		}
	}
	return sc, nil
}
