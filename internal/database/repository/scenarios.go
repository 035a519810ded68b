package repository

import (
	"context"
	"database/sql"
)

// ScenarioRepo handles simulation scenarios. Items are a composition:
// they live and die with their scenario.
type ScenarioRepo struct {
	db *sql.DB
}

func NewScenarioRepo(db *sql.DB) *ScenarioRepo { return &ScenarioRepo{db: db} }

func (r *ScenarioRepo) Insert(ctx context.Context, s Scenario) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO simulation_scenarios(id, name, description, projection_months, created_at, updated_at)
	VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, s.ID, s.Name, s.Description, s.ProjectionMonths)
	return err
}

func (r *ScenarioRepo) Update(ctx context.Context, s Scenario) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE simulation_scenarios SET name = ?, description = ?, projection_months = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, s.Name, s.Description, s.ProjectionMonths, s.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes the scenario; items cascade.
func (r *ScenarioRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM simulation_scenarios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ScenarioRepo) Get(ctx context.Context, id string) (Scenario, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, description, projection_months, created_at, updated_at
	FROM simulation_scenarios WHERE id = ?`, id)
	var s Scenario
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.ProjectionMonths, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return Scenario{}, ErrNoRow
	}
	if err != nil {
		return Scenario{}, err
	}
	s.Items, err = r.items(ctx, s.ID)
	return s, err
}

func (r *ScenarioRepo) List(ctx context.Context) ([]Scenario, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, description, projection_months, created_at, updated_at
	FROM simulation_scenarios ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Scenario
	for rows.Next() {
		var s Scenario
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.ProjectionMonths, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *ScenarioRepo) InsertItem(ctx context.Context, item ScenarioItem) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scenario_items(id, scenario_id, kind, description, amount, frequency)
	VALUES(?, ?, ?, ?, ?, ?);
	`, item.ID, item.ScenarioID, item.Kind, item.Description, item.AmountCents, item.Frequency)
	return err
}

func (r *ScenarioRepo) DeleteItem(ctx context.Context, scenarioID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenario_items WHERE id = ? AND scenario_id = ?`, itemID, scenarioID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ScenarioRepo) items(ctx context.Context, scenarioID string) ([]ScenarioItem, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, scenario_id, kind, description, amount, frequency
	FROM scenario_items WHERE scenario_id = ? ORDER BY id`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScenarioItem
	for rows.Next() {
		var it ScenarioItem
		if err := rows.Scan(&it.ID, &it.ScenarioID, &it.Kind, &it.Description, &it.AmountCents, &it.Frequency); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
