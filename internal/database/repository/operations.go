package repository

import (
	"context"
	"database/sql"
)

// OperationRepo handles scheduled operations and their payments.
type OperationRepo struct {
	db *sql.DB
}

func NewOperationRepo(db *sql.DB) *OperationRepo { return &OperationRepo{db: db} }

func (r *OperationRepo) Insert(ctx context.Context, op ScheduledOperation) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scheduled_operations(id, label, type, amount, frequency, next_date, active, total_amount, planned_count_year, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, op.ID, op.Label, op.Type, op.AmountCents, op.Frequency, op.NextDate, op.Active, op.TotalCents, op.PlannedCountYear)
	return err
}

func (r *OperationRepo) Update(ctx context.Context, op ScheduledOperation) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE scheduled_operations
	SET label = ?, amount = ?, frequency = ?, next_date = ?, total_amount = ?, planned_count_year = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, op.Label, op.AmountCents, op.Frequency, op.NextDate, op.TotalCents, op.PlannedCountYear, op.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *OperationRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE scheduled_operations SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes the operation; payments cascade.
func (r *OperationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_operations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *OperationRepo) Get(ctx context.Context, id string) (ScheduledOperation, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, label, type, amount, frequency, next_date, active, total_amount, planned_count_year, created_at, updated_at
	FROM scheduled_operations WHERE id = ?`, id)
	op, err := scanOperation(row)
	if err == sql.ErrNoRows {
		return ScheduledOperation{}, ErrNoRow
	}
	return op, err
}

func (r *OperationRepo) List(ctx context.Context, activeOnly bool) ([]ScheduledOperation, error) {
	query := `SELECT id, label, type, amount, frequency, next_date, active, total_amount, planned_count_year, created_at, updated_at
	FROM scheduled_operations`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY next_date, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScheduledOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// InsertPayment appends one installment. The UNIQUE(operation_id, period)
// constraint makes a second declaration for the same month fail.
func (r *OperationRepo) InsertPayment(ctx context.Context, p Payment) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO operation_payments(id, operation_id, period, amount, paid_at, attachment)
	VALUES(?, ?, ?, ?, ?, ?);
	`, p.ID, p.OperationID, p.Period, p.AmountCents, p.PaidAt, p.Attachment)
	return err
}

func (r *OperationRepo) Payments(ctx context.Context, operationID string) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, operation_id, period, amount, paid_at, attachment
	FROM operation_payments WHERE operation_id = ? ORDER BY period`, operationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OperationID, &p.Period, &p.AmountCents, &p.PaidAt, &p.Attachment); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanOperation(row rowScanner) (ScheduledOperation, error) {
	var op ScheduledOperation
	err := row.Scan(&op.ID, &op.Label, &op.Type, &op.AmountCents, &op.Frequency, &op.NextDate,
		&op.Active, &op.TotalCents, &op.PlannedCountYear, &op.CreatedAt, &op.UpdatedAt)
	return op, err
}
