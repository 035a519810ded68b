package repository

import (
	"context"
	"database/sql"
)

// BalanceRepo handles the append-only balance snapshot history. There is
// deliberately no update or delete method: a snapshot, once written,
// never changes, and the current balance is always the latest row.
type BalanceRepo struct {
	db *sql.DB
}

func NewBalanceRepo(db *sql.DB) *BalanceRepo { return &BalanceRepo{db: db} }

// Append writes a snapshot with the next sequence number.
func (r *BalanceRepo) Append(ctx context.Context, s BalanceSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO balance_snapshots(id, seq, old_balance, new_balance, reason, actor, created_at)
	VALUES(?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM balance_snapshots), ?, ?, ?, ?, ?);
	`, s.ID, s.OldBalanceCents, s.NewBalanceCents, s.Reason, s.Actor, s.CreatedAt)
	return err
}

// Latest returns the most recent snapshot, or ErrNoRow on an empty history.
func (r *BalanceRepo) Latest(ctx context.Context) (BalanceSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, seq, old_balance, new_balance, reason, actor, created_at
	FROM balance_snapshots ORDER BY seq DESC LIMIT 1`)
	s, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return BalanceSnapshot{}, ErrNoRow
	}
	return s, err
}

// History returns snapshots newest-first.
func (r *BalanceRepo) History(ctx context.Context) ([]BalanceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, seq, old_balance, new_balance, reason, actor, created_at
	FROM balance_snapshots ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BalanceSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSnapshot(row rowScanner) (BalanceSnapshot, error) {
	var s BalanceSnapshot
	err := row.Scan(&s.ID, &s.Seq, &s.OldBalanceCents, &s.NewBalanceCents, &s.Reason, &s.Actor, &s.CreatedAt)
	return s, err
}
