package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// TransactionFilters defines list filters.
type TransactionFilters struct {
	Type     string
	Category string
	Year     int       // 0 = no year filter
	Month    time.Time // first day of month; zero time = no month filter
	Search   string
}

// TransactionRepo handles transactions and their allocations.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

// InsertTx inserts within a caller-owned transaction so the row and its
// allocations can be committed or rolled back together.
func (r *TransactionRepo) InsertTx(ctx context.Context, tx *sql.Tx, t Transaction) error {
	return insertTransaction(ctx, tx, t)
}

func insertTransaction(ctx context.Context, ex execer, t Transaction) error {
	_, err := ex.ExecContext(ctx, `
	INSERT INTO transactions(id, type, amount, date, category, label, document_id, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, t.ID, t.Type, t.AmountCents, t.Date, t.Category, t.Label, t.DocumentID)
	return err
}

func (r *TransactionRepo) Update(ctx context.Context, t Transaction) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE transactions SET type = ?, amount = ?, date = ?, category = ?, label = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, t.Type, t.AmountCents, t.Date, t.Category, t.Label, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TransactionRepo) LinkDocument(ctx context.Context, id string, documentID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET document_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, documentID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, type, amount, date, category, label, document_id, created_at, updated_at
	FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return Transaction{}, ErrNoRow
	}
	if err != nil {
		return Transaction{}, err
	}
	t.Allocations, err = r.fetchAllocations(ctx, t.ID)
	return t, err
}

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []interface{}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Year != 0 {
		start := time.Date(f.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		where = append(where, "date >= ? AND date < ?")
		args = append(args, start, start.AddDate(1, 0, 0))
	}
	if !f.Month.IsZero() {
		start := time.Date(f.Month.Year(), f.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		where = append(where, "date >= ? AND date < ?")
		args = append(args, start, start.AddDate(0, 1, 0))
	}
	if f.Search != "" {
		where = append(where, "label LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := "SELECT id, type, amount, date, category, label, document_id, created_at, updated_at FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		allocs, err := r.fetchAllocations(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Allocations = allocs
	}
	return out, nil
}

// ReplaceAllocationsTx swaps the full allocation set of a transaction
// within a caller-owned transaction.
func (r *TransactionRepo) ReplaceAllocationsTx(ctx context.Context, tx *sql.Tx, transactionID string, allocs []Allocation) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_allocations WHERE transaction_id = ?`, transactionID); err != nil {
		return err
	}
	for _, a := range allocs {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO transaction_allocations(id, transaction_id, category_id, amount, notes)
		VALUES(?, ?, ?, ?, ?)`, a.ID, transactionID, a.CategoryID, a.AmountCents, a.Notes); err != nil {
			return err
		}
	}
	return nil
}

func (r *TransactionRepo) fetchAllocations(ctx context.Context, transactionID string) ([]Allocation, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, transaction_id, category_id, amount, notes
	FROM transaction_allocations WHERE transaction_id = ? ORDER BY id`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Allocation
	for rows.Next() {
		var a Allocation
		if err := rows.Scan(&a.ID, &a.TransactionID, &a.CategoryID, &a.AmountCents, &a.Notes); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Type, &t.AmountCents, &t.Date, &t.Category, &t.Label, &t.DocumentID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
