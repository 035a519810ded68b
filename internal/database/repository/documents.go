package repository

import (
	"context"
	"database/sql"
)

// DocumentRepo handles quotes and invoices.
type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{db: db} }

func (r *DocumentRepo) Insert(ctx context.Context, d Document) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO documents(id, type, status, reference, recipient, excl_tax, tax_rate, issued_at, reedit_of_id, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, d.ID, d.Type, d.Status, d.Reference, d.Recipient, d.ExclTaxCents, d.TaxRate, d.IssuedAt, d.ReeditOfID)
	return err
}

func (r *DocumentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE documents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *DocumentRepo) Get(ctx context.Context, id string) (Document, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, type, status, reference, recipient, excl_tax, tax_rate, issued_at, reedit_of_id, created_at, updated_at
	FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return Document{}, ErrNoRow
	}
	return d, err
}

func (r *DocumentRepo) List(ctx context.Context, docType string) ([]Document, error) {
	query := `SELECT id, type, status, reference, recipient, excl_tax, tax_rate, issued_at, reedit_of_id, created_at, updated_at FROM documents`
	var args []interface{}
	if docType != "" {
		query += ` WHERE type = ?`
		args = append(args, docType)
	}
	query += ` ORDER BY issued_at DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDocument(row rowScanner) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Type, &d.Status, &d.Reference, &d.Recipient, &d.ExclTaxCents,
		&d.TaxRate, &d.IssuedAt, &d.ReeditOfID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}
