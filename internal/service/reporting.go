package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/retrodev-essonne/retrobus-finance/internal/database"
	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

// ReportingService folds stored transactions into period reports and
// reconciles them against the ledger balance.
type ReportingService struct {
	DB           *sql.DB
	Transactions *repository.TransactionRepo
	Ledger       *LedgerService
}

// YearReport aggregates one calendar year. The opening balance is derived
// from the current ledger balance minus the period net, so closing always
// reconciles with the live figure when no out-of-band corrections
// happened inside the window.
func (s *ReportingService) YearReport(ctx context.Context, year int) (finance.Report, error) {
	rows, err := s.Transactions.List(ctx, repository.TransactionFilters{Year: year})
	if err != nil {
		return finance.Report{}, err
	}
	txns := make([]finance.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, fromTransactionRow(row))
	}
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var net int64
	for _, t := range txns {
		net += t.SignedCents()
	}
	current, err := s.Ledger.Current(ctx)
	if err != nil {
		return finance.Report{}, err
	}
	opening := finance.OpeningFromCurrent(current, net)
	report := finance.Aggregate(txns, start, end, opening)
	log.Debug().Int("year", year).Int64("net", report.NetCents).Int64("closing", report.ClosingCents).Msg("year report built")
	return report, nil
}

// RecordTransaction validates and stores a transaction, returning the
// stored record and an advisory allocation warning, if any.
func (s *ReportingService) RecordTransaction(ctx context.Context, t finance.Transaction) (finance.Transaction, *finance.AllocationWarning, error) {
	if t.Type != finance.Credit && t.Type != finance.Debit {
		return finance.Transaction{}, nil, fmt.Errorf("%w: transaction type %q", finance.ErrValidation, string(t.Type))
	}
	if t.AmountCents <= 0 {
		return finance.Transaction{}, nil, fmt.Errorf("%w: transaction amount must be positive", finance.ErrInvalidAmount)
	}
	if t.Date.IsZero() {
		return finance.Transaction{}, nil, fmt.Errorf("%w: transaction date is required", finance.ErrValidation)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	rows, err := allocationRows(t.ID, t.Allocations)
	if err != nil {
		return finance.Transaction{}, nil, err
	}
	// one transaction: a failed allocation write must not leave a bare row
	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.Transactions.InsertTx(ctx, tx, toTransactionRow(t)); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if len(rows) > 0 {
			return s.Transactions.ReplaceAllocationsTx(ctx, tx, t.ID, rows)
		}
		return nil
	})
	if err != nil {
		return finance.Transaction{}, nil, err
	}
	return t, finance.CheckAllocations(t), nil
}

// SetAllocations replaces the advisory category split of a transaction.
// Over-allocation is not an error; callers receive the warning from
// RecordTransaction or can run finance.CheckAllocations themselves.
func (s *ReportingService) SetAllocations(ctx context.Context, transactionID string, allocs []finance.Allocation) error {
	rows, err := allocationRows(transactionID, allocs)
	if err != nil {
		return err
	}
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return s.Transactions.ReplaceAllocationsTx(ctx, tx, transactionID, rows)
	})
}

func allocationRows(transactionID string, allocs []finance.Allocation) ([]repository.Allocation, error) {
	rows := make([]repository.Allocation, 0, len(allocs))
	for _, a := range allocs {
		if a.AmountCents <= 0 {
			return nil, fmt.Errorf("%w: allocation amount must be positive", finance.ErrInvalidAmount)
		}
		rows = append(rows, repository.Allocation{
			ID:            uuid.NewString(),
			TransactionID: transactionID,
			CategoryID:    a.CategoryID,
			AmountCents:   a.AmountCents,
			Notes:         a.Notes,
		})
	}
	return rows, nil
}

// DeleteTransaction removes a transaction and its allocations.
func (s *ReportingService) DeleteTransaction(ctx context.Context, id string) error {
	err := s.Transactions.Delete(ctx, id)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("transaction %s: %w", id, finance.ErrNotFound)
	}
	return err
}

func toTransactionRow(t finance.Transaction) repository.Transaction {
	row := repository.Transaction{
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.AmountCents,
		Date:        t.Date,
		Category:    t.Category,
		Label:       t.Label,
	}
	if t.DocumentID != "" {
		id := t.DocumentID
		row.DocumentID = &id
	}
	return row
}

func fromTransactionRow(row repository.Transaction) finance.Transaction {
	t := finance.Transaction{
		ID:          row.ID,
		Type:        finance.TransactionType(row.Type),
		AmountCents: row.AmountCents,
		Date:        row.Date,
		Category:    row.Category,
		Label:       row.Label,
	}
	if row.DocumentID != nil {
		t.DocumentID = *row.DocumentID
	}
	for _, a := range row.Allocations {
		t.Allocations = append(t.Allocations, finance.Allocation{
			CategoryID:  a.CategoryID,
			AmountCents: a.AmountCents,
			Notes:       a.Notes,
		})
	}
	return t
}
