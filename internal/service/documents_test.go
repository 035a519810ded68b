package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

func newDocuments(t *testing.T) (*DocumentService, *ReportingService) {
	t.Helper()
	db := newTestDB(t)
	txRepo := repository.NewTransactionRepo(db)
	ledger := &LedgerService{Snapshots: repository.NewBalanceRepo(db), Admins: admins("treasurer")}
	docs := &DocumentService{
		Documents:    repository.NewDocumentRepo(db),
		Transactions: txRepo,
		Admins:       admins("treasurer"),
	}
	return docs, &ReportingService{DB: db, Transactions: txRepo, Ledger: ledger}
}

func TestDocumentCreateDerivesTax(t *testing.T) {
	ctx := context.Background()
	docs, _ := newDocuments(t)

	d, err := docs.Create(ctx, finance.Invoice, "FA-2026-014", "City of Essonne", 120000, 0.20)
	require.NoError(t, err)
	require.Equal(t, string(finance.InvoiceDraft), d.Status)
	require.Equal(t, int64(24000), d.TaxCents())
	require.Equal(t, int64(144000), d.TotalCents())

	_, err = docs.Create(ctx, finance.Quote, "DE-2026-003", "School", -1, 0.20)
	require.ErrorIs(t, err, finance.ErrInvalidAmount)
	_, err = docs.Create(ctx, finance.Quote, "DE-2026-003", "School", 1000, 1.5)
	require.ErrorIs(t, err, finance.ErrValidation)
}

func TestDocumentStatusTransitions(t *testing.T) {
	ctx := context.Background()
	docs, _ := newDocuments(t)
	d, err := docs.Create(ctx, finance.Invoice, "FA-2026-015", "School", 50000, 0.20)
	require.NoError(t, err)

	d, err = docs.SetStatus(ctx, "member", d.ID, string(finance.InvoiceSent), false)
	require.NoError(t, err)
	require.Equal(t, string(finance.InvoiceSent), d.Status)

	// skipping ahead is rejected without force
	_, err = docs.SetStatus(ctx, "member", d.ID, string(finance.InvoicePaid), false)
	require.ErrorIs(t, err, finance.ErrInvalidTransition)

	// force requires the finance-admin capability
	_, err = docs.SetStatus(ctx, "member", d.ID, string(finance.InvoicePaid), true)
	require.ErrorIs(t, err, finance.ErrUnauthorized)
	d, err = docs.SetStatus(ctx, "treasurer", d.ID, string(finance.InvoicePaid), true)
	require.NoError(t, err)
	require.Equal(t, string(finance.InvoicePaid), d.Status)

	// cross-vocabulary statuses never pass
	_, err = docs.SetStatus(ctx, "treasurer", d.ID, "refused", true)
	require.ErrorIs(t, err, finance.ErrValidation)
}

func TestQuoteReeditSpawnsLinkedDocument(t *testing.T) {
	ctx := context.Background()
	docs, _ := newDocuments(t)
	quote, err := docs.Create(ctx, finance.Quote, "DE-2026-008", "Wedding party", 80000, 0.20)
	require.NoError(t, err)

	_, err = docs.SetStatus(ctx, "member", quote.ID, string(finance.QuoteSent), false)
	require.NoError(t, err)
	_, err = docs.SetStatus(ctx, "member", quote.ID, string(finance.QuoteRefused), false)
	require.NoError(t, err)

	spawned, err := docs.Reedit(ctx, "member", quote.ID)
	require.NoError(t, err)
	require.NotEqual(t, quote.ID, spawned.ID)
	require.Equal(t, quote.ID, spawned.ReeditOfID)
	require.Equal(t, string(finance.QuoteDraft), spawned.Status)
	require.Equal(t, quote.ExclTaxCents, spawned.ExclTaxCents)

	original, err := docs.Get(ctx, quote.ID)
	require.NoError(t, err)
	require.Equal(t, string(finance.QuoteReedited), original.Status)

	// invoices cannot be reedited
	inv, err := docs.Create(ctx, finance.Invoice, "FA-2026-016", "X", 1000, 0)
	require.NoError(t, err)
	_, err = docs.Reedit(ctx, "member", inv.ID)
	require.ErrorIs(t, err, finance.ErrValidation)
}

func TestLinkTransactionToDocument(t *testing.T) {
	ctx := context.Background()
	docs, reporting := newDocuments(t)
	inv, err := docs.Create(ctx, finance.Invoice, "FA-2026-017", "City", 150000, 0.20)
	require.NoError(t, err)
	tx, _, err := reporting.RecordTransaction(ctx, finance.Transaction{
		Type: finance.Credit, AmountCents: 180000,
		Date: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), Category: "Events",
	})
	require.NoError(t, err)

	require.NoError(t, docs.LinkTransaction(ctx, tx.ID, inv.ID))
	got, err := reporting.Transactions.Get(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DocumentID)
	require.Equal(t, inv.ID, *got.DocumentID)

	require.ErrorIs(t, docs.LinkTransaction(ctx, tx.ID, "missing"), finance.ErrNotFound)
	require.ErrorIs(t, docs.LinkTransaction(ctx, "missing", inv.ID), finance.ErrNotFound)
}
