package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/retrodev-essonne/retrobus-finance/internal/database"
	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

// DocumentService manages quotes and invoices and their advisory status
// lifecycle.
type DocumentService struct {
	Documents    *repository.DocumentRepo
	Transactions *repository.TransactionRepo
	Admins       AdminChecker
}

// Create stores a new document in its draft state.
func (s *DocumentService) Create(ctx context.Context, docType finance.DocumentType, reference, recipient string, exclTaxCents int64, taxRate float64) (finance.Document, error) {
	if exclTaxCents < 0 {
		return finance.Document{}, fmt.Errorf("%w: amount excluding tax must not be negative", finance.ErrInvalidAmount)
	}
	if taxRate < 0 || taxRate > 1 {
		return finance.Document{}, fmt.Errorf("%w: tax rate %f out of range 0-1", finance.ErrValidation, taxRate)
	}
	d := finance.Document{
		ID:           uuid.NewString(),
		Type:         docType,
		Reference:    strings.TrimSpace(reference),
		Recipient:    strings.TrimSpace(recipient),
		ExclTaxCents: exclTaxCents,
		TaxRate:      taxRate,
		IssuedAt:     database.Now(),
	}
	switch docType {
	case finance.Quote:
		d.Status = string(finance.QuoteDraft)
	case finance.Invoice:
		d.Status = string(finance.InvoiceDraft)
	default:
		return finance.Document{}, fmt.Errorf("%w: unknown document type %q", finance.ErrValidation, string(docType))
	}
	if err := s.Documents.Insert(ctx, toDocumentRow(d)); err != nil {
		return finance.Document{}, fmt.Errorf("insert document: %w", err)
	}
	return d, nil
}

// SetStatus moves the document to a new status. The lifecycle is
// advisory: disallowed transitions fail with ErrInvalidTransition unless
// the actor holds the finance-admin capability and passes force.
func (s *DocumentService) SetStatus(ctx context.Context, actor, id, status string, force bool) (finance.Document, error) {
	row, err := s.Documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return finance.Document{}, fmt.Errorf("document %s: %w", id, finance.ErrNotFound)
		}
		return finance.Document{}, err
	}
	d := fromDocumentRow(row)
	ok, err := d.CanTransition(status)
	if err != nil {
		return finance.Document{}, err
	}
	if !ok {
		if !force {
			return finance.Document{}, fmt.Errorf("%s -> %s: %w", d.Status, status, finance.ErrInvalidTransition)
		}
		if s.Admins == nil || !s.Admins.IsAdmin(actor) {
			return finance.Document{}, fmt.Errorf("forced status set by %q: %w", actor, finance.ErrUnauthorized)
		}
		log.Warn().Str("document", id).Str("actor", actor).Str("from", d.Status).Str("to", status).Msg("forced status transition")
	}
	if err := s.Documents.UpdateStatus(ctx, id, status); err != nil {
		return finance.Document{}, fmt.Errorf("update status: %w", err)
	}
	d.Status = status
	return d, nil
}

// Reedit spawns a new draft linked to an accepted or refused quote. The
// original document is not mutated beyond its status.
func (s *DocumentService) Reedit(ctx context.Context, actor, id string) (finance.Document, error) {
	row, err := s.Documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return finance.Document{}, fmt.Errorf("document %s: %w", id, finance.ErrNotFound)
		}
		return finance.Document{}, err
	}
	original := fromDocumentRow(row)
	if original.Type != finance.Quote {
		return finance.Document{}, fmt.Errorf("%w: only quotes can be reedited", finance.ErrValidation)
	}
	if _, err := s.SetStatus(ctx, actor, id, string(finance.QuoteReedited), false); err != nil {
		return finance.Document{}, err
	}
	spawned := finance.Document{
		ID:           uuid.NewString(),
		Type:         finance.Quote,
		Status:       string(finance.QuoteDraft),
		Reference:    original.Reference,
		Recipient:    original.Recipient,
		ExclTaxCents: original.ExclTaxCents,
		TaxRate:      original.TaxRate,
		IssuedAt:     database.Now(),
		ReeditOfID:   original.ID,
	}
	if err := s.Documents.Insert(ctx, toDocumentRow(spawned)); err != nil {
		return finance.Document{}, fmt.Errorf("insert reedited document: %w", err)
	}
	log.Info().Str("original", id).Str("spawned", spawned.ID).Msg("quote reedited")
	return spawned, nil
}

// LinkTransaction points a transaction at a document.
func (s *DocumentService) LinkTransaction(ctx context.Context, transactionID, documentID string) error {
	if _, err := s.Documents.Get(ctx, documentID); err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return fmt.Errorf("document %s: %w", documentID, finance.ErrNotFound)
		}
		return err
	}
	err := s.Transactions.LinkDocument(ctx, transactionID, &documentID)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("transaction %s: %w", transactionID, finance.ErrNotFound)
	}
	return err
}

// Get returns one document.
func (s *DocumentService) Get(ctx context.Context, id string) (finance.Document, error) {
	row, err := s.Documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return finance.Document{}, fmt.Errorf("document %s: %w", id, finance.ErrNotFound)
		}
		return finance.Document{}, err
	}
	return fromDocumentRow(row), nil
}

func toDocumentRow(d finance.Document) repository.Document {
	row := repository.Document{
		ID:           d.ID,
		Type:         string(d.Type),
		Status:       d.Status,
		Reference:    d.Reference,
		Recipient:    d.Recipient,
		ExclTaxCents: d.ExclTaxCents,
		TaxRate:      d.TaxRate,
		IssuedAt:     d.IssuedAt,
	}
	if d.ReeditOfID != "" {
		id := d.ReeditOfID
		row.ReeditOfID = &id
	}
	return row
}

func fromDocumentRow(row repository.Document) finance.Document {
	d := finance.Document{
		ID:           row.ID,
		Type:         finance.DocumentType(row.Type),
		Status:       row.Status,
		Reference:    row.Reference,
		Recipient:    row.Recipient,
		ExclTaxCents: row.ExclTaxCents,
		TaxRate:      row.TaxRate,
		IssuedAt:     row.IssuedAt,
	}
	if row.ReeditOfID != nil {
		d.ReeditOfID = *row.ReeditOfID
	}
	return d
}
