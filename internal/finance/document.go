package finance

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DocumentType distinguishes quotes from invoices. The two carry distinct
// status vocabularies; a quote status can never be assigned to an invoice.
type DocumentType string

const (
	Quote   DocumentType = "quote"
	Invoice DocumentType = "invoice"
)

// QuoteStatus is the lifecycle of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRefused  QuoteStatus = "refused"
	QuoteReedited QuoteStatus = "reedited"
)

// InvoiceStatus is the lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft          InvoiceStatus = "draft"
	InvoiceSent           InvoiceStatus = "sent"
	InvoiceAccepted       InvoiceStatus = "accepted"
	InvoicePendingPayment InvoiceStatus = "pending_payment"
	InvoiceDepositPaid    InvoiceStatus = "deposit_paid"
	InvoicePaid           InvoiceStatus = "paid"
)

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:    {QuoteSent},
	QuoteSent:     {QuoteAccepted, QuoteRefused},
	QuoteAccepted: {QuoteReedited},
	QuoteRefused:  {QuoteReedited},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:    {InvoiceSent},
	InvoiceSent:     {InvoiceAccepted},
	InvoiceAccepted: {InvoicePendingPayment, InvoiceDepositPaid, InvoicePaid},
}

// CanTransitionQuote reports whether the lifecycle allows from → to.
func CanTransitionQuote(from, to QuoteStatus) bool {
	for _, next := range quoteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionInvoice reports whether the lifecycle allows from → to.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseQuoteStatus validates a stored or wire quote status.
func ParseQuoteStatus(s string) (QuoteStatus, error) {
	switch QuoteStatus(strings.ToLower(strings.TrimSpace(s))) {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRefused, QuoteReedited:
		return QuoteStatus(strings.ToLower(strings.TrimSpace(s))), nil
	}
	return "", fmt.Errorf("%w: unknown quote status %q", ErrValidation, s)
}

// ParseInvoiceStatus validates a stored or wire invoice status.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case InvoiceDraft, InvoiceSent, InvoiceAccepted, InvoicePendingPayment, InvoiceDepositPaid, InvoicePaid:
		return InvoiceStatus(strings.ToLower(strings.TrimSpace(s))), nil
	}
	return "", fmt.Errorf("%w: unknown invoice status %q", ErrValidation, s)
}

// Document is a quote or invoice. Tax fields are derived, never stored
// independently of the base amount.
type Document struct {
	ID           string
	Type         DocumentType
	Status       string // one of QuoteStatus / InvoiceStatus per Type
	Reference    string
	Recipient    string
	ExclTaxCents int64
	TaxRate      float64 // e.g. 0.20
	IssuedAt     time.Time
	ReeditOfID   string // set on documents spawned by a reedit
}

// TaxCents is the tax amount at cents precision.
func (d Document) TaxCents() int64 {
	return int64(math.Round(float64(d.ExclTaxCents) * d.TaxRate))
}

// TotalCents is the tax-inclusive amount.
func (d Document) TotalCents() int64 {
	return d.ExclTaxCents + d.TaxCents()
}

// ValidateStatus checks that the stored status belongs to the document's
// own vocabulary.
func (d Document) ValidateStatus() error {
	switch d.Type {
	case Quote:
		_, err := ParseQuoteStatus(d.Status)
		return err
	case Invoice:
		_, err := ParseInvoiceStatus(d.Status)
		return err
	}
	return fmt.Errorf("%w: unknown document type %q", ErrValidation, string(d.Type))
}

// CanTransition reports whether the advisory lifecycle allows moving the
// document to status. Callers holding the finance-admin capability may
// bypass it with a forced set.
func (d Document) CanTransition(to string) (bool, error) {
	switch d.Type {
	case Quote:
		from, err := ParseQuoteStatus(d.Status)
		if err != nil {
			return false, err
		}
		target, err := ParseQuoteStatus(to)
		if err != nil {
			return false, err
		}
		return CanTransitionQuote(from, target), nil
	case Invoice:
		from, err := ParseInvoiceStatus(d.Status)
		if err != nil {
			return false, err
		}
		target, err := ParseInvoiceStatus(to)
		if err != nil {
			return false, err
		}
		return CanTransitionInvoice(from, target), nil
	}
	return false, fmt.Errorf("%w: unknown document type %q", ErrValidation, string(d.Type))
}
