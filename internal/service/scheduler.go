package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/retrodev-essonne/retrobus-finance/internal/database"
	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

var periodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// SchedulerService manages scheduled operations and their payments.
type SchedulerService struct {
	Operations *repository.OperationRepo
}

// OperationOverview pairs a stored operation with its derived
// amortization state.
type OperationOverview struct {
	Operation    finance.ScheduledOperation
	Amortization finance.Amortization
	// MonthlyCents is the monthly-equivalent commitment, 0 when inactive.
	MonthlyCents int64
}

// Create validates and stores a new operation, returning it with its id.
func (s *SchedulerService) Create(ctx context.Context, op finance.ScheduledOperation) (finance.ScheduledOperation, error) {
	if err := finance.ValidateOperation(op); err != nil {
		return finance.ScheduledOperation{}, err
	}
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	if err := s.Operations.Insert(ctx, toOperationRow(op)); err != nil {
		return finance.ScheduledOperation{}, fmt.Errorf("insert operation: %w", err)
	}
	log.Info().Str("operation", op.ID).Str("label", op.Label).Msg("scheduled operation created")
	return op, nil
}

// Update replaces the mutable fields of an existing operation.
func (s *SchedulerService) Update(ctx context.Context, op finance.ScheduledOperation) error {
	if err := finance.ValidateOperation(op); err != nil {
		return err
	}
	err := s.Operations.Update(ctx, toOperationRow(op))
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("operation %s: %w", op.ID, finance.ErrNotFound)
	}
	return err
}

// Deactivate stops the operation from projecting without touching its
// payment history.
func (s *SchedulerService) Deactivate(ctx context.Context, id string) error {
	err := s.Operations.SetActive(ctx, id, false)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("operation %s: %w", id, finance.ErrNotFound)
	}
	return err
}

// Delete removes the operation and cascades its payments.
func (s *SchedulerService) Delete(ctx context.Context, id string) error {
	err := s.Operations.Delete(ctx, id)
	if errors.Is(err, repository.ErrNoRow) {
		return fmt.Errorf("operation %s: %w", id, finance.ErrNotFound)
	}
	return err
}

// DeclarePayment appends one installment for a period. Declaring twice
// for the same operation and period fails with ErrDuplicatePayment.
func (s *SchedulerService) DeclarePayment(ctx context.Context, operationID, period string, amountCents int64, attachment string) (finance.Payment, error) {
	if !periodRe.MatchString(period) {
		return finance.Payment{}, fmt.Errorf("%w: period must be YYYY-MM, got %q", finance.ErrValidation, period)
	}
	if amountCents <= 0 {
		return finance.Payment{}, fmt.Errorf("%w: payment must be positive", finance.ErrInvalidAmount)
	}
	if _, err := s.Operations.Get(ctx, operationID); err != nil {
		if errors.Is(err, repository.ErrNoRow) {
			return finance.Payment{}, fmt.Errorf("operation %s: %w", operationID, finance.ErrNotFound)
		}
		return finance.Payment{}, err
	}
	p := finance.Payment{
		ID:          uuid.NewString(),
		OperationID: operationID,
		Period:      period,
		AmountCents: amountCents,
		PaidAt:      database.Now(),
		Attachment:  attachment,
	}
	err := s.Operations.InsertPayment(ctx, repository.Payment{
		ID:          p.ID,
		OperationID: p.OperationID,
		Period:      p.Period,
		AmountCents: p.AmountCents,
		PaidAt:      p.PaidAt,
		Attachment:  p.Attachment,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return finance.Payment{}, fmt.Errorf("operation %s period %s: %w", operationID, period, finance.ErrDuplicatePayment)
		}
		return finance.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	log.Info().Str("operation", operationID).Str("period", period).Int64("amount", amountCents).Msg("payment declared")
	return p, nil
}

// Overview returns every operation with its derived amortization state.
func (s *SchedulerService) Overview(ctx context.Context, activeOnly bool) ([]OperationOverview, error) {
	rows, err := s.Operations.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]OperationOverview, 0, len(rows))
	now := database.Now()
	for _, row := range rows {
		op, err := fromOperationRow(row)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", row.ID, err)
		}
		payRows, err := s.Operations.Payments(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		payments := make([]finance.Payment, 0, len(payRows))
		for _, pr := range payRows {
			payments = append(payments, finance.Payment{
				ID:          pr.ID,
				OperationID: pr.OperationID,
				Period:      pr.Period,
				AmountCents: pr.AmountCents,
				PaidAt:      pr.PaidAt,
				Attachment:  pr.Attachment,
			})
		}
		monthly, err := finance.MonthlyCommitment(op)
		if err != nil {
			return nil, err
		}
		out = append(out, OperationOverview{
			Operation:    op,
			Amortization: finance.TrackAmortization(op, payments, now),
			MonthlyCents: monthly,
		})
	}
	return out, nil
}

// MonthlyCommitmentTotal sums the monthly-equivalent cost of all active
// operations, with scheduled credits counted negative.
func (s *SchedulerService) MonthlyCommitmentTotal(ctx context.Context) (int64, error) {
	overviews, err := s.Overview(ctx, true)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, ov := range overviews {
		if ov.Operation.Type == finance.ScheduledCredit {
			total -= ov.MonthlyCents
		} else {
			total += ov.MonthlyCents
		}
	}
	return total, nil
}

func toOperationRow(op finance.ScheduledOperation) repository.ScheduledOperation {
	return repository.ScheduledOperation{
		ID:               op.ID,
		Label:            op.Label,
		Type:             string(op.Type),
		AmountCents:      op.AmountCents,
		Frequency:        string(op.Frequency),
		NextDate:         op.NextDate,
		Active:           op.Active,
		TotalCents:       op.TotalCents,
		PlannedCountYear: op.PlannedCountYear,
	}
}

func fromOperationRow(row repository.ScheduledOperation) (finance.ScheduledOperation, error) {
	freq, err := finance.ParseFrequency(row.Frequency)
	if err != nil {
		return finance.ScheduledOperation{}, err
	}
	return finance.ScheduledOperation{
		ID:               row.ID,
		Label:            row.Label,
		Type:             finance.OperationType(row.Type),
		AmountCents:      row.AmountCents,
		Frequency:        freq,
		NextDate:         row.NextDate,
		Active:           row.Active,
		TotalCents:       row.TotalCents,
		PlannedCountYear: row.PlannedCountYear,
	}, nil
}
