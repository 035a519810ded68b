package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/retrodev-essonne/retrobus-finance/internal/database"
	"github.com/retrodev-essonne/retrobus-finance/internal/database/repository"
	"github.com/retrodev-essonne/retrobus-finance/internal/finance"
)

// AdminChecker reports whether an actor holds the finance-admin capability.
type AdminChecker interface {
	IsAdmin(actor string) bool
}

// LedgerService owns the single authoritative cash balance. The only
// legal mutation path is Configure, which appends an audited snapshot.
// Configure is serialized by a mutex so two concurrent corrections cannot
// both read the same old balance.
type LedgerService struct {
	Snapshots *repository.BalanceRepo
	Admins    AdminChecker

	// LegacyCode is the shared 4-digit confirmation code inherited from
	// the old dashboard. Empty disables the secondary check; the admin
	// capability is always required.
	LegacyCode string

	mu sync.Mutex
}

// Current returns the latest balance in cents, 0 for an empty history.
func (s *LedgerService) Current(ctx context.Context) (int64, error) {
	latest, err := s.Snapshots.Latest(ctx)
	if errors.Is(err, repository.ErrNoRow) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return latest.NewBalanceCents, nil
}

// History returns the audit trail newest-first.
func (s *LedgerService) History(ctx context.Context) ([]repository.BalanceSnapshot, error) {
	return s.Snapshots.History(ctx)
}

// Configure corrects the balance to newBalanceCents. actor must hold the
// finance-admin capability and, when a legacy code is configured, present
// it as the secondary confirmation. A failed call leaves balance and
// history untouched.
func (s *LedgerService) Configure(ctx context.Context, actor, code string, newBalanceCents int64, reason string) (repository.BalanceSnapshot, error) {
	if s.Admins == nil || !s.Admins.IsAdmin(actor) {
		return repository.BalanceSnapshot{}, fmt.Errorf("actor %q: %w", actor, finance.ErrUnauthorized)
	}
	if s.LegacyCode != "" && subtle.ConstantTimeCompare([]byte(code), []byte(s.LegacyCode)) != 1 {
		return repository.BalanceSnapshot{}, fmt.Errorf("confirmation code: %w", finance.ErrUnauthorized)
	}
	if strings.TrimSpace(reason) == "" {
		return repository.BalanceSnapshot{}, fmt.Errorf("%w: a correction reason is required", finance.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.Current(ctx)
	if err != nil {
		return repository.BalanceSnapshot{}, err
	}
	snap := repository.BalanceSnapshot{
		ID:              uuid.NewString(),
		OldBalanceCents: old,
		NewBalanceCents: newBalanceCents,
		Reason:          strings.TrimSpace(reason),
		Actor:           actor,
		CreatedAt:       database.Now(),
	}
	if err := s.Snapshots.Append(ctx, snap); err != nil {
		return repository.BalanceSnapshot{}, fmt.Errorf("append snapshot: %w", err)
	}
	log.Info().
		Str("actor", actor).
		Int64("old_balance", old).
		Int64("new_balance", newBalanceCents).
		Str("reason", snap.Reason).
		Msg("balance corrected")
	return snap, nil
}
