package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// TrialBalanceLine is one account's position in a trial balance.
type TrialBalanceLine struct {
	AccountID string
	Name      string
	Debits    domain.Cash
	Credits   domain.Cash
	Balance   domain.AccountBalance
}

// CurrencyTotals sums every account of one currency.
type CurrencyTotals struct {
	Currency string
	Debits   domain.Cash
	Credits  domain.Cash
}

// Balanced reports whether debits equal credits.
func (c CurrencyTotals) Balanced() bool {
	return c.Debits.Equal(c.Credits)
}

// TrialBalance lists every account's balance and the per-currency totals.
type TrialBalance struct {
	AsOf   domain.TimePoint
	Lines  []TrialBalanceLine
	Totals []CurrencyTotals
}

// Balanced reports whether every currency balances.
func (tb *TrialBalance) Balanced() bool {
	for _, t := range tb.Totals {
		if !t.Balanced() {
			return false
		}
	}
	return true
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	accountRepo AccountRepository
	metrics     MetricsRecorder
	log         zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository, metrics MetricsRecorder, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		metrics:     metrics,
		log:         log.With().Str("component", "ledger").Logger(),
	}
}

// TrialBalance computes every account's balance as of asOf from one snapshot
// taken with all accounts locked, so concurrent postings are seen whole or not
// at all. Lines are ordered by account ID and totals by currency.
func (uc *LedgerUseCase) TrialBalance(ctx context.Context, asOf domain.TimePoint) (*TrialBalance, error) {
	accounts, err := uc.accountRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{AsOf: asOf}
	totals := make(map[string]*CurrencyTotals)

	for _, p := range domain.Positions(asOf, accounts) {
		acc := p.Account
		uc.metrics.BalanceQueried(p.Balance.Side, p.Flipped)
		if p.Flipped {
			uc.log.Info().
				Str("account_id", acc.ID()).
				Stringer("side", p.Balance.Side).
				Stringer("as_of", asOf).
				Msg("account side flipped")
		}

		tb.Lines = append(tb.Lines, TrialBalanceLine{
			AccountID: acc.ID(),
			Name:      acc.Name(),
			Debits:    p.Debits,
			Credits:   p.Credits,
			Balance:   p.Balance,
		})

		t, ok := totals[acc.Currency()]
		if !ok {
			t = &CurrencyTotals{Currency: acc.Currency(), Debits: p.Debits, Credits: p.Credits}
			totals[acc.Currency()] = t
			continue
		}
		t.Debits = t.Debits.Plus(p.Debits)
		t.Credits = t.Credits.Plus(p.Credits)
	}

	slices.SortFunc(tb.Lines, func(a, b TrialBalanceLine) int {
		return strings.Compare(a.AccountID, b.AccountID)
	})

	for _, t := range totals {
		tb.Totals = append(tb.Totals, *t)
	}
	slices.SortFunc(tb.Totals, func(a, b CurrencyTotals) int {
		return strings.Compare(a.Currency, b.Currency)
	})

	return tb, nil
}

// CheckConsistency verifies that debits equal credits in every currency as of asOf.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, asOf domain.TimePoint) (bool, error) {
	tb, err := uc.TrialBalance(ctx, asOf)
	if err != nil {
		return false, err
	}

	for _, t := range tb.Totals {
		if !t.Balanced() {
			uc.log.Error().
				Str("currency", t.Currency).
				Stringer("debits", t.Debits).
				Stringer("credits", t.Credits).
				Stringer("as_of", asOf).
				Msg("ledger out of balance")
			return false, fmt.Errorf("%w: %s debits %s, credits %s",
				ErrInconsistentLedger, t.Currency, t.Debits, t.Credits)
		}
	}

	return true, nil
}
