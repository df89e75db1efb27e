package journal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// Defaults fill in what a journal leaves out.
type Defaults struct {
	Currency string
	Side     domain.Side
}

// Outcome is what happened to one journal transaction.
type Outcome struct {
	Err           error
	TransactionID string
	Index         int
}

// Posted reports whether the transaction was posted.
func (o Outcome) Posted() bool { return o.Err == nil }

// Result is the outcome of a replay.
type Result struct {
	Accounts []*domain.Account
	Outcomes []Outcome
}

// Posted counts the posted transactions.
func (r *Result) Posted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Posted() {
			n++
		}
	}
	return n
}

// Rejected counts the transactions that were not posted.
func (r *Result) Rejected() int {
	return len(r.Outcomes) - r.Posted()
}

// Replayer opens a journal's accounts and posts its transactions.
type Replayer struct {
	accounts     *usecase.AccountUseCase
	transactions *usecase.TransactionUseCase
	defaults     Defaults
	log          zerolog.Logger
}

// NewReplayer creates a new Replayer.
func NewReplayer(
	accounts *usecase.AccountUseCase,
	transactions *usecase.TransactionUseCase,
	defaults Defaults,
	log zerolog.Logger,
) *Replayer {
	return &Replayer{
		accounts:     accounts,
		transactions: transactions,
		defaults:     defaults,
		log:          log.With().Str("component", "journal").Logger(),
	}
}

// Replay opens every account, then posts every transaction in document order.
// An account that cannot be opened stops the replay; a transaction that cannot
// be posted is recorded in the result and the replay carries on.
func (r *Replayer) Replay(ctx context.Context, doc *Document) (*Result, error) {
	res := &Result{}

	for i, a := range doc.Accounts {
		input, err := r.accountInput(doc, a)
		if err != nil {
			return res, fmt.Errorf("account %d (%s): %w", i+1, a.ID, err)
		}

		acc, err := r.accounts.OpenAccount(ctx, input)
		if err != nil {
			return res, fmt.Errorf("account %d (%s): %w", i+1, a.ID, err)
		}
		res.Accounts = append(res.Accounts, acc)
	}

	for i, t := range doc.Transactions {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		outcome := Outcome{Index: i + 1, TransactionID: t.ID}

		input, err := r.journalInput(doc, t)
		if err != nil {
			outcome.Err = err
		} else {
			tx, err := r.transactions.PostJournal(ctx, input)
			outcome.Err = err
			if tx != nil {
				outcome.TransactionID = tx.ID()
			}
		}

		res.Outcomes = append(res.Outcomes, outcome)
	}

	r.log.Info().
		Int("accounts", len(res.Accounts)).
		Int("posted", res.Posted()).
		Int("rejected", res.Rejected()).
		Msg("journal replayed")

	return res, nil
}

func (r *Replayer) currency(doc *Document, own string) string {
	switch {
	case own != "":
		return own
	case doc.Currency != "":
		return doc.Currency
	default:
		return r.defaults.Currency
	}
}

func (r *Replayer) accountInput(doc *Document, a Account) (usecase.OpenAccountInput, error) {
	input := usecase.OpenAccountInput{
		Attributes: a.Attributes,
		ID:         a.ID,
		Name:       a.Name,
		Number:     a.Number,
		Currency:   r.currency(doc, a.Currency),
		Side:       r.defaults.Side,
	}

	if a.Side != "" {
		side, err := domain.ParseSide(a.Side)
		if err != nil {
			return input, err
		}
		input.Side = side
	}

	if a.Opened != "" {
		opened, err := domain.ParseTimePoint(a.Opened)
		if err != nil {
			return input, err
		}
		input.OpeningDate = opened
	}

	return input, nil
}

func (r *Replayer) journalInput(doc *Document, t Transaction) (usecase.PostJournalInput, error) {
	date, err := domain.ParseTimePoint(t.Date)
	if err != nil {
		return usecase.PostJournalInput{}, err
	}

	input := usecase.PostJournalInput{
		CreateTransactionInput: usecase.CreateTransactionInput{
			BookingDate: date,
			ID:          t.ID,
			Currency:    r.currency(doc, t.Currency),
			Narration:   t.Narration,
		},
		Entries: make([]usecase.AddEntryInput, 0, len(t.Entries)),
	}

	for _, e := range t.Entries {
		side, err := domain.ParseSide(e.Side)
		if err != nil {
			return input, err
		}

		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return input, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, e.Amount)
		}

		input.Entries = append(input.Entries, usecase.AddEntryInput{
			Attributes: entryAttributes(e, t.Narration),
			AccountID:  e.Account,
			Amount:     amount,
			Side:       side,
		})
	}

	return input, nil
}

// entryAttributes merges the well-known keys into the free-form ones. An entry
// without its own narration inherits the transaction's.
func entryAttributes(e Entry, narration string) map[string]any {
	attrs := make(map[string]any, len(e.Attributes)+2)
	for k, v := range e.Attributes {
		attrs[k] = v
	}

	if e.Narration != "" {
		narration = e.Narration
	}
	if narration != "" {
		attrs[domain.AttrNarration] = narration
	}
	if e.Reference != "" {
		attrs[domain.AttrReference] = e.Reference
	}

	return attrs
}
