package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// TransactionUseCase handles building and posting transactions.
type TransactionUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	metrics         MetricsRecorder
	log             zerolog.Logger
	paging          Pagination
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	metrics MetricsRecorder,
	log zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		metrics:         metrics,
		log:             log.With().Str("component", "transactions").Logger(),
		paging:          DefaultPagination,
	}
}

// WithPagination overrides the default page sizes.
func (uc *TransactionUseCase) WithPagination(p Pagination) *TransactionUseCase {
	uc.paging = p
	return uc
}

// CreateTransactionInput represents input for opening a transaction.
type CreateTransactionInput struct {
	BookingDate domain.TimePoint
	ID          string
	Currency    string
	Narration   string
}

// AddEntryInput represents one movement of a transaction.
type AddEntryInput struct {
	Attributes map[string]any
	AccountID  string
	Amount     decimal.Decimal
	Side       domain.Side
}

// PostJournalInput represents a complete transaction to be built and posted in one call.
type PostJournalInput struct {
	CreateTransactionInput
	Entries []AddEntryInput
}

// CreateTransaction opens and registers an empty transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	tx, err := uc.newTransaction(input)
	if err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	uc.log.Debug().Str("transaction_id", tx.ID()).Str("currency", tx.Currency()).Msg("transaction opened")

	return tx, nil
}

// AddEntry adds a movement to an open transaction.
func (uc *TransactionUseCase) AddEntry(ctx context.Context, transactionID string, input AddEntryInput) (*domain.Entry, error) {
	tx, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.addEntry(ctx, tx, input)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("transaction_id", transactionID).
			Str("account_id", input.AccountID).
			Msg("entry rejected")
		return nil, err
	}

	return entry, nil
}

// PostTransaction posts a registered transaction. An unbalanced transaction
// stays open and may be corrected and posted again.
func (uc *TransactionUseCase) PostTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := uc.post(tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// PostJournal builds a transaction from input and posts it. The ID is
// registered before posting, so of two journals sharing an ID at most one
// posts. On any failure the registration is withdrawn and nothing is kept.
func (uc *TransactionUseCase) PostJournal(ctx context.Context, input PostJournalInput) (*domain.Transaction, error) {
	tx, err := uc.newTransaction(input.CreateTransactionInput)
	if err != nil {
		uc.reject(input.ID, err)
		return nil, err
	}

	for i, ei := range input.Entries {
		if _, err := uc.addEntry(ctx, tx, ei); err != nil {
			err = fmt.Errorf("transaction %s: entry %d: %w", tx.ID(), i+1, err)
			uc.reject(tx.ID(), err)
			return nil, err
		}
	}

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		err = fmt.Errorf("transaction %s: %w", tx.ID(), err)
		uc.reject(tx.ID(), err)
		return nil, err
	}

	if err := uc.post(tx); err != nil {
		if tx.IsPosted() {
			// Posted meanwhile through PostTransaction; the registration stands.
			return nil, err
		}
		if derr := uc.transactionRepo.Delete(context.WithoutCancel(ctx), tx.ID()); derr != nil {
			uc.log.Error().Err(derr).Str("transaction_id", tx.ID()).Msg("failed to withdraw rejected transaction")
		}
		return nil, err
	}

	return tx, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Limit  int
	Offset int
}

// ListTransactions lists transactions in registration order.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.transactionRepo.List(ctx, uc.paging.limit(input.Limit), input.Offset)
}

func (uc *TransactionUseCase) newTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	return domain.NewTransaction(domain.TransactionDetails{
		BookingDate: input.BookingDate,
		ID:          id,
		Currency:    input.Currency,
		Narration:   input.Narration,
	})
}

func (uc *TransactionUseCase) addEntry(ctx context.Context, tx *domain.Transaction, input AddEntryInput) (*domain.Entry, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	amount, err := domain.NewCash(input.Amount, tx.Currency())
	if err != nil {
		return nil, err
	}

	return tx.AddEntry(input.Side, amount, account, domain.NewAttributes(input.Attributes))
}

func (uc *TransactionUseCase) post(tx *domain.Transaction) error {
	if err := tx.Post(); err != nil {
		uc.reject(tx.ID(), err)
		return err
	}

	entries := tx.Entries()
	uc.metrics.TransactionPosted(tx.Currency(), len(entries))
	uc.log.Debug().
		Str("transaction_id", tx.ID()).
		Str("currency", tx.Currency()).
		Int("entries", len(entries)).
		Stringer("booking_date", tx.BookingDate()).
		Msg("transaction posted")

	return nil
}

func (uc *TransactionUseCase) reject(id string, err error) {
	kind := domain.ErrorKind(err)
	uc.metrics.TransactionRejected(kind)
	uc.log.Warn().Err(err).Str("transaction_id", id).Str("kind", kind).Msg("transaction rejected")
}
