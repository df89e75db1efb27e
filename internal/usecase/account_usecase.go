package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	metrics     MetricsRecorder
	log         zerolog.Logger
	paging      Pagination
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	idGen IDGenerator,
	metrics MetricsRecorder,
	log zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		metrics:     metrics,
		log:         log.With().Str("component", "accounts").Logger(),
		paging:      DefaultPagination,
	}
}

// WithPagination overrides the default page sizes.
func (uc *AccountUseCase) WithPagination(p Pagination) *AccountUseCase {
	uc.paging = p
	return uc
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	Attributes  map[string]any
	OpeningDate domain.TimePoint
	ID          string
	Name        string
	Number      string
	Currency    string
	Side        domain.Side
}

// OpenAccount opens and registers a new, empty account.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	account, err := domain.NewAccount(domain.AccountDetails{
		Attributes:  domain.NewAttributes(input.Attributes),
		OpeningDate: input.OpeningDate,
		ID:          id,
		Name:        input.Name,
		Number:      input.Number,
		Currency:    input.Currency,
		Side:        input.Side,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("account_id", id).Msg("account rejected")
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		uc.log.Warn().Err(err).Str("account_id", id).Msg("account not stored")
		return nil, err
	}

	uc.metrics.AccountOpened(account.Currency())
	uc.log.Debug().
		Str("account_id", account.ID()).
		Str("currency", account.Currency()).
		Stringer("side", account.Side()).
		Stringer("opened", account.OpeningDate()).
		Msg("account opened")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.accountRepo.List(ctx, uc.paging.limit(input.Limit), input.Offset)
}

// GetBalance reports an account's balance as of asOf, or as of today when asOf
// is nil. The query may flip the account's current side.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string, asOf *domain.TimePoint) (domain.AccountBalance, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return domain.AccountBalance{}, err
	}

	date := domain.Today()
	if asOf != nil {
		date = *asOf
	}

	p := domain.Positions(date, []*domain.Account{account})[0]
	uc.metrics.BalanceQueried(p.Balance.Side, p.Flipped)

	if p.Flipped {
		uc.log.Info().
			Str("account_id", id).
			Stringer("from", p.Balance.Side.Opposite()).
			Stringer("to", p.Balance.Side).
			Stringer("as_of", date).
			Msg("account side flipped")
	}

	return p.Balance, nil
}

// GetEntries returns the entries of an account booked within r.
func (uc *AccountUseCase) GetEntries(ctx context.Context, id string, r domain.DateRange) ([]*domain.Entry, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.EntriesIn(r), nil
}
