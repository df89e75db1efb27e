package memory

import (
	"context"

	"github.com/iho/bookkeeper/internal/domain"
)

// AccountRepository implements usecase.AccountRepository in memory.
type AccountRepository struct {
	accounts *store[*domain.Account]
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: newStore[*domain.Account](domain.ErrAccountNotFound),
	}
}

// Create registers an account. IDs must be unique.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.accounts.create(ctx, account.ID(), account)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.accounts.get(ctx, id)
}

// List returns accounts in the order they were opened.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return r.accounts.list(ctx, limit, offset)
}

// All returns every account.
func (r *AccountRepository) All(ctx context.Context) ([]*domain.Account, error) {
	return r.accounts.all(ctx)
}
