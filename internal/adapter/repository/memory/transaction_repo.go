package memory

import (
	"context"

	"github.com/iho/bookkeeper/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository in memory.
type TransactionRepository struct {
	transactions *store[*domain.Transaction]
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: newStore[*domain.Transaction](domain.ErrTransactionNotFound),
	}
}

// Create registers a transaction. IDs must be unique.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.transactions.create(ctx, tx.ID(), tx)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.transactions.get(ctx, id)
}

// List returns transactions in registration order.
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	return r.transactions.list(ctx, limit, offset)
}

// Delete unregisters a transaction, freeing its ID.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.transactions.delete(ctx, id)
}
