package usecase

import (
	"context"

	"github.com/iho/bookkeeper/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	All(ctx context.Context) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transactions, open or posted.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives ledger events worth counting.
type MetricsRecorder interface {
	AccountOpened(currency string)
	TransactionPosted(currency string, entries int)
	TransactionRejected(kind string)
	BalanceQueried(side domain.Side, flipped bool)
}
