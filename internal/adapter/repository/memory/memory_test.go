package memory

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bookkeeper/internal/domain"
)

func newAccount(t *testing.T, id string) *domain.Account {
	t.Helper()
	acc, err := domain.NewAccount(domain.AccountDetails{ID: id, Currency: "USD"})
	require.NoError(t, err)
	return acc
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	acc := newAccount(t, "acc-1")
	require.NoError(t, repo.Create(ctx, acc))

	got, err := repo.GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Same(t, acc, got)

	assert.ErrorIs(t, repo.Create(ctx, newAccount(t, "acc-1")), domain.ErrDuplicateID)

	_, err = repo.GetByID(ctx, "acc-2")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_List(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b", "d"} {
		require.NoError(t, repo.Create(ctx, newAccount(t, id)))
	}

	ids := func(accounts []*domain.Account) []string {
		out := make([]string, len(accounts))
		for i, a := range accounts {
			out[i] = a.ID()
		}
		return out
	}

	tests := []struct {
		name          string
		limit, offset int
		want          []string
	}{
		{"first page", 2, 0, []string{"c", "a"}},
		{"second page", 2, 2, []string{"b", "d"}},
		{"short last page", 3, 3, []string{"d"}},
		{"past the end", 2, 10, []string{}},
		{"no limit", 0, 1, []string{"a", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(all))

	// Callers may reorder what they get back.
	slices.Reverse(all)
	again, _ := repo.All(ctx)
	assert.Equal(t, "c", again[0].ID())
}

func TestTransactionRepository(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()

	tx, err := domain.NewTransaction(domain.TransactionDetails{ID: "tx-1", Currency: "USD"})
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, tx))
	assert.ErrorIs(t, repo.Create(ctx, tx), domain.ErrDuplicateID)

	got, err := repo.GetByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Same(t, tx, got)

	_, err = repo.GetByID(ctx, "tx-2")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTransactionRepository_Delete(t *testing.T) {
	repo := NewTransactionRepository()
	ctx := context.Background()

	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		tx, err := domain.NewTransaction(domain.TransactionDetails{ID: id, Currency: "USD"})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tx))
	}

	require.NoError(t, repo.Delete(ctx, "tx-2"))
	assert.ErrorIs(t, repo.Delete(ctx, "tx-2"), domain.ErrTransactionNotFound)

	_, err := repo.GetByID(ctx, "tx-2")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tx-1", list[0].ID())
	assert.Equal(t, "tx-3", list[1].ID())

	// the freed ID can be registered again
	again, err := domain.NewTransaction(domain.TransactionDetails{ID: "tx-2", Currency: "USD"})
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, again))
}

func TestRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewAccountRepository()
	assert.ErrorIs(t, repo.Create(ctx, newAccount(t, "x")), context.Canceled)

	_, err := repo.GetByID(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.All(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccountRepository_ConcurrentCreate(t *testing.T) {
	repo := NewAccountRepository()
	gen := NewULIDGenerator()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc, err := domain.NewAccount(domain.AccountDetails{ID: gen.Generate(), Currency: "USD"})
			if err == nil {
				_ = repo.Create(ctx, acc)
			}
		}()
	}
	wg.Wait()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 100)
}

func TestULIDGenerator_Monotonic(t *testing.T) {
	gen := NewULIDGenerator()
	fixed := time.Date(2018, time.February, 12, 0, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	prev := gen.Generate()
	for range 50 {
		next := gen.Generate()
		assert.Len(t, next, 26)
		assert.Greater(t, next, prev)
		prev = next
	}
}
