package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/domain"
)

type fakeAccountRepository struct {
	accounts []*domain.Account
	err      error
}

func (f *fakeAccountRepository) Create(_ context.Context, a *domain.Account) error {
	f.accounts = append(f.accounts, a)
	return f.err
}

func (f *fakeAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, a := range f.accounts {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepository) List(_ context.Context, _, _ int) ([]*domain.Account, error) {
	return f.accounts, f.err
}

func (f *fakeAccountRepository) All(_ context.Context) ([]*domain.Account, error) {
	return f.accounts, f.err
}

type fakeMetrics struct {
	mu      sync.Mutex
	queries int
	flips   int
}

func (f *fakeMetrics) AccountOpened(string)          {}
func (f *fakeMetrics) TransactionPosted(string, int) {}
func (f *fakeMetrics) TransactionRejected(string)    {}

func (f *fakeMetrics) BalanceQueried(_ domain.Side, flipped bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if flipped {
		f.flips++
	}
}

func openAccount(t *testing.T, id, currency string, side domain.Side) *domain.Account {
	t.Helper()
	acc, err := domain.NewAccount(domain.AccountDetails{ID: id, Currency: currency, Side: side})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return acc
}

func bookEntry(t *testing.T, acc *domain.Account, side domain.Side, amount string, date domain.TimePoint) {
	t.Helper()
	e, err := domain.NewEntry(acc, side, domain.MustCash(amount, acc.Currency()), date, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Post(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLedgerUseCase_TrialBalance(t *testing.T) {
	date := domain.NewTimePoint(2018, time.February, 12)

	bank := openAccount(t, "B", "KES", domain.Debit)
	sales := openAccount(t, "A", "KES", domain.Credit)
	usd := openAccount(t, "C", "USD", domain.Debit)

	bookEntry(t, bank, domain.Debit, "200", date)
	bookEntry(t, sales, domain.Credit, "200", date)
	bookEntry(t, usd, domain.Debit, "5", date.AddDays(1))

	uc := NewLedgerUseCase(&fakeAccountRepository{accounts: []*domain.Account{bank, sales, usd}}, &fakeMetrics{}, zerolog.Nop())

	tb, err := uc.TrialBalance(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tb.Lines) != 3 || tb.Lines[0].AccountID != "A" || tb.Lines[2].AccountID != "C" {
		t.Fatalf("expected lines ordered by account ID, got %+v", tb.Lines)
	}
	if tb.Lines[0].Balance.Side != domain.Credit || !tb.Lines[0].Balance.Amount.Equal(domain.MustCash("200", "KES")) {
		t.Errorf("unexpected sales balance %s", tb.Lines[0].Balance)
	}
	if !tb.Lines[2].Balance.Amount.IsZero() {
		t.Errorf("entries after the date must not be counted, got %s", tb.Lines[2].Balance)
	}

	if len(tb.Totals) != 2 || tb.Totals[0].Currency != "KES" || tb.Totals[1].Currency != "USD" {
		t.Fatalf("unexpected totals %+v", tb.Totals)
	}
	if !tb.Totals[0].Debits.Equal(domain.MustCash("200", "KES")) || !tb.Balanced() {
		t.Errorf("expected balanced KES totals, got %+v", tb.Totals[0])
	}
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	date := domain.NewTimePoint(2018, time.January, 1)

	balanced := func(t *testing.T) []*domain.Account {
		a := openAccount(t, "A", "USD", domain.Debit)
		b := openAccount(t, "B", "USD", domain.Credit)
		bookEntry(t, a, domain.Debit, "10", date)
		bookEntry(t, b, domain.Credit, "10", date)
		return []*domain.Account{a, b}
	}
	lopsided := func(t *testing.T) []*domain.Account {
		a := openAccount(t, "A", "USD", domain.Debit)
		bookEntry(t, a, domain.Debit, "10", date)
		return []*domain.Account{a}
	}

	tests := []struct {
		name        string
		accounts    func(t *testing.T) []*domain.Account
		repoErr     error
		want        bool
		expectedErr error
	}{
		{
			name:     "happy path balanced ledger",
			accounts: balanced,
			want:     true,
		},
		{
			name:     "empty ledger",
			accounts: func(*testing.T) []*domain.Account { return nil },
			want:     true,
		},
		{
			name:        "repo error surfaces",
			accounts:    func(*testing.T) []*domain.Account { return nil },
			repoErr:     errors.New("store down"),
			expectedErr: errors.New("store down"),
		},
		{
			name:        "debits without credits",
			accounts:    lopsided,
			expectedErr: ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAccountRepository{accounts: tt.accounts(t), err: tt.repoErr}
			uc := NewLedgerUseCase(repo, &fakeMetrics{}, zerolog.Nop())

			got, err := uc.CheckConsistency(context.Background(), date)

			if tt.expectedErr != nil {
				if err == nil || !(errors.Is(err, tt.expectedErr) || err.Error() == tt.expectedErr.Error()) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Fatalf("CheckConsistency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPagination_Limit(t *testing.T) {
	p := Pagination{Default: 20, Max: 100}

	tests := []struct {
		requested, want int
	}{
		{0, 20},
		{-5, 20},
		{50, 50},
		{500, 100},
	}

	for _, tt := range tests {
		if got := p.limit(tt.requested); got != tt.want {
			t.Errorf("limit(%d) = %d, want %d", tt.requested, got, tt.want)
		}
	}
}

func TestLedgerUseCase_TrialBalanceReportsSideFlips(t *testing.T) {
	date := domain.NewTimePoint(2018, time.March, 1)

	loan := openAccount(t, "loan", "USD", domain.Debit)
	cash := openAccount(t, "cash", "USD", domain.Debit)
	bookEntry(t, loan, domain.Credit, "50", date)
	bookEntry(t, cash, domain.Debit, "50", date)

	m := &fakeMetrics{}
	uc := NewLedgerUseCase(&fakeAccountRepository{accounts: []*domain.Account{loan, cash}}, m, zerolog.Nop())

	tb, err := uc.TrialBalance(context.Background(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tb.Lines[1].AccountID != "loan" || tb.Lines[1].Balance.Side != domain.Credit {
		t.Fatalf("expected loan on the credit side, got %+v", tb.Lines[1])
	}
	if m.queries != 2 || m.flips != 1 {
		t.Errorf("expected 2 queries and 1 flip, got %d and %d", m.queries, m.flips)
	}
	if loan.Side() != domain.Credit {
		t.Errorf("expected the loan account to report on the credit side, got %s", loan.Side())
	}
}

func TestLedgerUseCase_CheckConsistencyDuringPosting(t *testing.T) {
	date := domain.NewTimePoint(2018, time.January, 1)
	accounts := []*domain.Account{
		openAccount(t, "A", "USD", domain.Debit),
		openAccount(t, "B", "USD", domain.Credit),
		openAccount(t, "C", "USD", domain.Credit),
	}
	uc := NewLedgerUseCase(&fakeAccountRepository{accounts: accounts}, &fakeMetrics{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 200 {
			tx, err := domain.NewTransaction(domain.TransactionDetails{BookingDate: date, Currency: "USD"})
			if err != nil {
				return
			}
			_, _ = tx.AddEntry(domain.Debit, domain.MustCash("3", "USD"), accounts[0], nil)
			_, _ = tx.AddEntry(domain.Credit, domain.MustCash("1", "USD"), accounts[1+i%2], nil)
			_, _ = tx.AddEntry(domain.Credit, domain.MustCash("2", "USD"), accounts[2-i%2], nil)
			_ = tx.Post()
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		if _, err := uc.CheckConsistency(context.Background(), date); err != nil {
			t.Fatalf("consistency check saw a partial posting: %v", err)
		}
	}
}
