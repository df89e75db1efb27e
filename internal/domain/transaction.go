package domain

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// TransactionDetails describes a transaction to be opened.
type TransactionDetails struct {
	BookingDate TimePoint
	ID          string
	Currency    string
	Narration   string
}

// Transaction collects entries in one currency and posts them to their accounts
// all at once, provided debits equal credits. It is open until posted; posting
// is irreversible.
type Transaction struct {
	zero        Cash
	bookingDate TimePoint
	id          string
	narration   string

	mu      sync.Mutex
	posted  bool
	entries []*Entry
}

// NewTransaction creates an open transaction with no entries.
func NewTransaction(d TransactionDetails) (*Transaction, error) {
	zero, err := ZeroCash(d.Currency)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(d.ID)
	if id == "" {
		id = ulid.Make().String()
	} else if err := ValidateID(id); err != nil {
		return nil, err
	}

	return &Transaction{
		zero:        zero,
		bookingDate: d.BookingDate,
		id:          id,
		narration:   d.Narration,
	}, nil
}

// ID returns the transaction ID.
func (t *Transaction) ID() string { return t.id }

// Currency returns the currency every entry must share.
func (t *Transaction) Currency() string { return t.zero.Currency() }

// BookingDate returns the date entries are booked on.
func (t *Transaction) BookingDate() TimePoint { return t.bookingDate }

// Narration returns the free-text description.
func (t *Transaction) Narration() string { return t.narration }

// IsPosted reports whether the transaction has been posted.
func (t *Transaction) IsPosted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.posted
}

// AddEntry binds a movement on side of account to this transaction. Nothing is
// visible in the account until Post succeeds.
func (t *Transaction) AddEntry(side Side, amount Cash, account *Account, attrs *Attributes) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.posted {
		return nil, fmt.Errorf("%w: transaction %s is already posted", ErrImmutable, t.id)
	}
	if !amount.SameCurrency(t.zero) {
		return nil, fmt.Errorf("transaction %s: %w", t.id,
			&CurrencyMismatchError{Expected: t.zero.Currency(), Actual: amount.Currency()})
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if account.Currency() != t.zero.Currency() {
		return nil, fmt.Errorf("transaction %s: account %s: %w", t.id, account.ID(),
			&CurrencyMismatchError{Expected: t.zero.Currency(), Actual: account.Currency()})
	}
	for _, e := range t.entries {
		if e.account != account && e.account.id == account.id {
			return nil, fmt.Errorf("%w: transaction %s names two distinct accounts %s",
				ErrDuplicateID, t.id, account.id)
		}
	}

	entry, err := NewEntry(account, side, amount, t.bookingDate, attrs)
	if err != nil {
		return nil, err
	}
	entry.transactionID = t.id
	t.entries = append(t.entries, entry)

	return entry, nil
}

// Post applies every entry to its account, or none of them.
//
// An unbalanced transaction fails with *UnableToPostError and stays open. A
// balanced one locks its accounts in ID order and checks every entry against
// its account before the first is applied, so a rejected entry leaves every
// account untouched.
func (t *Transaction) Post() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.posted {
		return fmt.Errorf("%w: transaction %s is already posted", ErrImmutable, t.id)
	}

	debits, credits := t.totals()
	if !debits.Equal(credits) {
		dominant := Debit
		if credits.IsMoreThan(debits) {
			dominant = Credit
		}
		return &UnableToPostError{
			TransactionID: t.id,
			Imbalance:     debits.Minus(credits),
			Dominant:      dominant,
		}
	}

	accounts := make([]*Account, len(t.entries))
	for i, e := range t.entries {
		accounts[i] = e.account
	}

	unlock := lockAll(accounts)
	defer unlock()

	for _, e := range t.entries {
		if err := e.account.admit(e); err != nil {
			return fmt.Errorf("transaction %s: entry %s: %w", t.id, e.id, err)
		}
	}

	for _, e := range t.entries {
		e.account.append(e)
	}
	t.posted = true

	return nil
}

// Entries returns a snapshot of the transaction's entries.
func (t *Transaction) Entries() []*Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries)
}

// DebitTotal sums the debit entries.
func (t *Transaction) DebitTotal() Cash {
	t.mu.Lock()
	defer t.mu.Unlock()
	debits, _ := t.totals()
	return debits
}

// CreditTotal sums the credit entries.
func (t *Transaction) CreditTotal() Cash {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, credits := t.totals()
	return credits
}

// Imbalance is debits minus credits; zero when the transaction can be posted.
func (t *Transaction) Imbalance() Cash {
	t.mu.Lock()
	defer t.mu.Unlock()
	debits, credits := t.totals()
	return debits.Minus(credits)
}

func (t *Transaction) totals() (debits, credits Cash) {
	debits, credits = t.zero, t.zero
	for _, e := range t.entries {
		if e.side == Debit {
			debits = debits.Plus(e.amount)
		} else {
			credits = credits.Plus(e.amount)
		}
	}
	return debits, credits
}
