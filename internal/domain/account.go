package domain

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// AccountDetails describes an account to be opened.
type AccountDetails struct {
	Attributes  *Attributes
	OpeningDate TimePoint
	ID          string
	Name        string
	Number      string
	Currency    string
	Side        Side
}

// Account is the aggregate root of the ledger: a single-currency, append-only
// collection of entries with a current reporting side.
//
// The mutex guards the entries and the current side. Balance queries take it
// too, because resolving a balance may flip the side.
type Account struct {
	attributes  *Attributes
	zero        Cash
	openingDate TimePoint
	id          string
	name        string
	number      string

	mu      sync.Mutex
	side    Side
	entries []*Entry
}

// NewAccount validates the details and opens an empty account. A ULID is
// assigned when no ID is given.
func NewAccount(d AccountDetails) (*Account, error) {
	zero, err := ZeroCash(d.Currency)
	if err != nil {
		return nil, err
	}
	if !d.Side.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, int(d.Side))
	}

	id := strings.TrimSpace(d.ID)
	if id == "" {
		id = ulid.Make().String()
	} else if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateAccountName(d.Name); err != nil {
		return nil, err
	}

	attrs := d.Attributes
	if attrs == nil {
		attrs = NewAttributes(nil)
	}

	return &Account{
		attributes:  attrs,
		zero:        zero,
		openingDate: d.OpeningDate,
		id:          id,
		name:        d.Name,
		number:      d.Number,
		side:        d.Side,
	}, nil
}

// ID returns the account ID.
func (a *Account) ID() string { return a.id }

// Name returns the display name.
func (a *Account) Name() string { return a.name }

// Number returns the chart-of-accounts number.
func (a *Account) Number() string { return a.number }

// Currency returns the currency every entry must share.
func (a *Account) Currency() string { return a.zero.Currency() }

// OpeningDate returns the first day entries may be booked.
func (a *Account) OpeningDate() TimePoint { return a.openingDate }

// Attributes returns the account's attribute container.
func (a *Account) Attributes() *Attributes { return a.attributes }

// Side returns the current reporting side.
func (a *Account) Side() Side {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.side
}

// AddEntry books a standalone entry. Entries in another currency, dated before
// the opening date or owned by a transaction are rejected and the account is
// left unchanged.
func (a *Account) AddEntry(e *Entry) error {
	if e.transactionID != "" {
		return fmt.Errorf("%w: entry %s is part of transaction %s", ErrTransactionEntry, e.id, e.transactionID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.admit(e); err != nil {
		return err
	}
	a.append(e)

	return nil
}

// Balance reports the balance of entries booked from the opening date up to and
// including asOf.
func (a *Account) Balance(asOf TimePoint) AccountBalance {
	return a.BalanceIn(NewDateRange(a.openingDate, asOf))
}

// CurrentBalance is Balance as of today.
func (a *Account) CurrentBalance() AccountBalance {
	return a.Balance(Today())
}

// BalanceIn reports the balance of entries booked within r. The account's
// current side may flip as a result.
func (a *Account) BalanceIn(r DateRange) AccountBalance {
	a.mu.Lock()
	defer a.mu.Unlock()

	debits, credits := a.totals(r)
	balance, side := ResolveBalance(a.side, debits, credits)
	a.side = side

	return balance
}

// Totals returns the debit and credit totals up to asOf without resolving a side.
func (a *Account) Totals(asOf TimePoint) (debits, credits Cash) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals(NewDateRange(a.openingDate, asOf))
}

// Entries returns a snapshot of every booked entry in booking order.
func (a *Account) Entries() []*Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.entries)
}

// EntriesIn returns a snapshot of the entries booked within r.
func (a *Account) EntriesIn(r DateRange) []*Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []*Entry
	for _, e := range a.entries {
		if r.Includes(e.bookingDate) {
			out = append(out, e)
		}
	}
	return out
}

// String returns the number and name, or the ID when both are empty.
func (a *Account) String() string {
	if a.number == "" && a.name == "" {
		return a.id
	}
	return strings.TrimSpace(a.number + " " + a.name)
}

// admit checks the insertion invariants. Callers hold a.mu.
func (a *Account) admit(e *Entry) error {
	if e.account != nil && e.account != a {
		return fmt.Errorf("%w: entry %s is bound to %s, not %s", ErrForeignEntry, e.id, e.account.id, a.id)
	}
	if slices.Contains(a.entries, e) {
		return fmt.Errorf("%w: entry %s is already booked in %s", ErrImmutable, e.id, a.id)
	}
	if !e.amount.SameCurrency(a.zero) {
		return fmt.Errorf("account %s: %w", a.id,
			&CurrencyMismatchError{Expected: a.zero.Currency(), Actual: e.amount.Currency()})
	}
	if e.bookingDate.Before(a.openingDate) {
		return fmt.Errorf("%w: account %s opened %s, entry dated %s",
			ErrUntimelyBookingDate, a.id, a.openingDate, e.bookingDate)
	}
	return nil
}

// append stores an admitted entry and closes its attributes. Callers hold a.mu.
func (a *Account) append(e *Entry) {
	e.account = a
	e.attributes.Seal()
	a.entries = append(a.entries, e)
}

// totals sums debits and credits within r. Callers hold a.mu.
func (a *Account) totals(r DateRange) (debits, credits Cash) {
	debits, credits = a.zero, a.zero
	for _, e := range a.entries {
		if !r.Includes(e.bookingDate) {
			continue
		}
		if e.side == Debit {
			debits = debits.Plus(e.amount)
		} else {
			credits = credits.Plus(e.amount)
		}
	}
	return debits, credits
}

// lockAll acquires the locks of distinct accounts in ascending ID order and
// returns the matching unlock. Distinct accounts sharing an ID have no defined
// order; Transaction.AddEntry refuses to mix them and repositories keep IDs
// unique.
func lockAll(accounts []*Account) (unlock func()) {
	ordered := make([]*Account, 0, len(accounts))
	for _, a := range accounts {
		if !slices.Contains(ordered, a) {
			ordered = append(ordered, a)
		}
	}
	slices.SortFunc(ordered, func(x, y *Account) int {
		return strings.Compare(x.id, y.id)
	})

	for _, a := range ordered {
		a.mu.Lock()
	}

	return func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}
}

// Position is one account's totals and resolved balance as of a date.
type Position struct {
	Account *Account
	Debits  Cash
	Credits Cash
	Balance AccountBalance
	Flipped bool
}

// Positions resolves the balance of every account as of asOf while holding all
// of their locks, so no posting is seen by some accounts and not others.
// Results follow the order of accounts; duplicates are resolved once.
func Positions(asOf TimePoint, accounts []*Account) []Position {
	unlock := lockAll(accounts)
	defer unlock()

	out := make([]Position, 0, len(accounts))
	seen := make(map[*Account]bool, len(accounts))
	for _, a := range accounts {
		if seen[a] {
			continue
		}
		seen[a] = true

		debits, credits := a.totals(NewDateRange(a.openingDate, asOf))
		balance, side := ResolveBalance(a.side, debits, credits)
		flipped := side != a.side
		a.side = side

		out = append(out, Position{
			Account: a,
			Debits:  debits,
			Credits: credits,
			Balance: balance,
			Flipped: flipped,
		})
	}
	return out
}
