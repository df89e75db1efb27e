package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Entry is a single immutable monetary movement booked against one account.
type Entry struct {
	id            string
	transactionID string
	account       *Account
	side          Side
	amount        Cash
	bookingDate   TimePoint
	attributes    *Attributes
}

// NewEntry binds a movement to its target account. The entry is not visible in
// the account until it is posted.
func NewEntry(account *Account, side Side, amount Cash, bookingDate TimePoint, attrs *Attributes) (*Entry, error) {
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !side.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, int(side))
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if attrs == nil {
		attrs = NewAttributes(nil)
	}

	return &Entry{
		id:          ulid.Make().String(),
		account:     account,
		side:        side,
		amount:      amount,
		bookingDate: bookingDate,
		attributes:  attrs,
	}, nil
}

// ID returns the entry ID.
func (e *Entry) ID() string { return e.id }

// TransactionID returns the owning transaction, or empty for a standalone entry.
func (e *Entry) TransactionID() string { return e.transactionID }

// Account returns the account the entry books into.
func (e *Entry) Account() *Account { return e.account }

// Side returns Debit or Credit.
func (e *Entry) Side() Side { return e.side }

// Amount returns the amount, always positive.
func (e *Entry) Amount() Cash { return e.amount }

// BookingDate returns the day the entry is booked.
func (e *Entry) BookingDate() TimePoint { return e.bookingDate }

// Attributes returns the entry's attribute container.
func (e *Entry) Attributes() *Attributes { return e.attributes }

// Narration returns the narration attribute, or empty.
func (e *Entry) Narration() string { return StringAttribute(e.attributes, AttrNarration) }

// IsDebit reports whether the entry is on the debit side.
func (e *Entry) IsDebit() bool { return e.side == Debit }

// IsCredit reports whether the entry is on the credit side.
func (e *Entry) IsCredit() bool { return e.side == Credit }

// Post books a standalone entry into its account. Entries created by a
// Transaction are booked only by Transaction.Post.
func (e *Entry) Post() error {
	if e.transactionID != "" {
		return fmt.Errorf("%w: entry %s is part of transaction %s", ErrTransactionEntry, e.id, e.transactionID)
	}
	return e.account.AddEntry(e)
}

// String formats date, side, amount and account.
func (e *Entry) String() string {
	return fmt.Sprintf("%s %s %s on %s", e.bookingDate, e.side.Abbrev(), e.amount, e.account.ID())
}
