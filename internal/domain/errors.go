package domain

import (
	"errors"
	"fmt"
)

var (
	// Posting errors
	ErrMismatchedCurrency  = errors.New("mismatched currency")
	ErrUntimelyBookingDate = errors.New("booking date precedes account opening date")
	ErrUnableToPost        = errors.New("unable to post unbalanced transaction")
	ErrImmutable           = errors.New("cannot modify immutable value")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrForeignEntry        = errors.New("entry belongs to another account")
	ErrTransactionEntry    = errors.New("entry belongs to a transaction")

	// Attribute errors
	ErrUnenteredAttribute = errors.New("attribute was never entered")
	ErrAttributeType      = errors.New("attribute has unexpected type")

	// Value errors
	ErrInvalidCurrency     = errors.New("invalid currency code")
	ErrInvalidSide         = errors.New("invalid side")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrNonContiguousRanges = errors.New("date ranges are not contiguous")

	// Lookup errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateID         = errors.New("id already in use")
)

// CurrencyMismatchError is raised when Cash arithmetic mixes currencies.
type CurrencyMismatchError struct {
	Expected string
	Actual   string
}

// Error implements error.
func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", ErrMismatchedCurrency, e.Expected, e.Actual)
}

// Unwrap returns ErrMismatchedCurrency.
func (e *CurrencyMismatchError) Unwrap() error {
	return ErrMismatchedCurrency
}

// UnableToPostError reports the imbalance of a transaction that could not be posted.
// Imbalance is debits minus credits; Dominant is the side with the larger total.
type UnableToPostError struct {
	TransactionID string
	Imbalance     Cash
	Dominant      Side
}

// Error implements error.
func (e *UnableToPostError) Error() string {
	return fmt.Sprintf("%s: transaction %s is out by %s on the %s side",
		ErrUnableToPost, e.TransactionID, e.Imbalance.Abs(), e.Dominant)
}

// Unwrap returns ErrUnableToPost.
func (e *UnableToPostError) Unwrap() error {
	return ErrUnableToPost
}

// ErrorKind returns a stable, label-friendly name for a domain error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMismatchedCurrency):
		return "mismatched_currency"
	case errors.Is(err, ErrUntimelyBookingDate):
		return "untimely_booking_date"
	case errors.Is(err, ErrUnableToPost):
		return "unable_to_post"
	case errors.Is(err, ErrImmutable):
		return "immutable"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrForeignEntry):
		return "foreign_entry"
	case errors.Is(err, ErrTransactionEntry):
		return "transaction_entry"
	case errors.Is(err, ErrUnenteredAttribute):
		return "unentered_attribute"
	case errors.Is(err, ErrAttributeType):
		return "attribute_type"
	case errors.Is(err, ErrInvalidCurrency):
		return "invalid_currency"
	case errors.Is(err, ErrInvalidSide):
		return "invalid_side"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrTransactionNotFound):
		return "transaction_not_found"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, ErrInvalidIDFormat):
		return "invalid_id"
	case errors.Is(err, ErrInvalidAccountName):
		return "invalid_account_name"
	default:
		return "internal"
	}
}
