package domain

import "fmt"

// AccountBalance is the result of a balance query. It is built fresh for every
// query and never cached.
type AccountBalance struct {
	Amount Cash
	Side   Side
}

// Equal compares side, currency and amount.
func (b AccountBalance) Equal(other AccountBalance) bool {
	return b.Side == other.Side &&
		b.Amount.SameCurrency(other.Amount) &&
		b.Amount.Equal(other.Amount)
}

// String formats the amount and side, e.g. USD 10.00 DR.
func (b AccountBalance) String() string {
	return fmt.Sprintf("%s %s", b.Amount, b.Side.Abbrev())
}

// ResolveBalance turns the debit and credit totals of a window into a balance
// and returns the account side that should hold afterwards.
//
// When only one side has movements that side is reported and the current side
// is left alone. Otherwise the current side holds while its own total is
// larger; once the opposing total exceeds it the balance is reported on the
// opposing side and the account flips. Equal totals give a zero balance on the
// current side.
func ResolveBalance(current Side, debits, credits Cash) (AccountBalance, Side) {
	switch {
	case debits.IsZero() && !credits.IsZero():
		return AccountBalance{Amount: credits, Side: Credit}, current
	case credits.IsZero() && !debits.IsZero():
		return AccountBalance{Amount: debits, Side: Debit}, current
	}

	net := debits.Minus(credits)
	cmp := debits.Compare(credits)

	if cmp == 0 {
		return AccountBalance{Amount: net, Side: current}, current
	}

	next := current
	switch current {
	case Debit:
		if cmp < 0 {
			next = Credit
		}
	case Credit:
		if cmp > 0 {
			next = Debit
		}
	}

	return AccountBalance{Amount: net.Abs(), Side: next}, next
}
