package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// RoundingMode selects how scaled amounts are rounded to the currency's minor unit.
// The zero value is RoundHalfEven.
type RoundingMode int

const (
	RoundHalfEven RoundingMode = iota
	RoundHalfUp
	RoundUp
	RoundDown
	RoundCeiling
	RoundFloor
)

// String returns the mode name, e.g. HALF_EVEN.
func (m RoundingMode) String() string {
	switch m {
	case RoundHalfEven:
		return "HALF_EVEN"
	case RoundHalfUp:
		return "HALF_UP"
	case RoundUp:
		return "UP"
	case RoundDown:
		return "DOWN"
	case RoundCeiling:
		return "CEILING"
	case RoundFloor:
		return "FLOOR"
	default:
		return fmt.Sprintf("RoundingMode(%d)", int(m))
	}
}

// Cash is an immutable amount of money in a single ISO 4217 currency.
//
// Arithmetic and comparison between different currencies is a programming
// error and panics with a *CurrencyMismatchError. Callers holding values of
// unknown origin check SameCurrency first.
type Cash struct {
	amount   decimal.Decimal
	currency string
	scale    int32
}

// NewCash validates the currency code and binds amount to it.
func NewCash(amount decimal.Decimal, code string) (Cash, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Cash{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	scale, _ := currency.Standard.Rounding(unit)

	return Cash{amount: amount, currency: unit.String(), scale: int32(scale)}, nil
}

// CashOf parses a decimal string such as "105.23".
func CashOf(amount, code string) (Cash, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Cash{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewCash(d, code)
}

// MustCash is like CashOf but panics on error. Intended for constants and tests.
func MustCash(amount, code string) Cash {
	c, err := CashOf(amount, code)
	if err != nil {
		panic(err)
	}
	return c
}

// ZeroCash returns a zero amount in the given currency.
func ZeroCash(code string) (Cash, error) {
	return NewCash(decimal.Zero, code)
}

// Amount returns the decimal amount.
func (c Cash) Amount() decimal.Decimal { return c.amount }

// Currency returns the ISO 4217 code.
func (c Cash) Currency() string { return c.currency }

// Scale is the number of minor-unit digits of the currency (2 for USD, 0 for JPY).
func (c Cash) Scale() int32 { return c.scale }

// SameCurrency reports whether both amounts share a currency.
func (c Cash) SameCurrency(other Cash) bool {
	return c.currency == other.currency
}

// Plus adds other. It panics on a currency mismatch.
func (c Cash) Plus(other Cash) Cash {
	c.mustMatch(other)
	return c.with(c.amount.Add(other.amount))
}

// Minus subtracts other. It panics on a currency mismatch.
func (c Cash) Minus(other Cash) Cash {
	c.mustMatch(other)
	return c.with(c.amount.Sub(other.amount))
}

// Multiply scales the amount, rounding half-to-even at the currency's minor unit.
func (c Cash) Multiply(factor decimal.Decimal) Cash {
	return c.MultiplyRounded(factor, RoundHalfEven)
}

// MultiplyRounded scales the amount, rounding with mode at the currency's minor unit.
func (c Cash) MultiplyRounded(factor decimal.Decimal, mode RoundingMode) Cash {
	return c.with(round(c.amount.Mul(factor), c.scale, mode))
}

// Divide splits the amount, rounding half-to-even at the currency's minor unit.
func (c Cash) Divide(divisor decimal.Decimal) (Cash, error) {
	return c.DivideRounded(divisor, RoundHalfEven)
}

// DivideRounded splits the amount, rounding with mode at the currency's minor unit.
func (c Cash) DivideRounded(divisor decimal.Decimal, mode RoundingMode) (Cash, error) {
	if divisor.IsZero() {
		return Cash{}, ErrDivisionByZero
	}
	return c.with(divideRounded(c.amount, divisor, c.scale, mode)), nil
}

// IsZero reports whether the amount is zero.
func (c Cash) IsZero() bool { return c.amount.IsZero() }

// IsNegative reports whether the amount is below zero.
func (c Cash) IsNegative() bool { return c.amount.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (c Cash) IsPositive() bool { return c.amount.IsPositive() }

// Abs returns the absolute amount.
func (c Cash) Abs() Cash { return c.with(c.amount.Abs()) }

// Neg returns the negated amount.
func (c Cash) Neg() Cash { return c.with(c.amount.Neg()) }

// Compare returns -1, 0 or +1. Equality is exact decimal equality.
func (c Cash) Compare(other Cash) int {
	c.mustMatch(other)
	return c.amount.Cmp(other.amount)
}

// IsMoreThan reports whether c is greater than other.
func (c Cash) IsMoreThan(other Cash) bool { return c.Compare(other) > 0 }

// IsLessThan reports whether c is less than other.
func (c Cash) IsLessThan(other Cash) bool { return c.Compare(other) < 0 }

// Equal reports exact decimal equality.
func (c Cash) Equal(other Cash) bool { return c.Compare(other) == 0 }

// String formats the code and amount, e.g. USD 12.50.
func (c Cash) String() string {
	places := c.scale
	if exp := -c.amount.Exponent(); exp > places {
		places = exp
	}
	return c.currency + " " + c.amount.StringFixed(places)
}

func (c Cash) with(amount decimal.Decimal) Cash {
	c.amount = amount
	return c
}

func (c Cash) mustMatch(other Cash) {
	if c.currency != other.currency {
		panic(&CurrencyMismatchError{Expected: c.currency, Actual: other.currency})
	}
}

func round(d decimal.Decimal, places int32, mode RoundingMode) decimal.Decimal {
	switch mode {
	case RoundHalfUp:
		return d.Round(places)
	case RoundUp:
		return d.RoundUp(places)
	case RoundDown:
		return d.RoundDown(places)
	case RoundCeiling:
		return d.RoundCeil(places)
	case RoundFloor:
		return d.RoundFloor(places)
	default:
		return d.RoundBank(places)
	}
}

// divideRounded computes n/d rounded once at places. QuoRem truncates toward
// zero and the remainder decides the last digit, so no intermediate precision
// is involved.
func divideRounded(n, d decimal.Decimal, places int32, mode RoundingMode) decimal.Decimal {
	q, r := n.QuoRem(d, places)
	if r.IsZero() {
		return q
	}

	unit := decimal.New(1, -places)
	sign := int64(n.Sign() * d.Sign())
	away := q.Add(unit.Mul(decimal.NewFromInt(sign)))

	// Position of the discarded fraction relative to half a unit.
	half := r.Abs().Mul(decimal.NewFromInt(2)).Cmp(d.Abs().Mul(unit))

	switch mode {
	case RoundHalfUp:
		if half >= 0 {
			return away
		}
	case RoundUp:
		return away
	case RoundDown:
	case RoundCeiling:
		if sign > 0 {
			return away
		}
	case RoundFloor:
		if sign < 0 {
			return away
		}
	default:
		if half > 0 {
			return away
		}
		if half == 0 && !q.Shift(places).Mod(decimal.NewFromInt(2)).IsZero() {
			return away
		}
	}

	return q
}
