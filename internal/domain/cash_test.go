package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAmount(t *testing.T, want string, got Cash) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got.Amount()), "expected %s, got %s", want, got)
}

func requireMismatchPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")

		err, ok := r.(error)
		require.True(t, ok, "expected panic value to be an error, got %T", r)
		assert.ErrorIs(t, err, ErrMismatchedCurrency)

		var mismatch *CurrencyMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "USD", mismatch.Expected)
		assert.Equal(t, "GBP", mismatch.Actual)
	}()
	fn()
}

func TestNewCash(t *testing.T) {
	c, err := NewCash(decimal.NewFromFloat(105.23), " kes ")
	require.NoError(t, err)
	assert.Equal(t, "KES", c.Currency())
	assert.Equal(t, int32(2), c.Scale())
	assertAmount(t, "105.23", c)

	jpy, err := CashOf("100", "JPY")
	require.NoError(t, err)
	assert.Equal(t, int32(0), jpy.Scale())

	_, err = NewCash(decimal.NewFromInt(1), "ZZZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = NewCash(decimal.NewFromInt(1), "US")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = CashOf("1.2.3", "USD")
	assert.Error(t, err)
}

func TestMustCashPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { MustCash("abc", "USD") })
	assert.Panics(t, func() { MustCash("1", "???") })
}

func TestCash_Arithmetic(t *testing.T) {
	a := MustCash("105.23", "KES")
	b := MustCash("200.23", "KES")

	assertAmount(t, "305.46", a.Plus(b))
	assertAmount(t, "-95.00", a.Minus(b))
	assertAmount(t, "95", a.Minus(b).Abs())
	assertAmount(t, "-105.23", a.Neg())

	assert.Equal(t, "KES", a.Plus(b).Currency())
	assertAmount(t, "105.23", a)
}

func TestCash_Queries(t *testing.T) {
	zero := MustCash("0.00", "USD")
	one := MustCash("1", "USD")

	assert.True(t, zero.IsZero())
	assert.False(t, one.IsZero())
	assert.True(t, one.IsPositive())
	assert.True(t, one.Neg().IsNegative())

	assert.True(t, one.IsMoreThan(zero))
	assert.False(t, zero.IsMoreThan(zero))
	assert.True(t, zero.IsLessThan(one))
	assert.False(t, one.IsLessThan(one))

	assert.True(t, MustCash("1.10", "USD").Equal(MustCash("1.1", "USD")))
	assert.False(t, MustCash("1.10", "USD").Equal(MustCash("1.1000001", "USD")))
}

func TestCash_MismatchedCurrencyPanics(t *testing.T) {
	usd := MustCash("1", "USD")
	gbp := MustCash("1", "GBP")

	ops := map[string]func(){
		"plus":       func() { usd.Plus(gbp) },
		"minus":      func() { usd.Minus(gbp) },
		"compare":    func() { usd.Compare(gbp) },
		"equal":      func() { usd.Equal(gbp) },
		"isMoreThan": func() { usd.IsMoreThan(gbp) },
		"isLessThan": func() { usd.IsLessThan(gbp) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			requireMismatchPanic(t, op)
		})
	}

	assert.False(t, usd.SameCurrency(gbp))
}

func TestCash_MultiplyRounding(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		factor string
		mode   RoundingMode
		want   string
	}{
		{"exact", "10.00", "0.125", RoundHalfEven, "1.25"},
		{"half even down", "1", "0.125", RoundHalfEven, "0.12"},
		{"half even up", "1", "0.135", RoundHalfEven, "0.14"},
		{"half up", "1", "0.125", RoundHalfUp, "0.13"},
		{"up", "1", "0.121", RoundUp, "0.13"},
		{"down", "1", "0.129", RoundDown, "0.12"},
		{"ceiling", "1", "0.121", RoundCeiling, "0.13"},
		{"floor", "1", "0.129", RoundFloor, "0.12"},
		{"negative half even", "-1", "0.125", RoundHalfEven, "-0.12"},
		{"negative half up", "-1", "0.125", RoundHalfUp, "-0.13"},
		{"negative ceiling", "-1", "0.129", RoundCeiling, "-0.12"},
		{"negative floor", "-1", "0.121", RoundFloor, "-0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustCash(tt.amount, "USD")
			got := c.MultiplyRounded(decimal.RequireFromString(tt.factor), tt.mode)
			assertAmount(t, tt.want, got)
		})
	}

	assertAmount(t, "0.12", MustCash("1", "USD").Multiply(decimal.RequireFromString("0.125")))
	assertAmount(t, "12", MustCash("25", "JPY").Multiply(decimal.RequireFromString("0.5")))
	assertAmount(t, "13", MustCash("25", "JPY").MultiplyRounded(decimal.RequireFromString("0.5"), RoundHalfUp))
}

func TestCash_DivideRounding(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		divisor  string
		mode     RoundingMode
		want     string
	}{
		{"exact", "10", "USD", "4", RoundHalfEven, "2.50"},
		{"thirds", "100", "USD", "3", RoundHalfEven, "33.33"},
		{"thirds up", "100", "USD", "3", RoundUp, "33.34"},
		{"thirds ceiling", "100", "USD", "3", RoundCeiling, "33.34"},
		{"thirds floor", "100", "USD", "3", RoundFloor, "33.33"},
		{"two thirds half even", "200", "USD", "3", RoundHalfEven, "66.67"},
		{"two thirds down", "200", "USD", "3", RoundDown, "66.66"},
		{"tie to even", "0.25", "USD", "2", RoundHalfEven, "0.12"},
		{"tie to even upward", "0.35", "USD", "2", RoundHalfEven, "0.18"},
		{"tie half up", "0.25", "USD", "2", RoundHalfUp, "0.13"},
		{"negative tie half even", "-0.25", "USD", "2", RoundHalfEven, "-0.12"},
		{"negative tie floor", "-0.25", "USD", "2", RoundFloor, "-0.13"},
		{"negative tie ceiling", "-0.25", "USD", "2", RoundCeiling, "-0.12"},
		{"negative divisor", "0.25", "USD", "-2", RoundUp, "-0.13"},
		{"zero minor units", "100", "JPY", "3", RoundHalfEven, "33"},
		{"zero minor units up", "100", "JPY", "3", RoundUp, "34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustCash(tt.amount, tt.currency)
			got, err := c.DivideRounded(decimal.RequireFromString(tt.divisor), tt.mode)
			require.NoError(t, err)
			assertAmount(t, tt.want, got)
			assert.Equal(t, tt.currency, got.Currency())
		})
	}

	_, err := MustCash("1", "USD").Divide(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestCash_String(t *testing.T) {
	assert.Equal(t, "KES 105.23", MustCash("105.23", "KES").String())
	assert.Equal(t, "USD 5.00", MustCash("5", "USD").String())
	assert.Equal(t, "USD 0.125", MustCash("0.125", "USD").String())
	assert.Equal(t, "JPY 100", MustCash("100", "JPY").String())
}

func TestRoundingMode_String(t *testing.T) {
	assert.Equal(t, "HALF_EVEN", RoundingMode(0).String())
	assert.Equal(t, "FLOOR", RoundFloor.String())
	assert.Equal(t, "RoundingMode(42)", RoundingMode(42).String())
}
