package domain

import (
	"fmt"
	"strings"
)

// Side is the polarity of a monetary movement or of an account balance.
type Side int

const (
	Debit Side = iota
	Credit
)

// ParseSide accepts DEBIT/DR and CREDIT/CR in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBIT", "DR":
		return Debit, nil
	case "CREDIT", "CR":
		return Credit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// String returns DEBIT or CREDIT.
func (s Side) String() string {
	switch s {
	case Debit:
		return "DEBIT"
	case Credit:
		return "CREDIT"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Abbrev returns the journal abbreviation, DR or CR.
func (s Side) Abbrev() string {
	if s == Credit {
		return "CR"
	}
	return "DR"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// Valid reports whether s is Debit or Credit.
func (s Side) Valid() bool {
	return s == Debit || s == Credit
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
