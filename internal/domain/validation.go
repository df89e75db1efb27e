package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidIDFormat    = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxIDLength          = 128
)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/-]*$`)

// ValidateAccountName validates an account name. Names are optional.
func ValidateAccountName(name string) error {
	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	if strings.ContainsFunc(name, unicode.IsControl) {
		return fmt.Errorf("%w: name contains control characters", ErrInvalidAccountName)
	}

	return nil
}

// ValidateID validates a caller-supplied account or transaction ID.
func ValidateID(id string) error {
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: %d characters, at most %d allowed", ErrInvalidIDFormat, len(id), MaxIDLength)
	}

	if !idRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}

	return nil
}
