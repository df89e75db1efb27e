// Package journal reads ledger journals from YAML and replays them through the
// use cases.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidJournal is returned when a journal cannot be decoded or fails validation.
var ErrInvalidJournal = errors.New("invalid journal")

// Document is a journal file: accounts to open, then transactions to post in order.
type Document struct {
	Currency     string        `yaml:"currency"     validate:"omitempty,iso4217"`
	Accounts     []Account     `yaml:"accounts"     validate:"dive"`
	Transactions []Transaction `yaml:"transactions" validate:"dive"`
}

// Account declares an account to open.
type Account struct {
	Attributes map[string]any `yaml:"attributes"`
	ID         string         `yaml:"id"       validate:"required"`
	Name       string         `yaml:"name"`
	Number     string         `yaml:"number"`
	Currency   string         `yaml:"currency" validate:"omitempty,iso4217"`
	Side       string         `yaml:"side"     validate:"omitempty,oneof=DEBIT CREDIT DR CR debit credit dr cr"`
	Opened     string         `yaml:"opened"   validate:"omitempty,datetime=2006-01-02"`
}

// Transaction declares a transaction to build and post.
type Transaction struct {
	ID        string  `yaml:"id"`
	Date      string  `yaml:"date"      validate:"required,datetime=2006-01-02"`
	Currency  string  `yaml:"currency"  validate:"omitempty,iso4217"`
	Narration string  `yaml:"narration"`
	Entries   []Entry `yaml:"entries"   validate:"required,min=1,dive"`
}

// Entry declares one movement of a transaction.
type Entry struct {
	Attributes map[string]any `yaml:"attributes"`
	Account    string         `yaml:"account"   validate:"required"`
	Side       string         `yaml:"side"      validate:"required,oneof=DEBIT CREDIT DR CR debit credit dr cr"`
	Amount     string         `yaml:"amount"    validate:"required,numeric"`
	Narration  string         `yaml:"narration"`
	Reference  string         `yaml:"reference"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load decodes and validates a journal. Unknown keys are rejected.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJournal, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// LoadFile is Load on the named file.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

// Validate checks field formats. It does not check that referenced accounts exist.
func (d *Document) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidJournal, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidJournal, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Document.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s item(s)", field, fe.Param())
	case "iso4217":
		return fmt.Sprintf("%s %q is not an ISO 4217 currency", field, fe.Value())
	case "datetime":
		return fmt.Sprintf("%s %q is not a YYYY-MM-DD date", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of %s", field, fe.Value(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s %q is not a number", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
