package database

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/validate"
)

// Category represents the kind of transfer a transaction records. Contracts
// use the category to decide what effect to apply.
type Category string

// Set of transaction categories.
const (
	Domestic      Category = "domestic"
	International Category = "international"
)

// ParseCategory converts the text form into a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case Domestic, International:
		return c, nil
	}
	return "", fmt.Errorf("unknown transaction category %q", s)
}

// =============================================================================

// Tx is the transactional information between two parties. The fee is
// zero until the chain's contracts have been applied during block admission.
type Tx struct {
	From     string   `json:"from" validate:"required"`
	To       string   `json:"to" validate:"required"`
	Amount   float64  `json:"amount" validate:"gte=0"`
	Fee      float64  `json:"fees" validate:"gte=0"`
	Category Category `json:"transaction_type" validate:"oneof=domestic international"`
}

// NewTx constructs a new transaction with no fee applied.
func NewTx(from string, to string, amount float64, category Category) (Tx, error) {
	tx := Tx{
		From:     from,
		To:       to,
		Amount:   amount,
		Category: category,
	}

	if err := tx.Validate(); err != nil {
		return Tx{}, err
	}

	return tx, nil
}

// Validate checks the transaction fields are in a usable state.
func (tx Tx) Validate() error {
	if err := validate.Check(tx); err != nil {
		return fmt.Errorf("transaction invalid: %w", err)
	}
	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%s:%.2f:%.2f", tx.From, tx.To, tx.Category, tx.Amount, tx.Fee)
}
