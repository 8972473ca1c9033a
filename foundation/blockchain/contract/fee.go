package contract

import (
	"fmt"
	"maps"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Rates maps a transaction category to the share of the amount taken as fee.
type Rates map[database.Category]float64

// DefaultRates returns the standard fee schedule: 2% domestic and 5%
// international.
func DefaultRates() Rates {
	return Rates{
		database.Domestic:      0.02,
		database.International: 0.05,
	}
}

// =============================================================================

// FeeSchedule deducts a fee from each transaction based on its category.
type FeeSchedule struct {
	rates Rates
}

// NewFeeSchedule constructs a fee schedule for the specified rates. Every rate
// must be between 0 and 1.
func NewFeeSchedule(rates Rates) (FeeSchedule, error) {
	for category, rate := range rates {
		if _, err := database.ParseCategory(string(category)); err != nil {
			return FeeSchedule{}, err
		}

		if rate < 0 || rate > 1 {
			return FeeSchedule{}, fmt.Errorf("fee rate for %s is out of range: %v", category, rate)
		}
	}

	return FeeSchedule{rates: maps.Clone(rates)}, nil
}

// Name implements the Contract interface.
func (fs FeeSchedule) Name() string {
	return NameFeeSchedule
}

// Apply implements the Contract interface. The fee is the amount times the
// category rate and the amount is reduced by the fee. A category with no
// rate leaves the transaction untouched.
func (fs FeeSchedule) Apply(tx database.Tx) database.Tx {
	rate, exists := fs.rates[tx.Category]
	if !exists {
		return tx
	}

	tx.Fee = tx.Amount * rate
	tx.Amount -= tx.Fee

	return tx
}

// Rate returns the rate used for the category.
func (fs FeeSchedule) Rate(category database.Category) float64 {
	return fs.rates[category]
}
