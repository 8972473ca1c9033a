// Package contract provides the rules a chain applies to every transaction of
// a block before the block is admitted.
package contract

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// List of the supported contracts.
const (
	NameFeeSchedule = "fee_schedule"
)

// Contract defines the behavior a rule must implement to be registered with a
// chain. Apply returns the transaction with the rule's effect applied and
// must not keep a reference to it. Contracts hold no state about the chain.
type Contract interface {
	Name() string
	Apply(tx database.Tx) database.Tx
}

// Params carries the settings used to construct contracts by name.
type Params struct {
	Rates Rates
}

// Map of the supported contracts with their constructors.
var contracts = map[string]func(Params) (Contract, error){
	NameFeeSchedule: func(p Params) (Contract, error) {
		rates := p.Rates
		if rates == nil {
			rates = DefaultRates()
		}
		return NewFeeSchedule(rates)
	},
}

// Retrieve constructs the contract registered under the specified name.
func Retrieve(name string, p Params) (Contract, error) {
	fn, exists := contracts[name]
	if !exists {
		return nil, fmt.Errorf("contract %q does not exist", name)
	}
	return fn(p)
}
