// Package genesis maintains access to the genesis file, the settings a chain
// is created with.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/contract"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// FeeRates represents the rates used by the fee schedule contract.
type FeeRates struct {
	Domestic      float64 `json:"domestic" validate:"gte=0,lte=1"`
	International float64 `json:"international" validate:"gte=0,lte=1"`
}

// Genesis represents the genesis file.
type Genesis struct {
	Difficulty  uint     `json:"difficulty" validate:"lte=64"`       // Number of leading 0's a digest needs, 0 for the default.
	MaxAttempts uint64   `json:"max_attempts"`                       // Nonces tried before mining gives up, 0 for no bound.
	Workers     int      `json:"workers" validate:"gte=0,lte=256"`   // Number of G's searching for a nonce.
	Digest      string   `json:"digest" validate:"required"`         // Name of the digest algorithm.
	Seal        string   `json:"seal" validate:"omitempty,oneof=post_contract pre_contract"`
	Contracts   []string `json:"contracts" validate:"dive,required"` // Contracts in the order they are applied.
	FeeRates    FeeRates `json:"fee_rates"`
}

// Default returns the standard settings with mining bounded to ten million
// attempts.
func Default() Genesis {
	return Genesis{
		Difficulty:  database.DefaultDifficulty,
		MaxAttempts: 10_000_000,
		Workers:     1,
		Digest:      digest.Default,
		Seal:        chain.SealPostContract.String(),
		Contracts:   []string{contract.NameFeeSchedule},
		FeeRates: FeeRates{
			Domestic:      0.02,
			International: 0.05,
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file. An empty path returns the
// default settings.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis settings are usable.
func (g Genesis) Validate() error {
	if err := validate.Check(g); err != nil {
		return fmt.Errorf("genesis invalid: %w", err)
	}

	if _, err := digest.Retrieve(g.Digest); err != nil {
		return fmt.Errorf("genesis invalid: %w", err)
	}

	return nil
}

// ChainConfig converts the genesis settings into the configuration used to
// construct a chain.
func (g Genesis) ChainConfig(evHandler chain.EventHandler) (chain.Config, error) {
	if err := g.Validate(); err != nil {
		return chain.Config{}, err
	}

	seal, err := chain.ParseSealPolicy(g.Seal)
	if err != nil {
		return chain.Config{}, err
	}

	params := contract.Params{
		Rates: contract.Rates{
			database.Domestic:      g.FeeRates.Domestic,
			database.International: g.FeeRates.International,
		},
	}

	contracts := make([]contract.Contract, 0, len(g.Contracts))
	for _, name := range g.Contracts {
		ctr, err := contract.Retrieve(name, params)
		if err != nil {
			return chain.Config{}, err
		}
		contracts = append(contracts, ctr)
	}

	cfg := chain.Config{
		Miner: database.Miner{
			Difficulty:  g.Difficulty,
			MaxAttempts: g.MaxAttempts,
			Workers:     g.Workers,
			Algorithm:   g.Digest,
		},
		Contracts: contracts,
		Seal:      seal,
		EvHandler: evHandler,
	}

	return cfg, nil
}
