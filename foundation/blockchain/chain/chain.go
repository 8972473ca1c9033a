// Package chain is the core API for the ledger. It owns the ordered blocks and
// the registered contracts and implements the rules for admitting blocks.
package chain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/contract"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// ErrEmptyChain is returned when a block that depends on a prior block is
// requested and the chain has no blocks yet.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of admitting blocks.
type EventHandler func(v string, args ...any)

// SealPolicy decides which transaction state the committed digest of a block
// covers. Contracts change the transactions after NextBlock has mined the
// candidate, so the two policies produce different digests.
type SealPolicy int

// Set of seal policies.
const (
	// SealPostContract mines the block again after the contracts changed
	// any of its transactions. The stored digest covers the stored
	// transactions and the chain verifies.
	SealPostContract SealPolicy = iota

	// SealPreContract keeps the digest mined before the contracts ran. Blocks
	// whose transactions were changed by a contract will not verify.
	SealPreContract
)

// String implements the fmt.Stringer interface.
func (sp SealPolicy) String() string {
	switch sp {
	case SealPostContract:
		return "post_contract"
	case SealPreContract:
		return "pre_contract"
	}
	return fmt.Sprintf("SealPolicy(%d)", int(sp))
}

// ParseSealPolicy converts the text form into a SealPolicy.
func ParseSealPolicy(s string) (SealPolicy, error) {
	switch s {
	case "", "post_contract":
		return SealPostContract, nil
	case "pre_contract":
		return SealPreContract, nil
	}
	return 0, fmt.Errorf("unknown seal policy %q", s)
}

// =============================================================================

// Config represents the configuration required to construct a chain.
type Config struct {
	Miner     database.Miner
	Contracts []contract.Contract
	Seal      SealPolicy
	Now       func() time.Time
	EvHandler EventHandler
}

// Chain manages the ordered set of blocks and the contracts applied during
// admission. The chain has a single writer and is not safe for concurrent use.
type Chain struct {
	miner     database.Miner
	contracts []contract.Contract
	seal      SealPolicy
	now       func() time.Time
	evHandler EventHandler
	blocks    []database.Block
}

// New constructs an empty chain.
func New(cfg Config) (*Chain, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	miner := cfg.Miner
	if miner.Algorithm == "" {
		miner.Algorithm = digest.Default
	}
	if miner.Difficulty == 0 {
		miner.Difficulty = database.DefaultDifficulty
	}
	if _, err := digest.Retrieve(miner.Algorithm); err != nil {
		return nil, err
	}
	if miner.EvHandler == nil {
		miner.EvHandler = ev
	}

	for i, ctr := range cfg.Contracts {
		if ctr == nil {
			return nil, fmt.Errorf("contract at position %d is nil", i)
		}
	}

	switch cfg.Seal {
	case SealPostContract, SealPreContract:
	default:
		return nil, fmt.Errorf("unknown seal policy %d", int(cfg.Seal))
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	ch := Chain{
		miner:     miner,
		contracts: slices.Clone(cfg.Contracts),
		seal:      cfg.Seal,
		now:       now,
		evHandler: ev,
	}

	return &ch, nil
}

// Load constructs a chain from its exported form. Every block is validated
// against its parent before it's accepted. Contracts are not applied again
// since the exported transactions already carry their effect.
func Load(cfg Config, data database.ChainData) (*Chain, error) {
	ch, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if data.Algorithm != "" && data.Algorithm != ch.miner.Algorithm {
		return nil, fmt.Errorf("chain was mined with %s, configured for %s", data.Algorithm, ch.miner.Algorithm)
	}

	if data.Difficulty != ch.miner.Difficulty {
		return nil, fmt.Errorf("chain was mined at difficulty %d, configured for %d", data.Difficulty, ch.miner.Difficulty)
	}

	for _, blockData := range data.Blocks {
		block := database.ToBlock(blockData)

		var prev *database.Block
		if len(ch.blocks) > 0 {
			prev = &ch.blocks[len(ch.blocks)-1]
		}

		if err := block.Validate(prev, ch.miner); err != nil {
			return nil, err
		}

		ch.blocks = append(ch.blocks, block)
	}

	ch.evHandler("chain: Load: loaded blocks[%d]", len(ch.blocks))

	return ch, nil
}

// =============================================================================

// Len returns the number of blocks in the chain.
func (ch *Chain) Len() int {
	return len(ch.blocks)
}

// Blocks returns a copy of the blocks in chain order.
func (ch *Chain) Blocks() []database.Block {
	blocks := make([]database.Block, len(ch.blocks))
	for i, block := range ch.blocks {
		block.Trans = slices.Clone(block.Trans)
		blocks[i] = block
	}
	return blocks
}

// PreviousBlock returns the last block in the chain, the parent of the next
// block to be admitted.
func (ch *Chain) PreviousBlock() (database.Block, error) {
	if len(ch.blocks) == 0 {
		return database.Block{}, ErrEmptyChain
	}

	block := ch.blocks[len(ch.blocks)-1]
	block.Trans = slices.Clone(block.Trans)

	return block, nil
}

// Contracts returns the names of the registered contracts in the order
// they are applied.
func (ch *Chain) Contracts() []string {
	names := make([]string, len(ch.contracts))
	for i, ctr := range ch.contracts {
		names[i] = ctr.Name()
	}
	return names
}

// Export returns the chain in its exported form.
func (ch *Chain) Export() database.ChainData {
	data := database.ChainData{
		Algorithm:  ch.miner.Algorithm,
		Difficulty: ch.miner.Difficulty,
		Blocks:     make([]database.BlockData, len(ch.blocks)),
	}

	for i, block := range ch.blocks {
		data.Blocks[i] = database.NewBlockData(block)
	}

	return data
}
