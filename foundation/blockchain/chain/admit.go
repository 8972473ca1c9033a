package chain

import (
	"context"
	"fmt"
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// NewBlock returns an empty candidate block stamped with the chain's clock.
func (ch *Chain) NewBlock() database.Block {
	return database.NewBlock(ch.now())
}

// NextBlock constructs and mines the block that will follow the current last
// block, holding the specified transactions in order. The contracts have not
// been applied to the returned block, that happens in AddBlock.
func (ch *Chain) NextBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	ch.evHandler("chain: NextBlock: started: trans[%d]", len(trans))
	defer ch.evHandler("chain: NextBlock: completed")

	block := ch.NewBlock()
	for _, tx := range trans {
		block.AddTx(tx)
	}

	prev, err := ch.PreviousBlock()
	if err != nil {
		return database.Block{}, err
	}

	block.Index = uint64(len(ch.blocks))
	block.PrevDigest = prev.Digest

	digest, err := block.Mine(ctx, ch.miner)
	if err != nil {
		return database.Block{}, err
	}
	block.Digest = digest

	return block, nil
}

// AddBlock admits the candidate block to the chain and returns the block as
// it was stored. The first block admitted becomes the genesis block no
// matter what index and previous digest the candidate carries. Any other
// candidate must follow the current tip, and a candidate that arrives mined
// must validate against it. Every
// contract is applied to every transaction, in registration and then
// sequence order, exactly once.
func (ch *Chain) AddBlock(ctx context.Context, candidate database.Block) (database.Block, error) {
	ch.evHandler("chain: AddBlock: started: blk[%d]", candidate.Index)
	defer ch.evHandler("chain: AddBlock: completed")

	// Work on a copy so the caller's transactions are never changed.
	block := candidate
	block.Trans = slices.Clone(candidate.Trans)

	switch len(ch.blocks) {
	case 0:
		ch.evHandler("chain: AddBlock: blk[%d]: genesis block", block.Index)

		block.Index = 0
		block.PrevDigest = database.GenesisPrevDigest
		if err := ch.mine(ctx, &block); err != nil {
			return database.Block{}, err
		}

	default:

		// A candidate built against an older tip, or one that was already
		// admitted, is rejected before any contract touches it.
		tip := ch.blocks[len(ch.blocks)-1]
		if block.Index != tip.Index+1 {
			return database.Block{}, &database.IntegrityError{
				Index: block.Index,
				Err:   fmt.Errorf("%w: got %d, exp %d", database.ErrIndexOutOfOrder, block.Index, tip.Index+1),
			}
		}

		if block.PrevDigest != tip.Digest {
			return database.Block{}, &database.IntegrityError{
				Index: block.Index,
				Err:   fmt.Errorf("%w: got %s, exp %s", database.ErrPrevDigestMismatch, block.PrevDigest, tip.Digest),
			}
		}

		// Blocks constructed with NewBlock instead of NextBlock arrive unmined.
		// A mined candidate must still carry a digest that matches its own
		// fields and solves the difficulty.
		switch block.Digest {
		case "":
			if err := ch.mine(ctx, &block); err != nil {
				return database.Block{}, err
			}

		default:
			if err := block.Validate(&tip, ch.miner); err != nil {
				return database.Block{}, err
			}
		}
	}

	// Run the contracts.
	if ch.applyContracts(&block) && ch.seal == SealPostContract {
		ch.evHandler("chain: AddBlock: blk[%d]: contracts changed transactions: mine again", block.Index)

		if err := ch.mine(ctx, &block); err != nil {
			return database.Block{}, err
		}
	}

	ch.blocks = append(ch.blocks, block)
	ch.report(block)

	out := block
	out.Trans = slices.Clone(block.Trans)

	return out, nil
}

// =============================================================================

// mine performs the nonce search and assigns the digest to the block.
func (ch *Chain) mine(ctx context.Context, block *database.Block) error {
	digest, err := block.Mine(ctx, ch.miner)
	if err != nil {
		return err
	}
	block.Digest = digest

	return nil
}

// applyContracts runs every contract over every transaction of the block and
// reports if any transaction changed.
func (ch *Chain) applyContracts(block *database.Block) bool {
	var changed bool

	for _, ctr := range ch.contracts {
		for i, tx := range block.Trans {
			out := ctr.Apply(tx)
			ch.evHandler("chain: applyContracts: blk[%d]: contract[%s]: tx[%s] -> tx[%s]", block.Index, ctr.Name(), tx, out)

			if out != tx {
				changed = true
			}
			block.Trans[i] = out
		}
	}

	return changed
}

// report records the details of an admitted block.
func (ch *Chain) report(block database.Block) {
	ch.evHandler("chain: block admitted: blk[%d]: created[%s]: nonce[%d]: prevDigest[%s]: digest[%s]",
		block.Index, block.CreatedText(), block.Nonce, block.PrevDigest, block.Digest)
}
