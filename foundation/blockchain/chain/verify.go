package chain

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Verify walks the chain from the genesis block and validates every block
// against its parent. The first failure is returned as an IntegrityError.
func (ch *Chain) Verify() error {
	ch.evHandler("chain: Verify: started: blocks[%d]", len(ch.blocks))
	defer ch.evHandler("chain: Verify: completed")

	for i := range ch.blocks {
		var prev *database.Block
		if i > 0 {
			prev = &ch.blocks[i-1]
		}

		if err := ch.blocks[i].Validate(prev, ch.miner); err != nil {
			ch.evHandler("chain: Verify: blk[%d]: ERROR: %s", ch.blocks[i].Index, err)
			return err
		}
	}

	return nil
}
