package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/spf13/cobra"
)

var format string

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Verify the integrity of an exported ledger.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		data, err := codec.Decode(format, content)
		if err != nil {
			log.Fatal(err)
		}

		gen, err := genesis.Load(genesisPath)
		if err != nil {
			log.Fatal(err)
		}

		cfg, err := gen.ChainConfig(nil)
		if err != nil {
			log.Fatal(err)
		}

		ch, err := chain.Load(cfg, data)
		if err != nil {
			var ie *database.IntegrityError
			if errors.As(err, &ie) {
				log.Fatalf("block %d failed verification: %v", ie.Index, ie.Err)
			}
			log.Fatal(err)
		}

		for _, block := range ch.Blocks() {
			fmt.Printf("blk[%d]: nonce[%d]: prevDigest[%s]: digest[%s]: trans[%d]\n", block.Index, block.Nonce, block.PrevDigest, block.Digest, len(block.Trans))
		}
		fmt.Printf("verified %d blocks with %s at difficulty %d\n", ch.Len(), data.Algorithm, data.Difficulty)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&format, "format", "f", codec.FormatJSON, "Format of the exported ledger.")
}
