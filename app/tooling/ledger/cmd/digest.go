package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/spf13/cobra"
)

var (
	algorithm  string
	difficulty uint
)

// digestCmd represents the digest command
var digestCmd = &cobra.Command{
	Use:   "digest <text>",
	Short: "Print the digest of the text and whether it is solved.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fn, err := digest.Retrieve(algorithm)
		if err != nil {
			log.Fatal(err)
		}

		d := fn([]byte(args[0]))
		fmt.Println(d)
		fmt.Printf("solved at difficulty %d: %t\n", difficulty, database.IsDigestSolved(difficulty, d))
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().StringVarP(&algorithm, "algorithm", "a", digest.Default, "Name of the digest algorithm.")
	digestCmd.Flags().UintVarP(&difficulty, "difficulty", "d", database.DefaultDifficulty, "Number of leading 0's required.")
}
