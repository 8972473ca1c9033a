package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/spf13/cobra"
)

// algorithmsCmd represents the algorithms command
var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the digest algorithms and export formats.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range digest.Names() {
			if name == digest.Default {
				fmt.Println("digest:", name, "(default)")
				continue
			}
			fmt.Println("digest:", name)
		}
		for _, f := range codec.Formats() {
			fmt.Println("format:", f)
		}
	},
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}
