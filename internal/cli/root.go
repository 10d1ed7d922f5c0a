// Package cli wires the lumend commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "lumend",
	Short: "lumend - offer matching and path execution ledger node",
	Long: `lumend runs a single-node ledger with an on-ledger order book.
Transactions are queued over JSON-RPC and applied in periodic ledger
closes; every close is checkpointed and its trades recorded to the
history database.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}
