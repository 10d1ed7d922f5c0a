package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumenforge/lumend/internal/config"
	"github.com/lumenforge/lumend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the node: RPC endpoint plus periodic ledger closes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		node, err := server.New(ctx, cfg)
		if err != nil {
			return err
		}
		return node.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
