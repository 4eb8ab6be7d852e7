package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/docsearch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the search_cards and list_cards tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		snapshot, err := loadCards(cfg)
		if err != nil {
			return err
		}

		store, closeStore, err := openAnalytics(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		slog.Info("docsearch MCP server started on stdio", "cards", len(snapshot))

		srv := mcpserver.NewServer(snapshot, recorderFor(store))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
