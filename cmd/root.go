package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Search the chapter cards of a static documentation site",
	Long: `docsearch filters the chapter cards of a documentation index page the
same way the page's search box does: literal matches across title,
description, difficulty and tags, with a subsequence fallback for
longer queries. It can serve the site with a live search socket,
expose the cards to AI agents over MCP, and report what readers
search for.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setupLogging installs the default slog logger. Logs go to stderr so that
// stdout carries only command output and MCP protocol messages.
func setupLogging() {
	level := logLevel()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if v := os.Getenv(config.EnvPrefix + "LOG_LEVEL"); v != "" {
		return (&config.Config{LogLevel: v}).SlogLevel()
	}
	// A broken config file is reported by loadConfig.
	if cfg, err := config.Load(cfgFile); err == nil {
		return cfg.SlogLevel()
	}
	return slog.LevelInfo
}
