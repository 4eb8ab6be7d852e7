package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/config"
	"github.com/ziadkadry99/docsearch/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with the card search API and live search",
	Long: `Serves the static site directory together with a JSON card search API,
a WebSocket live search session and, when enabled, search analytics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyServeFlags(cfg, servePort, serveAllowAll)

		snapshot, err := loadCards(cfg)
		if err != nil {
			return err
		}

		store, closeStore, err := openAnalytics(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		srv := buildServer(cfg, snapshot, store)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			slog.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		slog.Info("docsearch server starting",
			"version", Version,
			"port", cfg.Server.Port,
			"site", cfg.SiteDir,
			"analytics", store != nil,
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

// applyServeFlags overrides the configured server settings with the flags
// that were given.
func applyServeFlags(cfg *config.Config, port int, allowAll bool) {
	if port > 0 {
		cfg.Server.Port = port
	}
	if allowAll {
		cfg.Server.AllowAllOrigins = true
	}
}

func buildServer(cfg *config.Config, snapshot []cards.Card, store *analytics.Store) *server.Server {
	return server.New(server.Config{
		Port:     cfg.Server.Port,
		SiteDir:  cfg.SiteDir,
		AllowAll: cfg.Server.AllowAllOrigins,
		Debounce: cfg.Debounce(),
	}, snapshot, store)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
