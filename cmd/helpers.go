package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/catalog"
	"github.com/ziadkadry99/docsearch/internal/config"
	"github.com/ziadkadry99/docsearch/internal/db"
	"github.com/ziadkadry99/docsearch/internal/progress"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docsearch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadCards builds the card snapshot from the configured source.
func loadCards(cfg *config.Config) ([]cards.Card, error) {
	var rep progress.Reporter = progress.Nop{}
	if cfg.Source == config.SourceMarkdown {
		rep = progress.NewReporter("Reading chapters")
	}
	snapshot, err := catalog.Load(cfg, rep)
	if err != nil {
		return nil, fmt.Errorf("loading cards: %w", err)
	}
	if len(snapshot) == 0 {
		slog.Warn("no chapter cards found", "source", cfg.Source)
	}
	return snapshot, nil
}

// openAnalytics opens the analytics store and prunes events older than the
// retention window. It returns a nil store and a no-op closer when analytics is
// disabled.
func openAnalytics(cfg *config.Config) (*analytics.Store, func(), error) {
	if !cfg.Analytics.Enabled {
		return nil, func() {}, nil
	}
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	store := analytics.NewStore(database)

	if days := cfg.Analytics.RetentionDays; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		n, err := store.DeleteBefore(context.Background(), cutoff)
		if err != nil {
			slog.Warn("pruning search events", "error", err)
		} else if n > 0 {
			slog.Debug("pruned search events", "count", n, "before", cutoff.Format(time.DateOnly))
		}
	}

	return store, func() { database.Close() }, nil
}

// recorderFor returns store as a Recorder, or a no-op when it is nil.
func recorderFor(store *analytics.Store) analytics.Recorder {
	if store == nil {
		return analytics.Nop{}
	}
	return store
}
