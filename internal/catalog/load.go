package catalog

import (
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/config"
	"github.com/ziadkadry99/docsearch/internal/progress"
)

// Load builds the card snapshot from the source named in cfg. rep receives
// per-file progress for the markdown source and may be nil.
func Load(cfg *config.Config, rep progress.Reporter) ([]cards.Card, error) {
	var (
		snapshot []cards.Card
		err      error
	)
	switch cfg.Source {
	case config.SourceHTML:
		snapshot, err = LoadHTMLFile(cfg.IndexPath())
	case config.SourceMarkdown:
		snapshot, err = LoadMarkdown(cfg.ChaptersDir, cfg.Include, cfg.Exclude, rep)
	default:
		return nil, fmt.Errorf("unknown card source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("catalog: loaded cards", "source", cfg.Source, "count", len(snapshot))
	return snapshot, nil
}
