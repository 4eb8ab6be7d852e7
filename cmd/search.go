package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
)

const (
	ansiMark  = "\x1b[1;33m"
	ansiReset = "\x1b[0m"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Filter the chapter cards with a query",
	Long: `Runs the index page's card filter once and prints the chapters that stay
visible, in page order. Literal hits are highlighted. An empty query
lists every chapter.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of chapters to print (0 = all)")
	searchCmd.Flags().Bool("json", false, "output the result as JSON")
	searchCmd.Flags().Bool("color", false, "highlight hits with ANSI colors instead of brackets")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	color, _ := cmd.Flags().GetBool("color")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snapshot, err := loadCards(cfg)
	if err != nil {
		return err
	}

	res := cards.Filter(snapshot, strings.Join(args, " "))

	if res.Query != "" {
		store, closeStore, err := openAnalytics(cfg)
		if err != nil {
			slog.Warn("analytics unavailable", "error", err)
		} else {
			defer closeStore()
			err := recorderFor(store).Record(context.Background(), analytics.Event{
				Query:   res.Query,
				Results: res.VisibleCount,
				Total:   res.Total,
				Source:  analytics.SourceCLI,
			})
			if err != nil {
				slog.Warn("recording search", "error", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cards.NewResultView(snapshot, res))
	}

	before, after := "[", "]"
	if color {
		before, after = ansiMark, ansiReset
	}
	printSearchResult(out, snapshot, res, limit, before, after)
	return nil
}

func printSearchResult(w io.Writer, snapshot []cards.Card, res cards.Result, limit int, before, after string) {
	if res.NoResults() {
		fmt.Fprintf(w, "No chapters match %q.\n", res.Query)
		return
	}
	if stats := res.Stats(); stats != "" {
		fmt.Fprintf(w, "%s\n\n", stats)
	} else {
		fmt.Fprintf(w, "%d chapters\n\n", res.Total)
	}

	matches := res.Matches
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	for _, m := range matches {
		c := snapshot[m.Index]
		fmt.Fprintf(w, "  %d. %s", m.Index+1, m.Title.Wrap(before, after))
		if c.Difficulty != "" {
			fmt.Fprintf(w, " (%s)", c.Difficulty)
		}
		if m.Fuzzy {
			fmt.Fprint(w, " ~")
		}
		fmt.Fprintln(w)
		if desc := m.Description.Wrap(before, after); desc != "" {
			fmt.Fprintf(w, "     %s\n", desc)
		}
		if c.Href != "" {
			fmt.Fprintf(w, "     %s\n", c.Href)
		}
	}
	if n := len(res.Matches) - len(matches); n > 0 {
		fmt.Fprintf(w, "\n  ... and %d more\n", n)
	}
}
