package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/analytics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the most frequent and the zero-result searches",
	Long: `Reports the searches recorded by the serve, mcp and search commands:
the most frequent queries and the queries that matched no chapter.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().Int("limit", 10, "number of queries per table")
	statsCmd.Flags().String("source", "", "only count searches from this surface: http, live, mcp, cli")
	statsCmd.Flags().Duration("since", 0, "only count searches newer than this, e.g. 168h")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	source, _ := cmd.Flags().GetString("source")
	since, _ := cmd.Flags().GetDuration("since")

	f, err := statsFilter(limit, source, since, time.Now())
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !cfg.Analytics.Enabled {
		fmt.Fprintln(out, "Search analytics is disabled. Set analytics.enabled: true in the config.")
		return nil
	}

	store, closeStore, err := openAnalytics(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	top, err := store.TopQueries(ctx, f)
	if err != nil {
		return fmt.Errorf("top queries: %w", err)
	}
	zero, err := store.ZeroResultQueries(ctx, f)
	if err != nil {
		return fmt.Errorf("zero-result queries: %w", err)
	}

	fmt.Fprintln(out, "Top searches:")
	if err := printQueryTable(out, top); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nSearches with no results:")
	return printQueryTable(out, zero)
}

// statsFilter validates the stats flags and turns them into an analytics
// filter relative to now.
func statsFilter(limit int, source string, since time.Duration, now time.Time) (analytics.Filter, error) {
	f := analytics.Filter{Source: analytics.Source(source), Limit: limit}
	switch f.Source {
	case "", analytics.SourceHTTP, analytics.SourceLive, analytics.SourceMCP, analytics.SourceCLI:
	default:
		return f, fmt.Errorf("unknown source %q: want http, live, mcp or cli", source)
	}
	if limit < 0 {
		return f, fmt.Errorf("limit must not be negative, got %d", limit)
	}
	if since < 0 {
		return f, fmt.Errorf("since must not be negative, got %s", since)
	}
	if since > 0 {
		t := now.Add(-since)
		f.Since = &t
	}
	return f, nil
}

func printQueryTable(w io.Writer, counts []analytics.QueryCount) error {
	if len(counts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Query", "Searches", "Avg results", "Last seen")
	for _, c := range counts {
		err := table.Append([]string{
			c.Query,
			strconv.Itoa(c.Count),
			strconv.FormatFloat(c.AvgResults, 'f', 1, 64),
			c.LastSeen.Local().Format(time.DateTime),
		})
		if err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	return table.Render()
}
