package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
)

// handleSearchCards runs the card filter and lists the visible chapters.
func (s *Server) handleSearchCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	res := cards.Filter(s.snapshot, query)
	if res.Query != "" {
		err := s.recorder.Record(ctx, analytics.Event{
			Query:   res.Query,
			Results: res.VisibleCount,
			Total:   res.Total,
			Source:  analytics.SourceMCP,
		})
		if err != nil {
			slog.Warn("mcp: recording search", "query", res.Query, "error", err)
		}
	}

	if res.NoResults() {
		return mcp.NewToolResultText(fmt.Sprintf("No chapters match %q.", res.Query)), nil
	}

	matches := res.Matches
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return mcp.NewToolResultText(formatMatches(s.snapshot, res, matches)), nil
}

// handleListCards lists the card snapshot, optionally by difficulty.
func (s *Server) handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	difficulty := strings.TrimSpace(request.GetString("difficulty", ""))

	var listed []int
	for i, c := range s.snapshot {
		if difficulty != "" && !strings.EqualFold(c.Difficulty, difficulty) {
			continue
		}
		listed = append(listed, i)
	}

	if len(listed) == 0 {
		if difficulty != "" {
			return mcp.NewToolResultText(fmt.Sprintf("No %s chapters.", difficulty)), nil
		}
		return mcp.NewToolResultText("No chapters found. Check the site_dir or chapters_dir setting."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d chapter(s):\n", len(listed)))
	for _, i := range listed {
		c := s.snapshot[i]
		writeCard(&sb, i, c, c.Title, c.Description)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatMatches renders visible chapters with literal hits in bold.
func formatMatches(snapshot []cards.Card, res cards.Result, matches []cards.MatchResult) string {
	var sb strings.Builder
	if stats := res.Stats(); stats != "" {
		sb.WriteString(stats + ":\n")
	} else {
		sb.WriteString(fmt.Sprintf("All %d chapters:\n", res.Total))
	}

	for _, m := range matches {
		c := snapshot[m.Index]
		title := m.Title.Wrap("**", "**")
		if m.Fuzzy {
			title += " (fuzzy match)"
		}
		writeCard(&sb, m.Index, c, title, m.Description.Wrap("**", "**"))
	}
	if len(matches) < len(res.Matches) {
		sb.WriteString(fmt.Sprintf("\n(%d more not shown)\n", len(res.Matches)-len(matches)))
	}
	return sb.String()
}

// writeCard writes one chapter entry numbered by its position on the page.
func writeCard(sb *strings.Builder, pos int, c cards.Card, title, description string) {
	sb.WriteString(fmt.Sprintf("\n%d. %s", pos+1, title))
	if c.Difficulty != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", c.Difficulty))
	}
	sb.WriteString("\n")
	if description != "" {
		sb.WriteString("   " + description + "\n")
	}
	if c.Tags != "" {
		sb.WriteString("   Tags: " + c.Tags + "\n")
	}
	if c.Href != "" {
		sb.WriteString("   Link: " + c.Href + "\n")
	}
}
