// Package analytics records the searches run against the card index and
// reports the most frequent and the zero-result queries.
package analytics

import (
	"context"
	"time"
)

// Source identifies the surface a search came from.
type Source string

const (
	SourceHTTP Source = "http"
	SourceLive Source = "live"
	SourceMCP  Source = "mcp"
	SourceCLI  Source = "cli"
)

// Event is a single recorded search.
type Event struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Results   int       `json:"results"`
	Total     int       `json:"total"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// QueryCount aggregates events sharing a query.
type QueryCount struct {
	Query      string    `json:"query"`
	Count      int       `json:"count"`
	AvgResults float64   `json:"avg_results"`
	LastSeen   time.Time `json:"last_seen"`
}

// Recorder is implemented by anything that can store search events.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Event) error { return nil }
