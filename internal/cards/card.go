// Package cards implements the chapter card filter used by the documentation
// index page: literal substring matching across card fields, a greedy
// subsequence ("fuzzy") fallback, and literal-match highlighting.
package cards

import "fmt"

// Card is one searchable chapter entry rendered on the index page.
// Cards are read-only snapshots; a field missing from the source is "".
type Card struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Tags        string `json:"tags"`
	Href        string `json:"href,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Reindex returns a copy of cards whose Index fields match their positions.
func Reindex(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		c.Index = i
		out[i] = c
	}
	return out
}

// Stats returns the "visible of total" line shown under the search box.
// It is empty when every card is visible.
func Stats(visible, total int) string {
	if visible >= total {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d chapters", visible, total)
}
