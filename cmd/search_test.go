package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ziadkadry99/docsearch/internal/cards"
)

func cmdCards() []cards.Card {
	return cards.Reindex([]cards.Card{
		{Title: "Variables and Types", Description: "Declaring values", Difficulty: "Beginner", Tags: "basics", Href: "01.html"},
		{Title: "Concurrency Patterns", Description: "Goroutines and channels", Difficulty: "Advanced", Tags: "goroutines", Href: "02.html"},
		{Title: "Error Handling", Description: "Wrapping errors", Difficulty: "Beginner", Tags: "errors"},
	})
}

func TestPrintSearchResult(t *testing.T) {
	snapshot := cmdCards()

	var buf bytes.Buffer
	printSearchResult(&buf, snapshot, cards.Filter(snapshot, "types"), 0, "[", "]")
	got := buf.String()
	for _, want := range []string{"Showing 1 of 3 chapters", "1. Variables and [Types] (Beginner)", "01.html"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	buf.Reset()
	printSearchResult(&buf, snapshot, cards.Filter(snapshot, "beginner"), 1, "[", "]")
	if !strings.Contains(buf.String(), "... and 1 more") {
		t.Errorf("expected truncation note:\n%s", buf.String())
	}

	buf.Reset()
	printSearchResult(&buf, snapshot, cards.Filter(snapshot, "vrals"), 0, "[", "]")
	if !strings.Contains(buf.String(), "1. Variables and Types (Beginner) ~") {
		t.Errorf("expected unmarked fuzzy hit:\n%s", buf.String())
	}

	buf.Reset()
	printSearchResult(&buf, snapshot, cards.Filter(snapshot, "kubernetes"), 0, "[", "]")
	if got := buf.String(); got != "No chapters match \"kubernetes\".\n" {
		t.Errorf("unexpected output %q", got)
	}

	buf.Reset()
	printSearchResult(&buf, snapshot, cards.Filter(snapshot, ""), 0, "[", "]")
	if !strings.HasPrefix(buf.String(), "3 chapters") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCardSearcher(t *testing.T) {
	search := cardSearcher(cmdCards())

	tests := []struct {
		input string
		index int
		want  bool
	}{
		{"", 0, true},
		{"conc", 1, true},
		{"conc", 0, false},
		{"ERRORS", 2, true},
		{"wr", 2, true},
		{"wr", 1, false},
	}
	for _, tt := range tests {
		if got := search(tt.input, tt.index); got != tt.want {
			t.Errorf("search(%q, %d) = %v, want %v", tt.input, tt.index, got, tt.want)
		}
	}
}
