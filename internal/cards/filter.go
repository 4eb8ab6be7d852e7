package cards

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// FuzzyMinLength is the shortest query for which subsequence matching is
// attempted. Shorter queries only match as literal substrings.
const FuzzyMinLength = 3

// MatchResult describes how a single card relates to a query.
type MatchResult struct {
	Index   int  `json:"index"`
	Visible bool `json:"visible"`
	// Fuzzy is set when the card is visible only through the subsequence
	// test. Such cards carry no highlighted spans.
	Fuzzy       bool        `json:"fuzzy,omitempty"`
	Title       Highlighted `json:"title,omitempty"`
	Description Highlighted `json:"description,omitempty"`
}

// Result is the outcome of filtering a card snapshot with one query.
type Result struct {
	Query          string        `json:"query"`
	VisibleIndices []int         `json:"visible_indices"`
	VisibleCount   int           `json:"visible_count"`
	Total          int           `json:"total"`
	Matches        []MatchResult `json:"matches"`
}

// NoResults reports whether a non-empty query matched nothing.
func (r Result) NoResults() bool {
	return r.Query != "" && r.VisibleCount == 0
}

// Stats returns the display line for this result.
func (r Result) Stats() string {
	return Stats(r.VisibleCount, r.Total)
}

// Normalize trims and lowercases a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter returns the cards visible for query, in their original order.
// Indices in the result are positions in cards. Filter never fails: an
// empty result is a normal outcome.
func Filter(cards []Card, query string) Result {
	m := newMatcher(query)
	res := Result{
		Query:          m.query,
		VisibleIndices: []int{},
		Matches:        []MatchResult{},
		Total:          len(cards),
	}
	for i, c := range cards {
		mr := m.match(c)
		if !mr.Visible {
			continue
		}
		mr.Index = i
		res.VisibleIndices = append(res.VisibleIndices, i)
		res.Matches = append(res.Matches, mr)
	}
	res.VisibleCount = len(res.VisibleIndices)
	return res
}

// Match evaluates a single card against query.
func Match(card Card, query string) MatchResult {
	mr := newMatcher(query).match(card)
	mr.Index = card.Index
	return mr
}

// FuzzyMatch reports whether query is a subsequence of text, scanning text
// once from left to right. Both arguments are compared as given; callers
// lowercase them first. Queries shorter than FuzzyMinLength never match.
func FuzzyMatch(text, query string) bool {
	if utf8.RuneCountInString(query) < FuzzyMinLength {
		return false
	}
	q := []rune(query)
	i := 0
	for _, r := range text {
		if i == len(q) {
			break
		}
		if r == q[i] {
			i++
		}
	}
	return i == len(q)
}

type matcher struct {
	query string
	re    *regexp.Regexp
}

func newMatcher(query string) matcher {
	q := Normalize(query)
	m := matcher{query: q}
	if q != "" {
		m.re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
	}
	return m
}

func (m matcher) match(c Card) MatchResult {
	if m.query == "" {
		return MatchResult{
			Index:       c.Index,
			Visible:     true,
			Title:       plain(c.Title),
			Description: plain(c.Description),
		}
	}

	title := strings.ToLower(c.Title)
	desc := strings.ToLower(c.Description)

	literal := strings.Contains(title, m.query) ||
		strings.Contains(desc, m.query) ||
		strings.Contains(strings.ToLower(c.Difficulty), m.query) ||
		strings.Contains(strings.ToLower(c.Tags), m.query)
	fuzzy := !literal && (FuzzyMatch(title, m.query) || FuzzyMatch(desc, m.query))

	if !literal && !fuzzy {
		return MatchResult{Index: c.Index}
	}
	re := m.re
	if fuzzy {
		re = nil
	}
	return MatchResult{
		Index:       c.Index,
		Visible:     true,
		Fuzzy:       fuzzy,
		Title:       highlight(c.Title, re),
		Description: highlight(c.Description, re),
	}
}
