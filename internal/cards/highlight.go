package cards

import (
	"html"
	"regexp"
	"strings"
)

// Segment is a run of field text, optionally marked as a query hit.
type Segment struct {
	Text string `json:"text"`
	Mark bool   `json:"mark,omitempty"`
}

// Highlighted is a field split into marked and unmarked segments.
type Highlighted []Segment

// String returns the field text without markup.
func (h Highlighted) String() string {
	var b strings.Builder
	for _, s := range h {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Marked reports whether any segment is a query hit.
func (h Highlighted) Marked() bool {
	for _, s := range h {
		if s.Mark {
			return true
		}
	}
	return false
}

// HTML renders the field with every hit wrapped in a search-highlight mark.
// All text is escaped.
func (h Highlighted) HTML() string {
	return h.format(`<mark class="search-highlight">`, `</mark>`, html.EscapeString)
}

// Wrap renders the field with hits enclosed by before and after.
func (h Highlighted) Wrap(before, after string) string {
	return h.format(before, after, nil)
}

func (h Highlighted) format(before, after string, escape func(string) string) string {
	var b strings.Builder
	for _, s := range h {
		text := s.Text
		if escape != nil {
			text = escape(text)
		}
		if s.Mark {
			b.WriteString(before)
			b.WriteString(text)
			b.WriteString(after)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

func plain(text string) Highlighted {
	if text == "" {
		return nil
	}
	return Highlighted{{Text: text}}
}

// highlight splits text around every literal, case-insensitive occurrence
// matched by re. A nil re yields a single unmarked segment.
func highlight(text string, re *regexp.Regexp) Highlighted {
	if text == "" {
		return nil
	}
	if re == nil {
		return plain(text)
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return plain(text)
	}
	out := make(Highlighted, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			out = append(out, Segment{Text: text[prev:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Mark: true})
		prev = loc[1]
	}
	if prev < len(text) {
		out = append(out, Segment{Text: text[prev:]})
	}
	return out
}
