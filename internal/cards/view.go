package cards

// MatchView is the wire form of a visible card. Title and Description are
// HTML with literal hits wrapped in <mark class="search-highlight">.
type MatchView struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty,omitempty"`
	Href        string `json:"href,omitempty"`
	Fuzzy       bool   `json:"fuzzy,omitempty"`
}

// ResultView is the wire form of a Result, shared by the HTTP and live
// search surfaces.
type ResultView struct {
	Query          string      `json:"query"`
	VisibleIndices []int       `json:"visible_indices"`
	VisibleCount   int         `json:"visible_count"`
	Total          int         `json:"total"`
	Stats          string      `json:"stats"`
	NoResults      bool        `json:"no_results"`
	Results        []MatchView `json:"results"`
}

// NewResultView renders r against the snapshot it was computed from.
func NewResultView(snapshot []Card, r Result) ResultView {
	v := ResultView{
		Query:          r.Query,
		VisibleIndices: r.VisibleIndices,
		VisibleCount:   r.VisibleCount,
		Total:          r.Total,
		Stats:          r.Stats(),
		NoResults:      r.NoResults(),
		Results:        make([]MatchView, 0, len(r.Matches)),
	}
	if v.VisibleIndices == nil {
		v.VisibleIndices = []int{}
	}
	for _, m := range r.Matches {
		mv := MatchView{
			Index:       m.Index,
			Title:       m.Title.HTML(),
			Description: m.Description.HTML(),
			Fuzzy:       m.Fuzzy,
		}
		if m.Index >= 0 && m.Index < len(snapshot) {
			mv.Difficulty = snapshot[m.Index].Difficulty
			mv.Href = snapshot[m.Index].Href
		}
		v.Results = append(v.Results, mv)
	}
	return v
}
