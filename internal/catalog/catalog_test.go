package catalog

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yuin/goldmark"

	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/config"
)

func TestLoadHTMLFile(t *testing.T) {
	got, err := LoadHTMLFile(filepath.Join("testdata", "index.html"))
	if err != nil {
		t.Fatalf("LoadHTMLFile: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d cards, want 3", len(got))
	}

	want := []cards.Card{
		{Index: 0, Title: "Variables and Types", Description: "Declaring values & constants", Difficulty: "Beginner", Tags: "basics,syntax", Href: "chapters/01-variables.html"},
		{Index: 1, Title: "Concurrency Patterns", Description: "Goroutines and channels", Difficulty: "Advanced", Tags: "advanced,goroutines", Href: "chapters/02-concurrency.html"},
		{Index: 2, Title: "Appendix"},
	}
	for i := range want {
		g := got[i]
		g.Source = ""
		if !reflect.DeepEqual(g, want[i]) {
			t.Errorf("card %d = %+v, want %+v", i, g, want[i])
		}
	}
}

func TestLoadHTMLNoCards(t *testing.T) {
	got, err := LoadHTML(strings.NewReader("<html><body><p>empty</p></body></html>"), "inline")
	if err != nil {
		t.Fatalf("LoadHTML: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d cards, want 0", len(got))
	}
}

func TestLoadHTMLFileMissing(t *testing.T) {
	if _, err := LoadHTMLFile(filepath.Join("testdata", "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestListMarkdown(t *testing.T) {
	dir := filepath.Join("testdata", "chapters")

	got, err := ListMarkdown(dir, []string{"**/*.md"}, config.DefaultExcludes)
	if err != nil {
		t.Fatalf("ListMarkdown: %v", err)
	}
	want := []string{"01-variables.md", "02-concurrency.md", "03-errors.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListMarkdown = %v, want %v", got, want)
	}

	all, err := ListMarkdown(dir, nil, nil)
	if err != nil {
		t.Fatalf("ListMarkdown: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("without filters got %v, want 5 files", all)
	}
}

func TestLoadMarkdown(t *testing.T) {
	got, err := LoadMarkdown(filepath.Join("testdata", "chapters"), []string{"**/*.md"}, config.DefaultExcludes, nil)
	if err != nil {
		t.Fatalf("LoadMarkdown: %v", err)
	}

	want := []cards.Card{
		{Index: 0, Title: "Variables and Types", Description: "Declaring values and constants", Difficulty: "Beginner", Tags: "basics,syntax", Href: "01-variables.html", Source: "01-variables.md"},
		{Index: 1, Title: "Concurrency Patterns", Description: "Goroutines and channels in practice.", Difficulty: "Advanced", Tags: "advanced,goroutines", Href: "02-concurrency.html", Source: "02-concurrency.md"},
		{Index: 2, Title: "Error Handling", Description: "Wrapping errors with context.", Href: "03-errors.html", Source: "03-errors.md"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadMarkdown =\n%+v\nwant\n%+v", got, want)
	}
}

func TestLoadFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SiteDir = "testdata"

	got, err := Load(cfg, nil)
	if err != nil {
		t.Fatalf("Load(html): %v", err)
	}
	if len(got) != 3 {
		t.Errorf("html source: got %d cards, want 3", len(got))
	}

	cfg.Source = config.SourceMarkdown
	cfg.ChaptersDir = filepath.Join("testdata", "chapters")
	got, err = Load(cfg, nil)
	if err != nil {
		t.Fatalf("Load(markdown): %v", err)
	}
	if len(got) != 3 {
		t.Errorf("markdown source: got %d cards, want 3", len(got))
	}

	cfg.Source = "yaml"
	if _, err := Load(cfg, nil); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantFM   string
		wantBody string
		hasFM    bool
	}{
		{"none", "# Title\n", "", "# Title\n", false},
		{"basic", "---\ntitle: X\n---\n# Body\n", "title: X\n", "# Body\n", true},
		{"crlf", "---\r\ntitle: X\r\n---\r\nBody", "title: X\n", "Body", true},
		{"unterminated", "---\ntitle: X\n", "", "---\ntitle: X\n", false},
		{"empty", "---\n---\nBody", "", "\nBody", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body := splitFrontMatter([]byte(tt.input))
			if (fm != nil) != tt.hasFM {
				t.Fatalf("front matter present = %v, want %v", fm != nil, tt.hasFM)
			}
			if string(fm) != tt.wantFM {
				t.Errorf("fm = %q, want %q", fm, tt.wantFM)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParseChapterBadFrontMatter(t *testing.T) {
	_, err := parseChapter(goldmark.New(), []byte("---\ntags: {a: b}\n---\n# T\n"))
	if err == nil {
		t.Error("expected error for mapping tags")
	}
}

func TestMatchesIncludeExclude(t *testing.T) {
	if !MatchesInclude("any/path.md", nil) {
		t.Error("empty include should match everything")
	}
	if MatchesExclude("any/path.md", nil) {
		t.Error("empty exclude should match nothing")
	}
	if !MatchesInclude("part1/01.md", []string{"**/*.md"}) {
		t.Error("**/*.md should match nested files")
	}
	if !MatchesExclude("part1/_draft.md", []string{"_*.md"}) {
		t.Error("base name pattern should match nested file")
	}
	if MatchesExclude("part1/intro.md", []string{"drafts/**"}) {
		t.Error("drafts/** should not match other directories")
	}
}
