package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/progress"
)

// frontMatter is the optional YAML header of a chapter file.
type frontMatter struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Difficulty  string  `yaml:"difficulty"`
	Tags        tagList `yaml:"tags"`
}

// tagList accepts either a YAML sequence or a comma-separated string.
type tagList []string

func (t *tagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				*t = append(*t, p)
			}
		}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("tags: expected a string or a list")
	}
}

// ListMarkdown returns the chapter files under dir, relative and slash
// separated, that match include and not exclude. Paths are sorted.
func ListMarkdown(dir string, include, exclude []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && MatchesExclude(rel+"/", exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".md") {
			return nil
		}
		if MatchesInclude(rel, include) && !MatchesExclude(rel, exclude) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking chapters dir: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadMarkdown reads one card per chapter file under dir. Front matter
// fields win; otherwise the first H1 is the title and the first paragraph
// the description. rep may be nil.
func LoadMarkdown(dir string, include, exclude []string, rep progress.Reporter) ([]cards.Card, error) {
	if rep == nil {
		rep = progress.Nop{}
	}

	paths, err := ListMarkdown(dir, include, exclude)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	out := make([]cards.Card, 0, len(paths))

	rep.Start(len(paths))
	for i, rel := range paths {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		c, err := parseChapter(md, content)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", rel, err)
		}
		c.Index = i
		c.Href = mdPathToHTML(rel)
		c.Source = rel
		out = append(out, c)
		rep.Update(i+1, rel)
	}
	rep.Finish()

	return out, nil
}

// parseChapter extracts card fields from a chapter file.
func parseChapter(md goldmark.Markdown, content []byte) (cards.Card, error) {
	var c cards.Card

	fmBytes, body := splitFrontMatter(content)
	if fmBytes != nil {
		var fm frontMatter
		if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
			return c, fmt.Errorf("front matter: %w", err)
		}
		c.Title = fm.Title
		c.Description = fm.Description
		c.Difficulty = fm.Difficulty
		c.Tags = strings.Join(fm.Tags, ",")
	}

	if c.Title != "" && c.Description != "" {
		return c, nil
	}

	doc := md.Parser().Parse(text.NewReader(body))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && c.Title == "" {
				c.Title = nodeText(node, body)
			}
		case *ast.Paragraph:
			if c.Description == "" {
				c.Description = nodeText(node, body)
			}
		}
	}
	return c, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// rest of the file. It returns nil front matter when there is none.
func splitFrontMatter(content []byte) (fm, body []byte) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, content
	}
	rest := normalized[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		return []byte{}, bytes.TrimPrefix(rest, []byte("---"))
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, content
	}
	after := rest[end+len("\n---"):]
	if len(after) > 0 && after[0] != '\n' {
		return nil, content
	}
	return rest[:end+1], bytes.TrimPrefix(after, []byte("\n"))
}

// nodeText returns the plain text of an inline container.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// mdPathToHTML maps a chapter file to the page the site renders for it.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}
