// Package catalog builds the card snapshot the filter runs over, either by
// scraping a rendered index page or by reading chapter markdown files.
package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/docsearch/internal/cards"
)

// Class names and attributes used by the rendered index page.
const (
	cardClass        = "chapter-card"
	titleClass       = "chapter-title"
	descriptionClass = "chapter-description"
	difficultyClass  = "difficulty"
	tagsAttr         = "data-tags"
)

// LoadHTMLFile scrapes the cards of the index page at path.
func LoadHTMLFile(path string) ([]cards.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index page: %w", err)
	}
	defer f.Close()

	return LoadHTML(f, path)
}

// LoadHTML scrapes every .chapter-card element from r, in document order.
// Parts missing from a card are left empty.
func LoadHTML(r io.Reader, source string) ([]cards.Card, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing index page: %w", err)
	}

	var out []cards.Card
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, cardClass) {
			out = append(out, scrapeCard(n, len(out), source))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return out, nil
}

func scrapeCard(n *html.Node, index int, source string) cards.Card {
	c := cards.Card{
		Index:  index,
		Tags:   attr(n, tagsAttr),
		Source: source,
	}
	if el := findByClass(n, titleClass); el != nil {
		c.Title = textContent(el)
	}
	if el := findByClass(n, descriptionClass); el != nil {
		c.Description = textContent(el)
	}
	if el := findByClass(n, difficultyClass); el != nil {
		c.Difficulty = textContent(el)
	}
	c.Href = attr(n, "href")
	if c.Href == "" {
		if a := find(n, func(x *html.Node) bool { return x.Type == html.ElementNode && x.Data == "a" && attr(x, "href") != "" }); a != nil {
			c.Href = attr(a, "href")
		}
	}
	return c
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// find returns the first descendant of n (excluding n) satisfying pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findByClass(n *html.Node, class string) *html.Node {
	return find(n, func(x *html.Node) bool {
		return x.Type == html.ElementNode && hasClass(x, class)
	})
}

// textContent returns the concatenated text below n with whitespace runs
// collapsed, as the page displays it.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		switch x.Type {
		case html.TextNode:
			b.WriteString(x.Data)
		case html.ElementNode:
			if x.Data == "script" || x.Data == "style" {
				return
			}
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
