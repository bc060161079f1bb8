package scripts

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractScript returns the whitespace-normalized script text from an archive
// script page. It prefers the td.scrtext cell, then the first <pre>, then the
// whole <body>. An empty string means the page carried no text.
func ExtractScript(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse script page: %w", err)
	}
	node := findFirst(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Td && hasClass(n, "scrtext")
	})
	if node == nil {
		node = findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Pre })
	}
	if node == nil {
		node = findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	}
	if node == nil {
		return "", nil
	}
	return normalizeWhitespace(textContent(node)), nil
}

// IndexEntry is one script listed on the archive's all-scripts page.
type IndexEntry struct {
	Title    string
	Director string
}

// Line renders the entry in the "Title | Director" form used by the titles file.
func (e IndexEntry) Line() string {
	return e.Title + " | " + e.Director
}

const unknownDirector = "Unknown"

// ParseTitleIndex extracts every paragraph holding a linked title from the
// all-scripts page. Paragraphs without an <i> director credit get "Unknown".
func ParseTitleIndex(r io.Reader) ([]IndexEntry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse title index: %w", err)
	}
	var entries []IndexEntry
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.P {
			return true
		}
		link := findFirst(n, func(c *html.Node) bool { return c.DataAtom == atom.A })
		if link == nil {
			return false
		}
		title := normalizeWhitespace(textContent(link))
		if title == "" {
			return false
		}
		director := unknownDirector
		if credit := findFirst(n, func(c *html.Node) bool { return c.DataAtom == atom.I }); credit != nil {
			if text := normalizeWhitespace(textContent(credit)); text != "" {
				director = text
			}
		}
		entries = append(entries, IndexEntry{Title: title, Director: director})
		return false
	})
	return entries, nil
}

// walk visits n depth-first; visit returning false skips the node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, field := range strings.Fields(attr.Val) {
			if field == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style):
			return false
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
