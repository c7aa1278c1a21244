package entity

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page whose elements can be written to concurrently.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// ParseDocument parses an HTML page.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// QuerySelector returns the first element matching selector, which is either
// a tag name ("code") or an id ("#output").
func (d *Document) QuerySelector(selector string) (Element, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrElementNotFound)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	match := func(n *html.Node) bool {
		if id, ok := strings.CutPrefix(selector, "#"); ok {
			return attr(n, "id") == id
		}
		return strings.EqualFold(n.Data, selector)
	}

	if n := find(d.root, match); n != nil {
		return &nodeElement{doc: d, node: n}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrElementNotFound, selector)
}

// Render writes the current state of the page as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeElement writes text content into a node of a Document.
type nodeElement struct {
	doc  *Document
	node *html.Node
}

func (e *nodeElement) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *nodeElement) AppendText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *nodeElement) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var b strings.Builder
	collectText(e.node, &b)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
