package dom

import (
	"log"
	"strings"

	"golang.org/x/net/html"
)

// Document owns one parsed HTML tree and the listener table for every node
// in it. Construct one per mounted application (or per test).
type Document struct {
	root      *html.Node // html.Parse document node
	listeners map[*html.Node]map[string][]*listenerEntry
	nextID    int

	// OnError receives panics recovered from event handlers. The default
	// sink writes to the standard logger. Replace it to route handler
	// failures into application diagnostics.
	OnError func(err error)
}

type listenerEntry struct {
	id      int
	handler Handler
}

// Parse builds a Document from an HTML shell. The markup is parsed with
// full HTML5 semantics, so <html>, <head> and <body> are implied when
// absent.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]*listenerEntry),
		OnError: func(err error) {
			log.Printf("dom: event handler failed: %v", err)
		},
	}, nil
}

// Body returns the document's <body> element, or nil for a tree with no
// body (which html.Parse does not produce in practice).
func (d *Document) Body() *Node {
	n := findElement(d.root, "body")
	if n == nil {
		return nil
	}
	return &Node{doc: d, n: n}
}

// ByID returns the first element with the given id attribute, or nil.
func (d *Document) ByID(id string) *Node {
	n := findAttr(d.root, "id", id)
	if n == nil {
		return nil
	}
	return &Node{doc: d, n: n}
}

// ByRef returns the first element carrying data-ref="name", or nil.
func (d *Document) ByRef(name string) *Node {
	n := findAttr(d.root, refAttr, name)
	if n == nil {
		return nil
	}
	return &Node{doc: d, n: n}
}

// HTML serializes the whole document.
func (d *Document) HTML() string {
	var sb strings.Builder
	if err := html.Render(&sb, d.root); err != nil {
		return ""
	}
	return sb.String()
}

// ListenerCount reports the number of handlers currently attached anywhere
// in the document. Diagnostic aid for leak checks in tests.
func (d *Document) ListenerCount() int {
	total := 0
	for _, byEvent := range d.listeners {
		for _, entries := range byEvent {
			total += len(entries)
		}
	}
	return total
}

func (d *Document) reportError(err error) {
	if d.OnError != nil {
		d.OnError(err)
	}
}

// dropSubtreeListeners removes every listener attached to n or any of its
// descendants. Called when a subtree is detached so the table never holds
// handlers for unreachable nodes.
func (d *Document) dropSubtreeListeners(n *html.Node) {
	delete(d.listeners, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.dropSubtreeListeners(c)
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAttr(n *html.Node, key, val string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == key && a.Val == val {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAttr(c, key, val); found != nil {
			return found
		}
	}
	return nil
}
