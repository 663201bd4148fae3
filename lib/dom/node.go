package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// refAttr is the attribute the runtime scans for reference caching.
const refAttr = "data-ref"

// Node is a handle onto one element of a Document's tree. Nodes compare by
// the underlying tree node: two handles obtained separately for the same
// element are interchangeable.
type Node struct {
	doc *Document
	n   *html.Node
}

// Document returns the owning document.
func (nd *Node) Document() *Document { return nd.doc }

// Tag returns the element's tag name (lower case).
func (nd *Node) Tag() string { return nd.n.Data }

// Same reports whether two handles refer to the same underlying element.
func (nd *Node) Same(other *Node) bool {
	return other != nil && nd.n == other.n
}

// Text returns the concatenated text content of the subtree.
func (nd *Node) Text() string {
	var sb strings.Builder
	collectText(nd.n, &sb)
	return sb.String()
}

// SetText replaces the node's children with a single text node.
func (nd *Node) SetText(s string) {
	nd.removeChildren()
	nd.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// Attr returns the value of the named attribute and whether it is present.
func (nd *Node) Attr(key string) (string, bool) {
	for _, a := range nd.n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func (nd *Node) SetAttr(key, val string) {
	for i, a := range nd.n.Attr {
		if a.Key == key {
			nd.n.Attr[i].Val = val
			return
		}
	}
	nd.n.Attr = append(nd.n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present.
func (nd *Node) RemoveAttr(key string) {
	for i, a := range nd.n.Attr {
		if a.Key == key {
			nd.n.Attr = append(nd.n.Attr[:i], nd.n.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the class attribute contains the given class.
func (nd *Node) HasClass(class string) bool {
	raw, _ := nd.Attr("class")
	for _, c := range strings.Fields(raw) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends a class if not already present.
func (nd *Node) AddClass(class string) {
	if nd.HasClass(class) {
		return
	}
	raw, _ := nd.Attr("class")
	if raw == "" {
		nd.SetAttr("class", class)
		return
	}
	nd.SetAttr("class", raw+" "+class)
}

// RemoveClass removes a class if present.
func (nd *Node) RemoveClass(class string) {
	raw, ok := nd.Attr("class")
	if !ok {
		return
	}
	fields := strings.Fields(raw)
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	nd.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass adds the class when absent and removes it when present.
func (nd *Node) ToggleClass(class string) {
	if nd.HasClass(class) {
		nd.RemoveClass(class)
		return
	}
	nd.AddClass(class)
}

// SetClass replaces the class attribute wholesale.
func (nd *Node) SetClass(classes string) {
	nd.SetAttr("class", classes)
}

// SetHTML replaces the node's content with the parsed fragment. This is the
// bulk replacement used once per component mount; listeners attached to the
// replaced subtree are dropped from the document table.
func (nd *Node) SetHTML(markup string) error {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     nd.n.Data,
		DataAtom: atom.Lookup([]byte(nd.n.Data)),
	}
	children, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return err
	}
	nd.removeChildren()
	for _, c := range children {
		nd.n.AppendChild(c)
	}
	return nil
}

// RemoveChildren detaches the node's entire content, dropping any listeners
// attached below it.
func (nd *Node) RemoveChildren() {
	nd.removeChildren()
}

func (nd *Node) removeChildren() {
	for c := nd.n.FirstChild; c != nil; {
		next := c.NextSibling
		nd.doc.dropSubtreeListeners(c)
		nd.n.RemoveChild(c)
		c = next
	}
}

// ByID returns the first descendant with the given id, or nil.
func (nd *Node) ByID(id string) *Node {
	n := findAttr(nd.n, "id", id)
	if n == nil {
		return nil
	}
	return &Node{doc: nd.doc, n: n}
}

// ByRef returns the first descendant carrying data-ref="name", or nil.
// The node itself is included in the scan.
func (nd *Node) ByRef(name string) *Node {
	n := findAttr(nd.n, refAttr, name)
	if n == nil {
		return nil
	}
	return &Node{doc: nd.doc, n: n}
}

// CollectRefs scans the subtree (the node included) and returns every
// data-ref name mapped to its element. On duplicate names the first node in
// document order wins.
func (nd *Node) CollectRefs() map[string]*Node {
	refs := make(map[string]*Node)
	collectRefs(nd.doc, nd.n, refs)
	return refs
}

// HTML serializes the node itself, content included.
func (nd *Node) HTML() string {
	var sb strings.Builder
	if err := html.Render(&sb, nd.n); err != nil {
		return ""
	}
	return sb.String()
}

// InnerHTML serializes only the node's content.
func (nd *Node) InnerHTML() string {
	var sb strings.Builder
	for c := nd.n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return ""
		}
	}
	return sb.String()
}

// Parent returns the parent element, or nil at the top of the tree.
func (nd *Node) Parent() *Node {
	p := nd.n.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	if p == nil {
		return nil
	}
	return &Node{doc: nd.doc, n: p}
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func collectRefs(doc *Document, n *html.Node, refs map[string]*Node) {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == refAttr {
				if _, seen := refs[a.Val]; !seen {
					refs[a.Val] = &Node{doc: doc, n: n}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRefs(doc, c, refs)
	}
}
