package plinth

import (
	"strings"

	"github.com/plinth-ui/plinth/lib/dom"
)

// TestResult holds a mounted component tree and its host document for
// assertion in tests.
//
// Provides convenience methods for inspecting rendered HTML, cached
// references, and for driving the UI through synthetic events.
type TestResult struct {
	Doc *dom.Document
}

// TestShell builds a minimal HTML document containing one empty div per
// root id, in order. Use it to host components in tests:
//
//	doc := plinth.TestDocument(plinth.TestShell("app", "sidebar"))
func TestShell(rootIDs ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, id := range rootIDs {
		sb.WriteString(`<div id="` + id + `"></div>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// TestDocument parses an HTML shell, panicking on malformed input. Test
// helper only; production callers use dom.Parse and handle the error.
func TestDocument(shell string) *dom.Document {
	doc, err := dom.Parse(shell)
	if err != nil {
		panic("plinth: bad test shell: " + err.Error())
	}
	return doc
}

// TestMount mounts a component tree and returns a TestResult for
// assertions. The error is the mount error, if any.
//
//	res, err := plinth.TestMount(comp, doc)
//	if !res.HTMLContains("expected text") {
//	    t.Fatal("missing expected content")
//	}
func TestMount(c Lifecycle, doc *dom.Document) (*TestResult, error) {
	if err := c.Mount(); err != nil {
		return nil, err
	}
	return &TestResult{Doc: doc}, nil
}

// HTML returns the full serialized document.
func (tr *TestResult) HTML() string {
	return tr.Doc.HTML()
}

// HTMLContains reports whether the serialized document contains the
// fragment.
func (tr *TestResult) HTMLContains(fragment string) bool {
	return strings.Contains(tr.Doc.HTML(), fragment)
}

// RefText returns the text content of the first element in the document
// carrying data-ref="name", or "" when absent.
func (tr *TestResult) RefText(name string) string {
	n := tr.Doc.ByRef(name)
	if n == nil {
		return ""
	}
	return n.Text()
}

// Click fires a synthetic click event on the element with the given
// data-ref name. Returns false when no such element exists.
func (tr *TestResult) Click(refName string) bool {
	n := tr.Doc.ByRef(refName)
	if n == nil {
		return false
	}
	n.Fire("click", nil)
	return true
}

// Fire delivers an arbitrary synthetic event to the named reference.
func (tr *TestResult) Fire(refName, event string, detail any) bool {
	n := tr.Doc.ByRef(refName)
	if n == nil {
		return false
	}
	n.Fire(event, detail)
	return true
}

// CountingListener returns a store listener and a pointer to its call
// count. Use it to assert on notification fan-out:
//
//	fn, calls := plinth.CountingListener()
//	unsub := store.Subscribe(fn)
func CountingListener() (func(), *int) {
	count := new(int)
	return func() { *count++ }, count
}
