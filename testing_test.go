package plinth

import (
	"strings"
	"testing"
)

func TestTestShell(t *testing.T) {
	shell := TestShell("app", "sidebar")
	for _, want := range []string{`<div id="app"></div>`, `<div id="sidebar"></div>`} {
		if !strings.Contains(shell, want) {
			t.Errorf("TestShell missing %q in %q", want, shell)
		}
	}
}

func TestTestResultHelpers(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	w := newWidget("w", store, doc, "app")

	res, err := TestMount(w, doc)
	if err != nil {
		t.Fatalf("TestMount() = %v", err)
	}

	if !res.HTMLContains(`data-ref="x"`) {
		t.Errorf("HTMLContains(data-ref) = false; html = %s", res.HTML())
	}
	if got := res.RefText("x"); got != "light" {
		t.Errorf("RefText() = %q, want %q", got, "light")
	}
	if res.RefText("nope") != "" {
		t.Error("RefText() on missing ref should be empty")
	}
	if res.Click("nope") {
		t.Error("Click() on missing ref should report false")
	}
	if !res.Fire("x", "focus", nil) {
		t.Error("Fire() on existing ref should report true")
	}
}

func TestTestMountPropagatesError(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	w := newWidget("w", store, doc, "missing")

	if _, err := TestMount(w, doc); err == nil {
		t.Error("TestMount() = nil error for missing root")
	}
}
