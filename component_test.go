package plinth

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plinth-ui/plinth/lib/dom"
)

// widget is a configurable concrete component for lifecycle tests.
type widget struct {
	*Component[testState]
	renderFn func(testState) string
	patchMap map[string]Patch[testState]
	bindFn   func(Refs, *Registry)
}

func (w *widget) Render(s testState) string            { return w.renderFn(s) }
func (w *widget) Patches() map[string]Patch[testState] { return w.patchMap }

func (w *widget) Bind(refs Refs, reg *Registry) {
	if w.bindFn != nil {
		w.bindFn(refs, reg)
	}
}

func newWidget(name string, store *Store[testState], doc *dom.Document, rootID string) *widget {
	w := &widget{
		renderFn: func(s testState) string { return `<span data-ref="x">` + s.Theme + `</span>` },
	}
	w.Component = New(name, store, doc, rootID)
	w.SetImpl(w)
	return w
}

func TestComponentMount(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	w := newWidget("w", store, doc, "app")

	if err := w.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}

	if !w.Mounted() {
		t.Error("Mounted() = false after Mount")
	}
	if got := w.Refs().Get("x"); got == nil {
		t.Fatal("cached ref 'x' missing after mount")
	}
	if got := w.Refs().Get("x").Text(); got != "light" {
		t.Errorf("ref text = %q, want %q", got, "light")
	}
	if got := store.SubscriberCount(); got != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", got)
	}
}

func TestComponentMountErrors(t *testing.T) {
	store := newTestStore()

	t.Run("missing root", func(t *testing.T) {
		doc := TestDocument(TestShell("app"))
		w := newWidget("w", store, doc, "nope")
		err := w.Mount()
		if !errors.Is(err, ErrRootNotFound) {
			t.Errorf("Mount() = %v, want ErrRootNotFound", err)
		}
		if !IsConfigError(err) {
			t.Errorf("IsConfigError(%v) = false", err)
		}
		if w.Mounted() {
			t.Error("half-mounted instance observable after config error")
		}
	})

	t.Run("missing renderer", func(t *testing.T) {
		doc := TestDocument(TestShell("app"))
		c := New[testState]("bare", store, doc, "app")
		// SetImpl never called: no Renderer available.
		if err := c.Mount(); !errors.Is(err, ErrNoRenderer) {
			t.Errorf("Mount() = %v, want ErrNoRenderer", err)
		}
	})

	t.Run("mount twice", func(t *testing.T) {
		doc := TestDocument(TestShell("app"))
		w := newWidget("w", store, doc, "app")
		if err := w.Mount(); err != nil {
			t.Fatalf("first Mount() = %v", err)
		}
		if err := w.Mount(); !errors.Is(err, ErrAlreadyMounted) {
			t.Errorf("second Mount() = %v, want ErrAlreadyMounted", err)
		}
	})
}

// Initial state {Theme: light}: toggling the theme twice must return to the
// initial state, mutate the theme-bound element exactly twice, and never
// touch the locale-bound title node.
func TestTargetedUpdatesTouchOnlyChangedFields(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))

	themeCalls, localeCalls := 0, 0
	w := newWidget("w", store, doc, "app")
	w.renderFn = func(s testState) string {
		return `<h1 data-ref="title">` + s.Locale + `</h1>` +
			`<p data-ref="theme">` + s.Theme + `</p>`
	}
	w.patchMap = map[string]Patch[testState]{
		"Theme": func(old, new testState, refs Refs) {
			themeCalls++
			refs.Get("theme").SetText(new.Theme)
		},
		"Locale": func(old, new testState, refs Refs) {
			localeCalls++
			refs.Get("title").SetText(new.Locale)
		},
	}
	if err := w.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}

	title := w.Refs().Get("title")

	store.Dispatch(Act("toggle-theme"))
	store.Dispatch(Act("toggle-theme"))

	if diff := cmp.Diff(testState{Theme: "light", Locale: "en"}, store.State()); diff != "" {
		t.Errorf("state did not round-trip (-want +got):\n%s", diff)
	}
	if themeCalls != 2 {
		t.Errorf("theme patch calls = %d, want 2", themeCalls)
	}
	if localeCalls != 0 {
		t.Errorf("locale patch calls = %d, want 0", localeCalls)
	}
	if !title.Same(w.Refs().Get("title")) {
		t.Error("title node identity changed across targeted updates")
	}
	if got := title.Text(); got != "en" {
		t.Errorf("title text = %q, want untouched %q", got, "en")
	}
	if got := w.Refs().Get("theme").Text(); got != "light" {
		t.Errorf("theme text = %q, want %q", got, "light")
	}
}

// A patch routine may itself dispatch. The nested notification pass must
// compare against the transition the outer pass already delivered, so the
// nested pass sees only its own transition, each patch fires exactly once,
// and a guarded re-dispatch cannot feed itself the same transition forever.
func TestNestedDispatchFromPatch(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))

	countCalls, themeCalls := 0, 0
	w := newWidget("w", store, doc, "app")
	w.patchMap = map[string]Patch[testState]{
		"Count": func(old, new testState, refs Refs) {
			countCalls++
			// Transition-guarded re-dispatch: re-delivering this same
			// transition to us would recurse without bound.
			if old.Count == 0 && new.Count == 1 {
				store.Dispatch(Act("toggle-theme"))
			}
		},
		"Theme": func(old, new testState, refs Refs) {
			themeCalls++
		},
	}
	if err := w.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}

	store.Dispatch(Act("inc"))

	if countCalls != 1 {
		t.Errorf("count patch calls = %d, want 1", countCalls)
	}
	if themeCalls != 1 {
		t.Errorf("theme patch calls = %d, want 1", themeCalls)
	}

	// A later unrelated transition must not replay the theme change the
	// nested pass already delivered.
	store.Dispatch(Act("inc"))

	if countCalls != 2 {
		t.Errorf("count patch calls = %d, want 2", countCalls)
	}
	if themeCalls != 1 {
		t.Errorf("theme patch calls = %d, want 1 (Theme unchanged since nested dispatch)", themeCalls)
	}
	if diff := cmp.Diff(testState{Count: 2, Theme: "dark", Locale: "en"}, store.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestComponentDestroy(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	w := newWidget("w", store, doc, "app")
	w.bindFn = func(refs Refs, reg *Registry) {
		reg.Register(refs.Get("x"), "click", func(e *dom.Event) {})
	}
	w.patchMap = map[string]Patch[testState]{
		"Count": func(old, new testState, refs Refs) {
			t.Error("patch ran after destroy")
		},
	}
	if err := w.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}
	root := w.Root()

	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy() = %v", err)
	}

	if !w.Destroyed() {
		t.Error("Destroyed() = false")
	}
	if got := w.Registry().Len(); got != 0 {
		t.Errorf("registry Len() = %d, want 0", got)
	}
	if got := doc.ListenerCount(); got != 0 {
		t.Errorf("document ListenerCount() = %d, want 0", got)
	}
	if got := store.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}
	if got := root.InnerHTML(); got != "" {
		t.Errorf("root content after destroy = %q, want empty", got)
	}

	// A dispatch after teardown must not reach the component.
	store.Dispatch(Act("inc"))

	if err := w.Destroy(); err != nil {
		t.Errorf("second Destroy() = %v, want nil no-op", err)
	}
}

func TestComponentLifecycleMisuse(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))

	t.Run("destroy unmounted", func(t *testing.T) {
		w := newWidget("w", store, doc, "app")
		if err := w.Destroy(); !errors.Is(err, ErrNotMounted) {
			t.Errorf("Destroy() = %v, want ErrNotMounted", err)
		}
	})

	t.Run("notify destroyed", func(t *testing.T) {
		w := newWidget("w", store, doc, "app")
		if err := w.Mount(); err != nil {
			t.Fatalf("Mount() = %v", err)
		}
		if err := w.Destroy(); err != nil {
			t.Fatalf("Destroy() = %v", err)
		}
		err := w.Notify()
		if !errors.Is(err, ErrDestroyed) {
			t.Errorf("Notify() = %v, want ErrDestroyed", err)
		}
		if !IsLifecycleError(err) {
			t.Errorf("IsLifecycleError(%v) = false", err)
		}
	})
}

// lifecycleSpy wraps a child and records lifecycle calls in a shared log.
type lifecycleSpy struct {
	inner Lifecycle
	name  string
	log   *[]string
	// onDestroy runs before delegating, while the parent is still intact.
	onDestroy func()
}

func (s *lifecycleSpy) Mount() error {
	*s.log = append(*s.log, "mount:"+s.name)
	return s.inner.Mount()
}

func (s *lifecycleSpy) Notify() error {
	*s.log = append(*s.log, "notify:"+s.name)
	return s.inner.Notify()
}

func (s *lifecycleSpy) Destroy() error {
	*s.log = append(*s.log, "destroy:"+s.name)
	if s.onDestroy != nil {
		s.onDestroy()
	}
	return s.inner.Destroy()
}

func parentChildFixture(t *testing.T, store *Store[testState], doc *dom.Document) (*widget, *widget, *widget) {
	t.Helper()
	parent := newWidget("parent", store, doc, "app")
	parent.renderFn = func(s testState) string {
		return `<div id="left"></div><div id="right"></div>`
	}
	left := newWidget("left", store, doc, "left")
	right := newWidget("right", store, doc, "right")
	return parent, left, right
}

func TestParentChildLifecycleOrder(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	parent, left, right := parentChildFixture(t, store, doc)

	var log []string
	leftSpy := &lifecycleSpy{inner: left, name: "left", log: &log}
	rightSpy := &lifecycleSpy{inner: right, name: "right", log: &log}

	// Child teardown must run while the parent's rendered tree is still
	// alive, so a child can safely reference parent-owned DOM.
	leftSpy.onDestroy = func() {
		if parent.Root().InnerHTML() == "" {
			t.Error("parent root already cleared during child destroy")
		}
	}
	parent.Children(leftSpy, rightSpy)

	if err := parent.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}

	store.Dispatch(Act("inc"))

	if err := parent.Destroy(); err != nil {
		t.Fatalf("Destroy() = %v", err)
	}

	// The store also notified the children directly (they subscribe on
	// mount), so keep only the relative order of the calls we care about.
	var filtered []string
	for _, entry := range log {
		if strings.HasPrefix(entry, "mount:") || strings.HasPrefix(entry, "destroy:") {
			filtered = append(filtered, entry)
		}
	}
	want := []string{"mount:left", "mount:right", "destroy:left", "destroy:right"}
	if diff := cmp.Diff(want, filtered); diff != "" {
		t.Errorf("lifecycle order mismatch (-want +got):\n%s", diff)
	}

	if got := parent.Root().InnerHTML(); got != "" {
		t.Errorf("parent root after destroy = %q, want empty", got)
	}

	// Property: no child notification after its own destroy.
	before := len(log)
	store.Dispatch(Act("inc"))
	for _, entry := range log[before:] {
		if strings.HasPrefix(entry, "notify:") {
			t.Errorf("child notified after destroy: %s", entry)
		}
	}
}

func TestNotifyForwardsParentBeforeChildren(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	parent, left, right := parentChildFixture(t, store, doc)

	var order []string
	patchFor := func(name string) map[string]Patch[testState] {
		return map[string]Patch[testState]{
			"Count": func(old, new testState, refs Refs) {
				order = append(order, name)
			},
		}
	}
	parent.patchMap = patchFor("parent")
	left.patchMap = patchFor("left")
	right.patchMap = patchFor("right")
	parent.Children(left, right)

	if err := parent.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}
	store.Dispatch(Act("inc"))

	want := []string{"parent", "left", "right"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("patch order mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchPanicIsolatedPerComponent(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	parent, left, right := parentChildFixture(t, store, doc)

	var reported []error
	rightRan := false
	left.patchMap = map[string]Patch[testState]{
		"Count": func(old, new testState, refs Refs) { panic("left boom") },
	}
	left.OnError = func(err error) { reported = append(reported, err) }
	right.patchMap = map[string]Patch[testState]{
		"Count": func(old, new testState, refs Refs) { rightRan = true },
	}
	parent.Children(left, right)

	if err := parent.Mount(); err != nil {
		t.Fatalf("Mount() = %v", err)
	}
	store.Dispatch(Act("inc"))

	if !rightRan {
		t.Error("sibling update skipped after another component's patch panicked")
	}
	if len(reported) == 0 || !strings.Contains(reported[0].Error(), "left boom") {
		t.Errorf("reported = %v, want error containing %q", reported, "left boom")
	}
}

func TestMountChildFailureRollsBack(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	parent, left, _ := parentChildFixture(t, store, doc)
	broken := newWidget("broken", store, doc, "missing-root")
	parent.Children(left, broken)

	err := parent.Mount()
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("Mount() = %v, want ErrRootNotFound", err)
	}

	if parent.Mounted() {
		t.Error("parent mounted despite child failure")
	}
	if left.Mounted() {
		t.Error("first child still mounted after rollback")
	}
	if got := store.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0 after rollback", got)
	}
	if got := doc.ListenerCount(); got != 0 {
		t.Errorf("ListenerCount() = %d, want 0 after rollback", got)
	}
}

func TestEventBindingDispatches(t *testing.T) {
	store := newTestStore()
	doc := TestDocument(TestShell("app"))
	w := newWidget("w", store, doc, "app")
	w.renderFn = func(s testState) string {
		return `<span data-ref="count">` + strconv.Itoa(s.Count) + `</span>` +
			`<button data-ref="inc">+</button>`
	}
	w.patchMap = map[string]Patch[testState]{
		"Count": func(old, new testState, refs Refs) {
			refs.Get("count").SetText(strconv.Itoa(new.Count))
		},
	}
	w.bindFn = func(refs Refs, reg *Registry) {
		reg.Register(refs.Get("inc"), "click", func(e *dom.Event) {
			store.Dispatch(Act("inc"))
		})
	}

	res, err := TestMount(w, doc)
	if err != nil {
		t.Fatalf("TestMount() = %v", err)
	}

	res.Click("inc")
	res.Click("inc")

	if got := res.RefText("count"); got != "2" {
		t.Errorf("count text = %q, want %q", got, "2")
	}
}
