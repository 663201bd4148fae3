package plinth

import (
	"fmt"
	"log"
	"reflect"
	"sort"

	"github.com/plinth-ui/plinth/lib/dom"
)

// phase is the lifecycle state of one component instance. The machine is
// one-way: unmounted -> mounted -> destroyed, with destroyed terminal.
type phase int

const (
	phaseUnmounted phase = iota
	phaseMounted
	phaseDestroyed
)

// Component is the base type embedded by concrete components. S is the
// application state type held by the store the component observes.
//
// A component owns one root element (exclusively - nothing else may mutate
// it), a table of cached descendant references populated once per mount, a
// listener registry, a store subscription, and an ordered list of child
// components that never outlive it.
//
// Concrete components embed *Component[S], implement Renderer[S] (required)
// plus optionally Patcher[S] and Binder, and hand themselves back with
// SetImpl so the lifecycle can reach those implementations:
//
//	type Header struct {
//	    *plinth.Component[AppState]
//	    tr i18n.Translator
//	}
//
//	func NewHeader(store *plinth.Store[AppState], doc *dom.Document, tr i18n.Translator) *Header {
//	    h := &Header{tr: tr}
//	    h.Component = plinth.New("header", store, doc, "header")
//	    h.SetImpl(h)
//	    return h
//	}
type Component[S any] struct {
	name     string
	store    *Store[S]
	doc      *dom.Document
	rootID   string
	root     *dom.Node
	refs     Refs
	registry *Registry
	patches  map[string]Patch[S]
	children []Lifecycle
	impl     any

	unsubscribe func()
	prev        S
	phase       phase

	// OnError receives failures confined to this component: a panicking
	// targeted-update routine, a child that rejects a forwarded
	// notification, a child teardown error. Reporting here is what keeps
	// one component's failure from halting the rest of the notification
	// pass. Defaults to the standard logger.
	OnError func(err error)
}

// New creates an unmounted component bound to a store, a document, and the
// id of the root element it will own. A leading "#" on rootID is accepted
// and stripped.
func New[S any](name string, store *Store[S], doc *dom.Document, rootID string) *Component[S] {
	if len(rootID) > 0 && rootID[0] == '#' {
		rootID = rootID[1:]
	}
	return &Component[S]{
		name:     name,
		store:    store,
		doc:      doc,
		rootID:   rootID,
		registry: NewRegistry(),
		OnError: func(err error) {
			log.Printf("plinth: component error: %v", err)
		},
	}
}

// SetImpl hands the concrete component (the type embedding this) back to
// the base so Mount can reach its Renderer, Patcher and Binder
// implementations. Called once, from the concrete constructor.
func (c *Component[S]) SetImpl(impl any) {
	c.impl = impl
}

// Children declares child components, in mount order. The parent owns them
// exclusively: it mounts them after its own mount completes, forwards every
// notification to them, and destroys them before tearing itself down.
// Children may only be declared before Mount.
func (c *Component[S]) Children(children ...Lifecycle) {
	if c.phase != phaseUnmounted {
		panic(fmt.Sprintf("plinth: %s: children declared after mount", c.name))
	}
	c.children = append(c.children, children...)
}

// Name returns the component's name.
func (c *Component[S]) Name() string { return c.name }

// Root returns the owned root element. Nil before the first Mount.
func (c *Component[S]) Root() *dom.Node { return c.root }

// Refs returns the cached reference table. Nil unless mounted.
func (c *Component[S]) Refs() Refs { return c.refs }

// Registry returns the component's listener registry.
func (c *Component[S]) Registry() *Registry { return c.registry }

// Store returns the store the component observes.
func (c *Component[S]) Store() *Store[S] { return c.store }

// Mounted reports whether the component is live.
func (c *Component[S]) Mounted() bool { return c.phase == phaseMounted }

// Destroyed reports whether the component has been torn down.
func (c *Component[S]) Destroyed() bool { return c.phase == phaseDestroyed }

// Mount renders the component into its root element and brings it live.
// Valid only from the unmounted state.
//
// The sequence is fixed: one bulk markup render of the template against the
// current state, reference caching (data-ref scan of the fresh subtree),
// event binding through the registry, store subscription with the mount
// state recorded as "previous", then children in declaration order.
// Children mount after the parent so their cached references never point
// into markup the parent is about to replace.
//
// Configuration errors - missing root element, missing renderer, template
// output that does not parse - abort the mount and leave the instance
// unmounted; a failing child mount rolls back everything mounted so far.
func (c *Component[S]) Mount() error {
	switch c.phase {
	case phaseMounted:
		return fmt.Errorf("%w: %s", ErrAlreadyMounted, c.name)
	case phaseDestroyed:
		return fmt.Errorf("%w: %s", ErrDestroyed, c.name)
	}

	renderer, ok := c.impl.(Renderer[S])
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRenderer, c.name)
	}
	root := c.doc.ByID(c.rootID)
	if root == nil {
		return fmt.Errorf("%w: #%s (component %s)", ErrRootNotFound, c.rootID, c.name)
	}
	c.root = root

	state := c.store.State()
	if err := root.SetHTML(renderer.Render(state)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadTemplate, c.name, err)
	}
	c.refs = Refs(root.CollectRefs())

	if binder, ok := c.impl.(Binder); ok {
		binder.Bind(c.refs, c.registry)
	}
	if patcher, ok := c.impl.(Patcher[S]); ok {
		c.patches = patcher.Patches()
	}

	c.prev = state
	c.unsubscribe = c.store.Subscribe(func() {
		if err := c.Notify(); err != nil {
			c.reportError(err)
		}
	})

	for i, child := range c.children {
		if err := child.Mount(); err != nil {
			c.rollbackMount(i)
			return fmt.Errorf("mount child of %s: %w", c.name, err)
		}
	}

	c.phase = phaseMounted
	return nil
}

// rollbackMount undoes a partially completed Mount after child i failed, so
// no half-mounted instance is observable.
func (c *Component[S]) rollbackMount(mounted int) {
	for j := mounted - 1; j >= 0; j-- {
		if err := c.children[j].Destroy(); err != nil {
			c.reportError(fmt.Errorf("rollback %s: %w", c.name, err))
		}
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.registry.Clear()
	c.root.RemoveChildren()
	c.refs = nil
	c.patches = nil
}

// Notify applies targeted updates for every state field whose value changed
// since the previous notification, then forwards to the children in
// declaration order. Invoked by the store subscription; parents also
// forward it so children observe changes in parent-before-child order.
//
// Reaching a destroyed or unmounted instance is a lifecycle-ordering bug
// upstream and is reported as an error rather than ignored. A panicking
// update routine, or a child that returns an error, is reported to OnError
// and does not stop the remaining updates or siblings.
func (c *Component[S]) Notify() error {
	switch c.phase {
	case phaseDestroyed:
		return fmt.Errorf("%w: %s: notify after destroy", ErrDestroyed, c.name)
	case phaseUnmounted:
		return fmt.Errorf("%w: %s: notify before mount", ErrNotMounted, c.name)
	}

	// Commit the snapshot before running any patch: a patch routine may
	// dispatch, re-entering Notify, and the nested pass must compare
	// against this transition's result, not the snapshot that preceded it.
	// Otherwise the nested pass would re-deliver the same transition.
	prev := c.prev
	cur := c.store.State()
	c.prev = cur
	for _, field := range c.changed(prev, cur) {
		if patch, ok := c.patches[field]; ok {
			c.runPatch(field, patch, prev, cur)
		}
	}

	for _, child := range c.children {
		if err := child.Notify(); err != nil {
			c.reportError(fmt.Errorf("%s: forward notify: %w", c.name, err))
		}
	}
	return nil
}

// changed returns the names of state fields whose value differs between the
// previous snapshot and cur, in declaration order of the state struct.
// Non-struct state types degrade to whole-value comparison: when the value
// changed, every declared patch runs, in sorted key order.
func (c *Component[S]) changed(prev, cur S) []string {
	fields, ok := diffFields(prev, cur)
	if ok {
		return fields
	}
	if reflect.DeepEqual(prev, cur) {
		return nil
	}
	all := make([]string, 0, len(c.patches))
	for name := range c.patches {
		all = append(all, name)
	}
	sort.Strings(all)
	return all
}

func (c *Component[S]) runPatch(field string, patch Patch[S], prev, cur S) {
	defer func() {
		if r := recover(); r != nil {
			c.reportError(fmt.Errorf("%s: patch %q panicked: %v", c.name, field, r))
		}
	}()
	patch(prev, cur, c.refs)
}

// Destroy tears the component down: children first (declaration order),
// then the store subscription, then every registered listener, then the
// rendered content of the root element. The transition is one-way; cached
// references and the subscription handle are invalid afterwards.
//
// Destroying an unmounted instance is a programming error and returns
// ErrNotMounted. Destroying twice is a safe no-op the second time.
func (c *Component[S]) Destroy() error {
	switch c.phase {
	case phaseDestroyed:
		return nil
	case phaseUnmounted:
		return fmt.Errorf("%w: %s: destroy before mount", ErrNotMounted, c.name)
	}

	for _, child := range c.children {
		if err := child.Destroy(); err != nil {
			c.reportError(fmt.Errorf("%s: destroy child: %w", c.name, err))
		}
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.registry.Clear()
	c.root.RemoveChildren()
	c.refs = nil
	c.patches = nil
	c.phase = phaseDestroyed
	return nil
}

func (c *Component[S]) reportError(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

// diffFields compares two state values field by field when they are structs
// (or pointers to structs), returning the changed exported field names in
// struct declaration order. The second result is false when the state type
// is not a struct and per-field comparison is impossible.
func diffFields[S any](old, cur S) ([]string, bool) {
	ov := reflect.ValueOf(old)
	nv := reflect.ValueOf(cur)
	for ov.Kind() == reflect.Pointer {
		if ov.IsNil() || nv.IsNil() {
			return nil, false
		}
		ov = ov.Elem()
		nv = nv.Elem()
	}
	if ov.Kind() != reflect.Struct {
		return nil, false
	}

	var fields []string
	t := ov.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if !reflect.DeepEqual(ov.Field(i).Interface(), nv.Field(i).Interface()) {
			fields = append(fields, f.Name)
		}
	}
	return fields, true
}
