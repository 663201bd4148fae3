package plinth

import "github.com/plinth-ui/plinth/lib/dom"

// Refs maps logical names to cached descendant elements of a mounted
// component. The map is populated once, immediately after the mount render,
// from data-ref attributes in the fresh subtree, and read many times by
// targeted updates and event bindings.
type Refs map[string]*dom.Node

// Get returns the named cached element, or nil when the template never
// declared it.
func (r Refs) Get(name string) *dom.Node {
	return r[name]
}

// Patch is a targeted-update routine for one state field. It mutates only
// the cached element(s) relevant to that field - text content, attributes,
// class list - and must never replace or detach nodes that other cached
// references still point to.
type Patch[S any] func(old, new S, refs Refs)

// Renderer is implemented by components to produce their mount markup.
// Render is called exactly once per mount and must be a pure function of
// the state (plus component-local immutable configuration).
//
// Example:
//
//	func (h *Header) Render(s AppState) string {
//	    return `<h1 data-ref="title">` + h.tr("title") + `</h1>`
//	}
type Renderer[S any] interface {
	Render(state S) string
}

// Patcher is implemented by components that depend on state fields.
// Patches returns the targeted-update table, keyed by state field name; the
// runtime invokes an entry only when that field's value actually changed.
//
// A component whose template uses a field must declare a patch for it.
// Omitting one is a stale-UI bug, not a crash.
type Patcher[S any] interface {
	Patches() map[string]Patch[S]
}

// Binder is implemented by components that attach event handlers. Bind runs
// once per mount, after reference caching, and must route every attachment
// through the registry so teardown can detach them all.
type Binder interface {
	Bind(refs Refs, reg *Registry)
}

// Lifecycle is the surface a parent uses to drive its declared children.
// Component[S] implements it; concrete components gain it by embedding.
type Lifecycle interface {
	Mount() error
	Notify() error
	Destroy() error
}
