package plinth

import "github.com/plinth-ui/plinth/lib/dom"

// ListenerRecord is one (target, event, handler) attachment owned by a
// component. Records exist so teardown can detach every handler the
// component ever bound, in one call, without relying on the target being
// garbage collected.
type ListenerRecord struct {
	Node   *dom.Node
	Event  string
	handle dom.ListenerHandle
}

// Registry tracks every event listener a component attaches during its
// lifetime. All attachment must route through Register; Clear is the only
// bulk-removal path and detaches each record exactly once.
type Registry struct {
	records []ListenerRecord
}

// NewRegistry creates an empty listener registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register attaches the handler to the node for the named event and stores
// the record for later bulk removal.
func (r *Registry) Register(node *dom.Node, event string, h dom.Handler) {
	handle := node.On(event, h)
	r.records = append(r.records, ListenerRecord{
		Node:   node,
		Event:  event,
		handle: handle,
	})
}

// Clear detaches every stored record from its target and empties the
// registry. Safe to call when already empty; a second Clear holds no
// records and therefore detaches nothing.
func (r *Registry) Clear() {
	for _, rec := range r.records {
		rec.Node.Off(rec.handle)
	}
	r.records = nil
}

// Len reports the number of records currently held.
func (r *Registry) Len() int {
	return len(r.records)
}
