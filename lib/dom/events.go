package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Handler is an event callback. Handlers may dispatch further work but must
// not detach the nodes other handlers are attached to mid-delivery.
type Handler func(e *Event)

// Event is delivered to handlers during Fire. It bubbles from the target up
// the parent chain until the document root or StopPropagation.
type Event struct {
	Type   string
	Target *Node
	// Current is the node whose handler is being invoked (the bubbling
	// position), which differs from Target above the originating element.
	Current *Node
	Detail  any

	stopped bool
}

// StopPropagation prevents delivery to ancestors of the current node.
// Handlers already attached to the current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// ListenerHandle identifies one attached handler so it can be removed
// without comparing function values.
type ListenerHandle struct {
	id    int
	node  *html.Node
	event string
}

// Zero reports whether the handle was never issued (or already consumed by
// the caller's own bookkeeping).
func (h ListenerHandle) Zero() bool { return h.node == nil }

// On attaches a handler for the named event and returns its handle.
// The same function may be attached any number of times; each attachment is
// independent.
func (nd *Node) On(event string, h Handler) ListenerHandle {
	d := nd.doc
	byEvent := d.listeners[nd.n]
	if byEvent == nil {
		byEvent = make(map[string][]*listenerEntry)
		d.listeners[nd.n] = byEvent
	}
	d.nextID++
	entry := &listenerEntry{id: d.nextID, handler: h}
	byEvent[event] = append(byEvent[event], entry)
	return ListenerHandle{id: entry.id, node: nd.n, event: event}
}

// Off detaches the handler identified by the handle. Removing a handle that
// is no longer attached is a no-op; the return value reports whether a
// handler was actually removed.
func (nd *Node) Off(h ListenerHandle) bool {
	if h.Zero() {
		return false
	}
	d := nd.doc
	byEvent := d.listeners[h.node]
	if byEvent == nil {
		return false
	}
	entries := byEvent[h.event]
	for i, entry := range entries {
		if entry.id == h.id {
			byEvent[h.event] = append(entries[:i], entries[i+1:]...)
			if len(byEvent[h.event]) == 0 {
				delete(byEvent, h.event)
			}
			if len(byEvent) == 0 {
				delete(d.listeners, h.node)
			}
			return true
		}
	}
	return false
}

// Fire delivers a synthetic event to the node and bubbles it up the parent
// chain. Handler panics are recovered and reported to the document's
// OnError sink; remaining handlers still run.
func (nd *Node) Fire(event string, detail any) {
	e := &Event{Type: event, Target: nd, Detail: detail}
	for n := nd.n; n != nil; n = n.Parent {
		e.Current = &Node{doc: nd.doc, n: n}
		byEvent := nd.doc.listeners[n]
		if byEvent != nil {
			// Snapshot so handlers attaching or detaching during
			// delivery do not affect this pass.
			entries := append([]*listenerEntry(nil), byEvent[event]...)
			for _, entry := range entries {
				invokeHandler(nd.doc, entry.handler, e)
			}
		}
		if e.stopped {
			return
		}
	}
}

func invokeHandler(d *Document, h Handler, e *Event) {
	defer func() {
		if r := recover(); r != nil {
			d.reportError(fmt.Errorf("handler for %q panicked: %v", e.Type, r))
		}
	}()
	h(e)
}
