// Package dom provides an in-process HTML document tree with a
// document-scoped event system.
//
// The tree is backed by golang.org/x/net/html nodes. Document owns the
// parsed tree and the listener table; Node is a lightweight handle pairing
// one tree node with its owning document. All mutation goes through Node
// methods (text, attributes, classes, bulk inner-HTML replacement), so the
// package never exposes raw tree surgery to callers.
//
// Events are synthetic: there is no browser. Callers attach handlers with
// Node.On and deliver events with Node.Fire, which bubbles up the parent
// chain until a handler calls StopPropagation. Handlers run isolated - a
// panicking handler is reported to the document's OnError sink and never
// prevents the remaining handlers from running.
//
// The package is not safe for concurrent use. The runtime that hosts it
// drives all mutation from a single goroutine.
package dom
