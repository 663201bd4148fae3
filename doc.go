// Package plinth is a minimal reactive UI runtime: a single controlled
// state container plus a component lifecycle that renders once into an HTML
// node tree and thereafter applies field-targeted updates. It is not a
// virtual DOM - components declare which cached element each state field
// affects, and only those elements are touched when that field changes.
//
// # Core Concepts
//
// Store[S] holds the one live application state value. The only way to
// change it is Dispatch(action): a pure reducer computes the next whole
// state, and if it differs from the current one, every subscriber is
// notified synchronously, in registration order, before Dispatch returns.
// A reducer result equal to the current state produces zero notifications;
// an unrecognized action tag is a no-op, never an error.
//
// Components embed *Component[S] and implement a small capability set:
//
//   - Renderer[S] (required): Render(state) produces the mount markup,
//     exactly once per mount.
//   - Patcher[S]: Patches() maps state field names to targeted-update
//     routines run only when that field's value changed.
//   - Binder: Bind(refs, registry) attaches event handlers, every one of
//     them through the registry so teardown can detach them all.
//
// The lifecycle is a one-way machine: unmounted -> mounted -> destroyed.
// Mount performs the single bulk render, caches data-ref descendants,
// binds events, subscribes to the store, and then mounts declared children
// in order. Destroy tears down children first, then the subscription, then
// the listeners, then the rendered content - deterministically and
// synchronously, so no handler or subscription outlives its component.
//
// # Targeted Updates
//
// On each accepted transition a mounted component compares the previous
// state snapshot against the current state field by field (value equality)
// and invokes the declared patch for each changed field. Patches mutate
// only cached elements - text, attributes, classes - and never replace or
// detach nodes other cached references point to. This trades one routine
// per observed field for O(changed fields) update cost, preserved
// focus/scroll state, and zero listener churn after mount.
//
// # Error Handling
//
// Mount-time configuration problems (missing root, missing renderer,
// unparsable template output) abort the mount and return to the caller;
// IsConfigError recognizes them. Lifecycle misuse - destroying an
// unmounted component, notifying a destroyed one - is reported, not
// swallowed; IsLifecycleError recognizes it. Failures inside subscribers,
// event handlers and patch routines are isolated at the component boundary
// and routed to OnError sinks so one broken component cannot stall the
// rest of a notification pass.
//
// # Concurrency
//
// The runtime is single-threaded by contract: dispatches, notifications
// and DOM mutations all run on one goroutine, and Dispatch is synchronous
// end to end. Nested dispatches from inside a notification complete fully
// before the outer pass resumes; WithMaxDepth installs an optional
// fail-fast guard against dispatch cycles.
//
// # Supporting Packages
//
// lib/dom hosts the HTML node tree and the synthetic event system.
// lib/encoding serializes signed or encrypted state snapshots for external
// persistence collaborators. lib/i18n supplies translator functions that
// templates interpolate as opaque strings. Journal records and replays
// action histories. TemplRenderer adapts templ views to the Renderer
// contract.
package plinth
