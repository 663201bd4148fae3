package plinth

import (
	"fmt"
	"log"
	"reflect"
)

// Store holds the single live application state value and is its only
// mutator. Transitions are whole-value replacements computed by the reducer
// from dispatched actions; readers observe either the old or the new value,
// never a partial mix.
//
// A Store is single-threaded by contract: every Dispatch, Subscribe and
// State call happens on the one goroutine that drives the UI. Nested
// Dispatch calls made from inside a notification complete fully, via the
// call stack, before the outer pass resumes.
//
// Construct one store per application at startup. Tests construct fresh
// isolated instances instead of sharing one.
type Store[S any] struct {
	state    S
	reducer  Reducer[S]
	subs     []*subscription
	equal    func(a, b S) bool
	depth    int
	maxDepth int

	// OnError receives failures recovered from subscriber callbacks during
	// a notification pass. One subscriber's failure never prevents the
	// remaining subscribers from observing the transition; the error is
	// reported here and Dispatch returns normally. The default sink writes
	// to the standard logger.
	OnError func(err error)
}

type subscription struct {
	fn      func()
	removed bool
}

// StoreOption configures a Store at construction.
type StoreOption[S any] func(*Store[S])

// WithEqual overrides the no-change detector. The default compares states
// with reflect.DeepEqual; pointer-typed states can use reference identity:
//
//	plinth.WithEqual(func(a, b *AppState) bool { return a == b })
func WithEqual[S any](equal func(a, b S) bool) StoreOption[S] {
	return func(s *Store[S]) { s.equal = equal }
}

// WithMaxDepth installs a re-entrancy guard: a chain of nested dispatches
// deeper than n panics, before the over-budget transition is applied,
// instead of recursing without bound. Zero (the default) disables the
// guard; a dispatch cycle is a caller bug either way.
func WithMaxDepth[S any](n int) StoreOption[S] {
	return func(s *Store[S]) { s.maxDepth = n }
}

// WithOnError replaces the default error sink for subscriber failures.
func WithOnError[S any](sink func(err error)) StoreOption[S] {
	return func(s *Store[S]) { s.OnError = sink }
}

// NewStore creates a store with the given initial state and reducer.
func NewStore[S any](initial S, reducer Reducer[S], opts ...StoreOption[S]) *Store[S] {
	s := &Store[S]{
		state:   initial,
		reducer: reducer,
		equal: func(a, b S) bool {
			return reflect.DeepEqual(a, b)
		},
		OnError: func(err error) {
			log.Printf("plinth: subscriber failed: %v", err)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current application state. O(1), never blocks.
func (s *Store[S]) State() S {
	return s.state
}

// Dispatch runs the reducer and, if the result differs from the current
// state, stores it and synchronously notifies every subscriber in
// registration order before returning. A reducer result equal to the
// current state produces zero notifications.
//
// Subscribers added or removed during the pass take effect starting with
// the next dispatch: the pass iterates a snapshot of the subscriber set.
func (s *Store[S]) Dispatch(action Action) {
	next := s.reducer(s.state, action)
	if s.equal(s.state, next) {
		return
	}

	// The guard trips before the transition is applied: an over-budget
	// dispatch changes nothing, so state and subscribers stay consistent.
	if s.maxDepth > 0 && s.depth >= s.maxDepth {
		panic(fmt.Sprintf("plinth: dispatch depth exceeded %d (dispatch cycle?)", s.maxDepth))
	}
	s.state = next

	s.depth++
	defer func() { s.depth-- }()

	snapshot := append([]*subscription(nil), s.subs...)
	for _, sub := range snapshot {
		s.invoke(sub)
	}
}

func (s *Store[S]) invoke(sub *subscription) {
	defer func() {
		if r := recover(); r != nil {
			if s.OnError != nil {
				s.OnError(fmt.Errorf("subscriber panicked: %v", r))
			}
		}
	}()
	sub.fn()
}

// Subscribe registers a listener invoked after every accepted transition
// and returns its unsubscribe function. Calling unsubscribe more than once
// is a safe no-op. Subscribing the same function twice registers it twice.
func (s *Store[S]) Subscribe(listener func()) (unsubscribe func()) {
	sub := &subscription{fn: listener}
	s.subs = append(s.subs, sub)
	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		for i, candidate := range s.subs {
			if candidate == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SubscriberCount reports the number of live subscriptions. Diagnostic aid
// for teardown checks in tests.
func (s *Store[S]) SubscriberCount() int {
	return len(s.subs)
}
