package plinth

import (
	"reflect"
	"time"

	"github.com/plinth-ui/plinth/lib/encoding"
)

// JournalEntry records one dispatched action. Applied is false when the
// reducer mapped the action to an unchanged state (unrecognized tag or
// deliberate no-op).
type JournalEntry struct {
	Seq     int
	At      time.Time
	Action  Action
	Applied bool
}

// Journal is an external collaborator that records the action history of a
// store and can replay it. It holds no privileged access: callers route
// dispatches through it, and it talks to the store only via Dispatch and
// State. Useful for time-travel debugging and for reproducing a UI state
// from a bug report.
type Journal[S any] struct {
	store   *Store[S]
	entries []JournalEntry
	seq     int
}

// NewJournal creates a journal recording into the given store.
func NewJournal[S any](store *Store[S]) *Journal[S] {
	return &Journal[S]{store: store}
}

// Dispatch records the action and forwards it to the store.
func (j *Journal[S]) Dispatch(action Action) {
	before := j.store.State()
	j.store.Dispatch(action)
	j.seq++
	j.entries = append(j.entries, JournalEntry{
		Seq:     j.seq,
		At:      time.Now(),
		Action:  action,
		Applied: !reflect.DeepEqual(before, j.store.State()),
	})
}

// Entries returns a copy of the recorded history.
func (j *Journal[S]) Entries() []JournalEntry {
	return append([]JournalEntry(nil), j.entries...)
}

// Applied returns only the actions that produced a state transition, in
// dispatch order. Folding the reducer over these from the initial state
// reproduces the store's current state.
func (j *Journal[S]) Applied() []Action {
	var actions []Action
	for _, e := range j.entries {
		if e.Applied {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

// Replay dispatches the applied history into another store, in order.
// The target is typically a fresh store built from the same initial state
// and reducer.
func (j *Journal[S]) Replay(into *Store[S]) {
	for _, e := range j.entries {
		if e.Applied {
			into.Dispatch(e.Action)
		}
	}
}

// Snapshot encodes the store's current state with the snapshot codec.
func (j *Journal[S]) Snapshot(enc *encoding.Encoder, sensitive bool) (string, error) {
	return enc.EncodeSnapshot(j.store.State(), sensitive)
}

// RestoreSnapshot decodes a snapshot produced by Journal.Snapshot into a
// state value, returning it together with the time it was taken. The caller
// decides how to feed it back in - typically by constructing a store with
// the decoded value as initial state.
func RestoreSnapshot[S any](enc *encoding.Encoder, encoded string, sensitive bool) (S, time.Time, error) {
	var state S
	at, err := enc.DecodeSnapshot(encoded, sensitive, &state)
	return state, at, err
}
