package plinth

// Action is a tagged request to transition application state. The tag set
// is closed and known to the reducer; an unrecognized tag must leave the
// state unchanged.
type Action struct {
	Type    string
	Payload any
}

// Act builds an Action without a payload.
func Act(actionType string) Action {
	return Action{Type: actionType}
}

// ActWith builds an Action carrying a payload.
func ActWith(actionType string, payload any) Action {
	return Action{Type: actionType, Payload: payload}
}

// Reducer is the pure transition function (state, action) -> state.
//
// A reducer must never mutate its input in place and never perform I/O.
// For an action it does not recognize it returns the input state unchanged,
// which the store treats as "no transition" (no notification).
type Reducer[S any] func(state S, action Action) S

// Reduce folds a reducer over an action sequence, left to right, without a
// store. A store that dispatched the same sequence reports exactly this
// state.
func Reduce[S any](r Reducer[S], initial S, actions ...Action) S {
	state := initial
	for _, a := range actions {
		state = r(state, a)
	}
	return state
}
