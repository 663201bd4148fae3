package main

import "github.com/plinth-ui/plinth"

// Action tags understood by the reducer. Anything else is a no-op.
const (
	ActionSetLocale   = "set-locale"
	ActionToggleTheme = "toggle-theme"
	ActionToggleMenu  = "toggle-menu"
	ActionIncrement   = "increment"
	ActionReset       = "reset"
)

// AppState is the whole application state. Updates are whole-value
// replacements; nothing mutates fields in place.
type AppState struct {
	Locale   string
	Theme    string
	MenuOpen bool
	Count    int
}

func reduce(s AppState, a plinth.Action) AppState {
	switch a.Type {
	case ActionSetLocale:
		locale, ok := a.Payload.(string)
		if !ok || locale == s.Locale {
			return s
		}
		s.Locale = locale
		return s
	case ActionToggleTheme:
		if s.Theme == "dark" {
			s.Theme = "light"
		} else {
			s.Theme = "dark"
		}
		return s
	case ActionToggleMenu:
		s.MenuOpen = !s.MenuOpen
		return s
	case ActionIncrement:
		s.Count++
		return s
	case ActionReset:
		s.Count = 0
		return s
	default:
		return s
	}
}
