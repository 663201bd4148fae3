package main

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/plinth-ui/plinth"
	"github.com/plinth-ui/plinth/lib/dom"
	"github.com/plinth-ui/plinth/lib/i18n"
)

// App owns the page frame and mounts the feature components as children.
type App struct {
	*plinth.Component[AppState]
}

func NewApp(store *plinth.Store[AppState], doc *dom.Document, catalog *i18n.Catalog) *App {
	a := &App{}
	a.Component = plinth.New("app", store, doc, "app")
	a.SetImpl(a)
	a.Children(
		NewHeader(store, doc, catalog),
		NewCounter(store, doc),
		NewMenu(store, doc, catalog),
	)
	return a
}

func (a *App) Render(s AppState) string {
	return `<div id="header"></div><div id="counter"></div><div id="menu"></div>`
}

// Header shows the translated title and carries the theme class. Its view
// is a templ component adapted through TemplRenderer.
type Header struct {
	*plinth.Component[AppState]
	view    plinth.Renderer[AppState]
	catalog *i18n.Catalog
}

func NewHeader(store *plinth.Store[AppState], doc *dom.Document, catalog *i18n.Catalog) *Header {
	h := &Header{catalog: catalog}
	h.Component = plinth.New("header", store, doc, "header")
	h.view = plinth.TemplRenderer(headerView(catalog))
	h.SetImpl(h)
	return h
}

func (h *Header) Render(s AppState) string {
	return h.view.Render(s)
}

func (h *Header) Patches() map[string]plinth.Patch[AppState] {
	return map[string]plinth.Patch[AppState]{
		"Locale": func(old, new AppState, refs plinth.Refs) {
			tr := h.catalog.Translator(new.Locale)
			refs.Get("title").SetText(tr("app.title"))
		},
		"Theme": func(old, new AppState, refs plinth.Refs) {
			frame := refs.Get("frame")
			frame.RemoveClass("theme-" + old.Theme)
			frame.AddClass("theme-" + new.Theme)
		},
	}
}

func headerView(catalog *i18n.Catalog) func(AppState) templ.Component {
	return func(s AppState) templ.Component {
		tr := catalog.Translator(s.Locale)
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, `<header data-ref="frame" class="theme-`+s.Theme+`"><h1 `); err != nil {
				return err
			}
			if err := templ.RenderAttributes(ctx, w, plinth.RefAttrs("title")); err != nil {
				return err
			}
			_, err := io.WriteString(w, `>`+tr("app.title")+`</h1></header>`)
			return err
		})
	}
}

// Counter increments on click. One cached element per concern: the count
// text and the two buttons.
type Counter struct {
	*plinth.Component[AppState]
}

func NewCounter(store *plinth.Store[AppState], doc *dom.Document) *Counter {
	c := &Counter{}
	c.Component = plinth.New("counter", store, doc, "counter")
	c.SetImpl(c)
	return c
}

func (c *Counter) Render(s AppState) string {
	return `<div class="counter">` +
		`<span data-ref="count">` + strconv.Itoa(s.Count) + `</span>` +
		`<button data-ref="inc">+1</button>` +
		`<button data-ref="reset">0</button>` +
		`</div>`
}

func (c *Counter) Patches() map[string]plinth.Patch[AppState] {
	return map[string]plinth.Patch[AppState]{
		"Count": func(old, new AppState, refs plinth.Refs) {
			refs.Get("count").SetText(strconv.Itoa(new.Count))
		},
	}
}

func (c *Counter) Bind(refs plinth.Refs, reg *plinth.Registry) {
	reg.Register(refs.Get("inc"), "click", func(e *dom.Event) {
		c.Store().Dispatch(plinth.Act(ActionIncrement))
	})
	reg.Register(refs.Get("reset"), "click", func(e *dom.Event) {
		c.Store().Dispatch(plinth.Act(ActionReset))
	})
}

// Menu toggles open/closed and switches the locale.
type Menu struct {
	*plinth.Component[AppState]
	catalog *i18n.Catalog
}

func NewMenu(store *plinth.Store[AppState], doc *dom.Document, catalog *i18n.Catalog) *Menu {
	m := &Menu{catalog: catalog}
	m.Component = plinth.New("menu", store, doc, "menu")
	m.SetImpl(m)
	return m
}

func menuClass(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

func (m *Menu) Render(s AppState) string {
	tr := m.catalog.Translator(s.Locale)
	return `<nav data-ref="nav" class="menu ` + menuClass(s.MenuOpen) + `">` +
		`<button data-ref="toggle">` + tr("menu.toggle") + `</button>` +
		`<button data-ref="lang-en">English</button>` +
		`<button data-ref="lang-fr">Français</button>` +
		`</nav>`
}

func (m *Menu) Patches() map[string]plinth.Patch[AppState] {
	return map[string]plinth.Patch[AppState]{
		"MenuOpen": func(old, new AppState, refs plinth.Refs) {
			nav := refs.Get("nav")
			nav.RemoveClass(menuClass(old.MenuOpen))
			nav.AddClass(menuClass(new.MenuOpen))
		},
		"Locale": func(old, new AppState, refs plinth.Refs) {
			tr := m.catalog.Translator(new.Locale)
			refs.Get("toggle").SetText(tr("menu.toggle"))
		},
	}
}

func (m *Menu) Bind(refs plinth.Refs, reg *plinth.Registry) {
	reg.Register(refs.Get("toggle"), "click", func(e *dom.Event) {
		m.Store().Dispatch(plinth.Act(ActionToggleMenu))
	})
	reg.Register(refs.Get("lang-en"), "click", func(e *dom.Event) {
		m.Store().Dispatch(plinth.ActWith(ActionSetLocale, "en"))
	})
	reg.Register(refs.Get("lang-fr"), "click", func(e *dom.Event) {
		m.Store().Dispatch(plinth.ActWith(ActionSetLocale, "fr"))
	})
}
