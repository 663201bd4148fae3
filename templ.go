package plinth

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// TemplRenderer adapts a templ component function to the Renderer contract.
// The function must be a pure view of the state; it runs exactly once per
// mount. A render failure is reported to the optional sink and yields empty
// markup (the mount still proceeds with an empty subtree).
//
//	h.Component = plinth.New("header", store, doc, "header")
//	h.SetImpl(h)
//	// instead of writing Render by hand:
//	r := plinth.TemplRenderer(func(s AppState) templ.Component { return headerView(s) })
func TemplRenderer[S any](view func(S) templ.Component, onError ...func(error)) Renderer[S] {
	tr := templRenderer[S]{view: view}
	if len(onError) > 0 {
		tr.onError = onError[0]
	}
	return tr
}

type templRenderer[S any] struct {
	view    func(S) templ.Component
	onError func(error)
}

func (r templRenderer[S]) Render(state S) string {
	var buf bytes.Buffer
	if err := r.view(state).Render(context.Background(), &buf); err != nil {
		if r.onError != nil {
			r.onError(fmt.Errorf("templ render: %w", err))
		}
		return ""
	}
	return buf.String()
}

// RefAttrs builds the attribute set that marks an element as a cached
// reference, for use inside templ templates:
//
//	<span { plinth.RefAttrs("count")... }>0</span>
func RefAttrs(name string) templ.Attributes {
	return templ.Attributes{"data-ref": name}
}

// Raw wraps a markup string as a templ component. Convenience for mixing
// hand-written fragments into templ views; the caller is responsible for
// escaping.
func Raw(markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}
