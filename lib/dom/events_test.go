package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventFixture(t *testing.T) (*Document, *Node, *Node) {
	t.Helper()
	doc, err := Parse(`<html><body><div id="outer"><button id="inner">go</button></div></body></html>`)
	require.NoError(t, err)
	outer := doc.ByID("outer")
	inner := doc.ByID("inner")
	require.NotNil(t, outer)
	require.NotNil(t, inner)
	return doc, outer, inner
}

func TestFireBubbles(t *testing.T) {
	_, outer, inner := eventFixture(t)

	var order []string
	inner.On("click", func(e *Event) {
		order = append(order, "inner")
		assert.True(t, e.Target.Same(inner))
		assert.True(t, e.Current.Same(inner))
	})
	outer.On("click", func(e *Event) {
		order = append(order, "outer")
		assert.True(t, e.Target.Same(inner))
		assert.True(t, e.Current.Same(outer))
	})

	inner.Fire("click", nil)

	assert.Equal(t, []string{"inner", "outer"}, order)
}

func TestStopPropagation(t *testing.T) {
	_, outer, inner := eventFixture(t)

	outerCalls := 0
	inner.On("click", func(e *Event) { e.StopPropagation() })
	outer.On("click", func(e *Event) { outerCalls++ })

	inner.Fire("click", nil)
	assert.Equal(t, 0, outerCalls)
}

func TestStopPropagationStillRunsSameNodeHandlers(t *testing.T) {
	_, _, inner := eventFixture(t)

	second := 0
	inner.On("click", func(e *Event) { e.StopPropagation() })
	inner.On("click", func(e *Event) { second++ })

	inner.Fire("click", nil)
	assert.Equal(t, 1, second)
}

func TestEventDetail(t *testing.T) {
	_, _, inner := eventFixture(t)

	var got any
	inner.On("change", func(e *Event) { got = e.Detail })
	inner.Fire("change", 42)
	assert.Equal(t, 42, got)
}

func TestOffIdempotent(t *testing.T) {
	doc, _, inner := eventFixture(t)

	calls := 0
	handle := inner.On("click", func(e *Event) { calls++ })
	assert.Equal(t, 1, doc.ListenerCount())

	assert.True(t, inner.Off(handle))
	assert.False(t, inner.Off(handle), "second Off must be a no-op")
	assert.Equal(t, 0, doc.ListenerCount())

	inner.Fire("click", nil)
	assert.Equal(t, 0, calls)
}

func TestOffRemovesOnlyItsHandler(t *testing.T) {
	_, _, inner := eventFixture(t)

	a, b := 0, 0
	handleA := inner.On("click", func(e *Event) { a++ })
	inner.On("click", func(e *Event) { b++ })

	inner.Off(handleA)
	inner.Fire("click", nil)

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

func TestHandlerPanicIsolated(t *testing.T) {
	doc, _, inner := eventFixture(t)

	var reported []error
	doc.OnError = func(err error) { reported = append(reported, err) }

	ran := false
	inner.On("click", func(e *Event) { panic("handler boom") })
	inner.On("click", func(e *Event) { ran = true })

	inner.Fire("click", nil)

	assert.True(t, ran, "second handler must run after first panicked")
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "handler boom")
}

func TestDeliverySnapshotsHandlers(t *testing.T) {
	_, _, inner := eventFixture(t)

	lateCalls := 0
	inner.On("click", func(e *Event) {
		inner.On("click", func(e *Event) { lateCalls++ })
	})

	inner.Fire("click", nil)
	assert.Equal(t, 0, lateCalls, "handler attached mid-delivery must not fire in the same pass")

	inner.Fire("click", nil)
	assert.Equal(t, 1, lateCalls)
}
