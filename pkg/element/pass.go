package element

import (
	"time"

	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
)

// PerformPass runs one complete synchronous layout pass: prepare, root
// update, layout, finish. It returns the pass's layout result, rooted at
// the given frame.
//
// A pass is atomic from the caller's perspective: it runs to completion on
// the calling goroutine with no suspension points, and a contract violation
// by an element or Layout author is a panic, not a recoverable error.
func (t *StateTree) PerformPass(root Element, frame geometry.Rect, env environment.Environment) LayoutResultNode {
	start := time.Now()

	t.PrepareForLayout()
	state := t.Update(root, env)
	if state == nil {
		t.FinishedLayout()
		return LayoutResultNode{}
	}

	scale := environment.DisplayScale(env.Unsubscribed())
	cache := newCacheTree(t.name, scale, OptionsIn(env.Unsubscribed()), t.metrics)

	size := frame.Size()
	children := state.LayoutCached(size, env, func(tracked environment.Environment) []IdentifiedNode {
		return state.contentForPass().storage.performLayout(size, layoutContext{
			environment: tracked,
			state:       state,
			cache:       cache,
			proposal:    geometry.SizeConstraintAtMost(size),
		})
	})

	node := LayoutResultNode{
		Element:     root,
		Identifier:  state.identifier,
		Attributes:  geometry.NewLayoutAttributes(frame),
		Environment: env,
		Children:    children,
		latest:      state.element,
	}

	t.FinishedLayout()
	if t.metrics != nil {
		t.metrics.Passes++
		t.metrics.PassDuration = time.Since(start)
	}
	return node
}

// LayoutOnce performs a one-shot pass with throwaway state. Useful for
// hosts that lay out an element once, and in tests; repeated rendering
// should retain a StateTree instead so caching and view reuse work.
func LayoutOnce(root Element, frame geometry.Rect, env environment.Environment) LayoutResultNode {
	return NewStateTree("one-shot").PerformPass(root, frame, env)
}
