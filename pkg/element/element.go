package element

import (
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/view"
)

// Element is an immutable value describing a unit of UI intent.
//
// Elements must behave as value types: the engine caches measurements and
// layouts across passes under the assumption that an element's meaning is
// fully captured by its value. Declare elements as plain structs and never
// mutate them after construction; identity-based state breaks every caching
// invariant in the engine.
type Element interface {
	// Content describes the element's children and the measurement/layout
	// strategy applied to them. It must be a pure function of the
	// element's value (and, for lazy content, of the ambient environment
	// and constraint it is handed at build time).
	Content() Content

	// BackingViewDescription returns the description of the live view
	// backing this element, or nil for a layout-only element. Layout-only
	// elements are collapsed out of the resolved view tree; their
	// geometry is folded into descendant coordinates.
	BackingViewDescription(ctx ViewDescriptionContext) *view.Description
}

// ViewDescriptionContext carries everything an element may consult when
// producing its backing view description.
type ViewDescriptionContext struct {
	// Bounds is the element's final bounds in its own coordinate space
	// (origin at zero).
	Bounds geometry.Rect

	// SubtreeExtent is the union of all child frames, or nil for an
	// element with no children.
	SubtreeExtent *geometry.Rect

	// Environment is the ambient environment at this position in the
	// tree.
	Environment environment.Environment
}

// Keyed is implemented by elements that carry a developer-supplied key used
// to disambiguate siblings of the same concrete type. Keys must be
// comparable values.
type Keyed interface {
	Key() any
}

// Equivalent is the opt-in capability that makes an element's caches
// trustworthy across passes. IsEquivalent is called with the previous
// element occupying the same tree position; the receiver is always the
// newer value and other is guaranteed to have the same concrete type.
//
// Returning an error (or panicking) is treated as "not equivalent": the
// engine prefers recomputing over trusting an undecidable comparison.
type Equivalent interface {
	IsEquivalent(other Element) (bool, error)
}

// EnvironmentEquivalent is the environment-scoped variant of [Equivalent],
// for elements whose equivalence depends on ambient values. When an element
// implements both, this one wins.
type EnvironmentEquivalent interface {
	IsEquivalentInEnvironment(other Element, env environment.Environment) (bool, error)
}
