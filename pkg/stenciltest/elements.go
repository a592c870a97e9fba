// Package stenciltest provides deterministic test fixtures for exercising
// the layout engine: fixed-size leaves, measure-counting leaves, a text
// label with reproducible font metrics, and trivial container layouts.
package stenciltest

import (
	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/view"
)

// Spacer is a fixed-size leaf with no backing view. It is comparable, so
// unchanged spacers are served from cache across passes.
type Spacer struct {
	Size geometry.Size
}

func (s Spacer) Content() element.Content {
	return element.MeasureFuncContent(func(constraint geometry.SizeConstraint, _ environment.Environment) geometry.Size {
		return constraint.ClampSize(s.Size)
	})
}

func (s Spacer) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return nil
}

func (s Spacer) IsEquivalent(other element.Element) (bool, error) {
	previous, ok := other.(Spacer)
	return ok && previous.Size == s.Size, nil
}

// MeasureCounter counts measure-function invocations across a test.
type MeasureCounter struct {
	count int
}

// Count returns the number of measurements recorded so far.
func (c *MeasureCounter) Count() int {
	return c.count
}

// Add records n measurements. Fixtures defined outside this package use it
// from their own measure functions.
func (c *MeasureCounter) Add(n int) {
	c.count += n
}

// Reset zeroes the counter.
func (c *MeasureCounter) Reset() {
	c.count = 0
}

var countingLeafFields = element.Fields(
	func(l CountingLeaf) any { return l.Size },
	func(l CountingLeaf) any { return l.Generation },
)

// CountingLeaf is a fixed-size, view-backed leaf that records every
// invocation of its measure function, for cache-behavior assertions.
// Equivalence considers Size and Generation; the counter identity does
// not participate.
type CountingLeaf struct {
	Size       geometry.Size
	Generation int
	Counter    *MeasureCounter
}

func (l CountingLeaf) Content() element.Content {
	return element.MeasureFuncContent(func(constraint geometry.SizeConstraint, _ environment.Environment) geometry.Size {
		if l.Counter != nil {
			l.Counter.count++
		}
		return constraint.ClampSize(l.Size)
	})
}

func (l CountingLeaf) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "CountingLeaf"}
}

func (l CountingLeaf) IsEquivalent(other element.Element) (bool, error) {
	return countingLeafFields(l, other)
}

// Box is a view-backed wrapper giving its single child the full bounds.
// Not comparable, so it is recomputed every pass.
type Box struct {
	Kind  string
	Child element.Element
}

func (b Box) Content() element.Content {
	return element.ChildContent(b.Child)
}

func (b Box) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	kind := b.Kind
	if kind == "" {
		kind = "Box"
	}
	return &view.Description{Kind: kind}
}

// Inset is a layout-only wrapper that insets its child on every edge. It
// produces no view of its own, so resolution folds its translation into
// descendants.
type Inset struct {
	Amount float64
	Child  element.Element
}

func (i Inset) Content() element.Content {
	return element.LayoutContent(insetLayout{amount: i.Amount}, element.Child{Element: i.Child})
}

func (i Inset) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return nil
}

type insetLayout struct {
	amount float64
}

func (l insetLayout) SizeThatFits(proposal geometry.SizeConstraint, subviews element.Subviews) geometry.Size {
	if len(subviews) == 0 {
		return geometry.Size{}
	}
	inner := shrink(proposal, 2*l.amount)
	size := subviews[0].SizeThatFits(inner)
	return geometry.Size{Width: size.Width + 2*l.amount, Height: size.Height + 2*l.amount}
}

func (l insetLayout) PlaceSubviews(bounds geometry.Rect, proposal geometry.SizeConstraint, subviews element.Subviews) {
	for _, subview := range subviews {
		inner := bounds.InsetRect(geometry.Insets{
			Top: l.amount, Left: l.amount, Bottom: l.amount, Right: l.amount,
		})
		subview.PlaceInRect(geometry.RectFromLTWH(l.amount, l.amount, inner.Width(), inner.Height()))
	}
}

func shrink(proposal geometry.SizeConstraint, by float64) geometry.SizeConstraint {
	shrunk := proposal
	if !shrunk.Width.Unconstrained {
		shrunk.Width = geometry.AtMost(max(shrunk.Width.Max-by, 0))
	}
	if !shrunk.Height.Unconstrained {
		shrunk.Height = geometry.AtMost(max(shrunk.Height.Max-by, 0))
	}
	return shrunk
}
