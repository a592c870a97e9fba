package element_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/stenciltest"
	"github.com/go-stencil/stencil/pkg/view"
)

func TestLayoutOnlyChainCollapsesToOneView(t *testing.T) {
	counter := &stenciltest.MeasureCounter{}
	h := stenciltest.NewHarness(t.Name())

	// Box is view-backed; the two Insets are layout-only and must fold
	// their offsets into the leaf's frame.
	root := stenciltest.Box{Child: stenciltest.Inset{
		Amount: 5,
		Child: stenciltest.Inset{
			Amount: 3,
			Child:  stenciltest.CountingLeaf{Size: geometry.Size{Width: 500, Height: 500}, Counter: counter},
		},
	}}

	views := h.Render(root, viewport, environment.Empty())

	flat := stenciltest.FlattenViews(views)
	require.Len(t, flat, 2, "box and leaf; insets resolve to nothing")

	leaf := stenciltest.FindViews(views, "CountingLeaf")[0]
	require.Equal(t, geometry.RectFromLTWH(8, 8, 84, 84), leaf.Attributes.Frame,
		"both inset offsets composed into the leaf frame")
	require.Equal(t,
		"stenciltest.Inset.1/stenciltest.Inset.1/stenciltest.CountingLeaf.1",
		leaf.Path.String(),
		"collapsed ancestors contribute path components")
}

func TestResolvedTreeDiffsCleanly(t *testing.T) {
	h := stenciltest.NewHarness(t.Name())
	env := environment.Empty()

	root := stenciltest.Column{Children: []element.Element{
		stenciltest.Spacer{Size: geometry.Size{Width: 10, Height: 10}},
		stenciltest.Label{Text: "hi"},
	}}

	first := h.Render(root, viewport, env)
	second := h.Render(root, viewport, env)

	opts := cmp.Options{
		cmp.Comparer(func(a, b view.Description) bool { return a.Kind == b.Kind }),
	}
	if diff := cmp.Diff(first, second, opts...); diff != "" {
		t.Fatalf("identical passes resolved differently (-first +second):\n%s", diff)
	}
}

// centering places its child centered at its measured size.
type centering struct {
	child element.Element
}

func (c centering) Content() element.Content {
	return element.LayoutContent(centerLayout{}, element.Child{Element: c.child})
}

func (c centering) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "Centering"}
}

type centerLayout struct{}

func (centerLayout) SizeThatFits(proposal geometry.SizeConstraint, subviews element.Subviews) geometry.Size {
	return proposal.MaximumSize()
}

func (centerLayout) PlaceSubviews(bounds geometry.Rect, proposal geometry.SizeConstraint, subviews element.Subviews) {
	center := geometry.Offset{X: bounds.Width() / 2, Y: bounds.Height() / 2}
	for _, subview := range subviews {
		subview.Place(center, geometry.AlignmentCenter, geometry.Unconstrained())
	}
}

func TestAnchoredPlacement(t *testing.T) {
	h := stenciltest.NewHarness(t.Name())

	root := centering{child: stenciltest.Spacer{Size: geometry.Size{Width: 10, Height: 20}}}
	result := h.Pass(root, viewport, environment.Empty())

	require.Len(t, result.Children, 1)
	frame := result.Children[0].Node.Attributes.Frame
	require.Equal(t, geometry.RectFromLTWH(45, 40, 10, 20), frame)
}

// negligent never places its children.
type negligent struct {
	child element.Element
}

func (n negligent) Content() element.Content {
	return element.LayoutContent(negligentLayout{}, element.Child{Element: n.child})
}

func (n negligent) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "Negligent"}
}

type negligentLayout struct{}

func (negligentLayout) SizeThatFits(proposal geometry.SizeConstraint, subviews element.Subviews) geometry.Size {
	return proposal.MaximumSize()
}

func (negligentLayout) PlaceSubviews(geometry.Rect, geometry.SizeConstraint, element.Subviews) {}

func TestUnplacedSubviewDefaultsToOwnSize(t *testing.T) {
	h := stenciltest.NewHarness(t.Name())

	root := negligent{child: stenciltest.Spacer{Size: geometry.Size{Width: 10, Height: 20}}}
	result := h.Pass(root, viewport, environment.Empty())

	require.Len(t, result.Children, 1)
	frame := result.Children[0].Node.Attributes.Frame
	require.Equal(t, geometry.RectFromLTWH(0, 0, 10, 20), frame,
		"an unplaced subview sits at the origin at its measured size")
}

// overeager places the same subview twice, violating the layout contract.
type overeager struct {
	child element.Element
}

func (o overeager) Content() element.Content {
	return element.LayoutContent(overeagerLayout{}, element.Child{Element: o.child})
}

func (o overeager) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return nil
}

type overeagerLayout struct{}

func (overeagerLayout) SizeThatFits(proposal geometry.SizeConstraint, subviews element.Subviews) geometry.Size {
	return proposal.MaximumSize()
}

func (overeagerLayout) PlaceSubviews(bounds geometry.Rect, proposal geometry.SizeConstraint, subviews element.Subviews) {
	for _, subview := range subviews {
		subview.PlaceInRect(geometry.RectFromLTWH(0, 0, 10, 10))
		subview.PlaceInRect(geometry.RectFromLTWH(10, 10, 10, 10))
	}
}

func TestDoublePlacementPanics(t *testing.T) {
	h := stenciltest.NewHarness(t.Name())
	root := overeager{child: stenciltest.Spacer{Size: geometry.Size{Width: 1, Height: 1}}}

	require.Panics(t, func() {
		h.Pass(root, viewport, environment.Empty())
	})
}

// extentProbe records the subtree extent it is handed at resolution time.
type extentProbe struct {
	extent **geometry.Rect
	child  element.Element
}

func (p extentProbe) Content() element.Content {
	return element.ChildContent(p.child)
}

func (p extentProbe) BackingViewDescription(ctx element.ViewDescriptionContext) *view.Description {
	*p.extent = ctx.SubtreeExtent
	return &view.Description{Kind: "ExtentProbe"}
}

func TestSubtreeExtentCoversChildFrames(t *testing.T) {
	h := stenciltest.NewHarness(t.Name())

	var extent *geometry.Rect
	root := extentProbe{
		extent: &extent,
		child:  stenciltest.Inset{Amount: 5, Child: stenciltest.Spacer{Size: geometry.Size{Width: 10, Height: 10}}},
	}
	h.Render(root, viewport, environment.Empty())

	require.NotNil(t, extent)
	require.Equal(t, geometry.RectFromLTWH(0, 0, 100, 100), *extent,
		"the inset child fills the probe's bounds")

	var leafExtent *geometry.Rect
	leafRoot := extentProbe{extent: &leafExtent, child: stenciltest.Spacer{Size: geometry.Size{Width: 10, Height: 10}}}
	h2 := stenciltest.NewHarness(t.Name() + "/leaf")
	h2.Render(leafRoot, viewport, environment.Empty())
	require.NotNil(t, leafExtent)
}
