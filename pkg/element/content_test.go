package element_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/stenciltest"
	"github.com/go-stencil/stencil/pkg/view"
)

// proxy forwards everything to its child. Its own view description must
// never surface.
type proxy struct {
	child element.Element
}

func (p proxy) Content() element.Content {
	return element.PassthroughContent(p.child)
}

func (p proxy) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "NeverRendered"}
}

// scaled sets sizeKey for its subtree and contributes no view.
type scaled struct {
	side  float64
	child element.Element
}

func (s scaled) Content() element.Content {
	return element.SettingContent(s.child, sizeKey{}, s.side)
}

func (s scaled) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return nil
}

// deferred builds its child lazily and records the phases it was asked in.
type deferred struct {
	phases *[]element.LayoutPhase
	child  element.Element
}

func (d deferred) Content() element.Content {
	return element.LazyContent(func(ctx element.LazyContext) element.Element {
		*d.phases = append(*d.phases, ctx.Phase)
		return d.child
	})
}

func (d deferred) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return nil
}

// ruler measures a child without ever placing it, reporting only its size.
type ruler struct {
	subject element.Element
}

func (r ruler) Content() element.Content {
	return element.DetachedContent(r.subject)
}

func (r ruler) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "Ruler"}
}

func TestContentChildCounts(t *testing.T) {
	leaf := stenciltest.Spacer{Size: geometry.Size{Width: 1, Height: 1}}

	require.Equal(t, 0, leaf.Content().ChildCount())
	require.Equal(t, 0, ruler{subject: leaf}.Content().ChildCount())
	require.Equal(t, 1, element.ChildContent(leaf).ChildCount())
	require.Equal(t, 1, element.PassthroughContent(leaf).ChildCount())
	require.Equal(t, 1, element.SettingContent(leaf, sizeKey{}, 5.0).ChildCount())
	require.Equal(t, 1, element.LazyContent(func(element.LazyContext) element.Element { return leaf }).ChildCount())
	require.Equal(t, 2, stenciltest.Column{Children: []element.Element{leaf, leaf}}.Content().ChildCount())
	require.Equal(t, 0, element.Content{}.ChildCount())
}

func TestStatelessMeasureConvenience(t *testing.T) {
	leaf := stenciltest.Spacer{Size: geometry.Size{Width: 30, Height: 12}}
	size := leaf.Content().Measure(geometry.Unconstrained(), environment.Empty())
	require.Equal(t, geometry.Size{Width: 30, Height: 12}, size)

	clamped := leaf.Content().Measure(geometry.SizeConstraintAtMost(geometry.Size{Width: 8, Height: 50}), environment.Empty())
	require.Equal(t, geometry.Size{Width: 8, Height: 12}, clamped)
}

func TestPassthroughProxiesAreInvisible(t *testing.T) {
	counter := &stenciltest.MeasureCounter{}
	h := stenciltest.NewHarness(t.Name())

	leaf := stenciltest.CountingLeaf{Size: geometry.Size{Width: 10, Height: 10}, Counter: counter}
	root := stenciltest.Column{Children: []element.Element{
		proxy{child: proxy{child: leaf}},
	}}

	views := h.Render(root, viewport, environment.Empty())

	require.Empty(t, stenciltest.FindViews(views, "NeverRendered"))
	require.Len(t, stenciltest.FlattenViews(views), 2, "column and leaf only")

	leaves := stenciltest.FindViews(views, "CountingLeaf")
	require.Len(t, leaves, 1)
	require.Equal(t, "stenciltest.CountingLeaf.1", leaves[0].Path.String(),
		"proxies must not contribute path components")

	require.Equal(t, 2, h.Tree.Root().LiveNodeCount(), "proxies must not hold element state")
}

func TestWrappedLeafMeasuresOnColdPass(t *testing.T) {
	counter := &stenciltest.MeasureCounter{}
	h := stenciltest.NewHarness(t.Name())

	root := stenciltest.Box{Child: stenciltest.Box{Child: stenciltest.CountingLeaf{
		Size:    geometry.Size{Width: 20, Height: 20},
		Counter: counter,
	}}}

	h.Pass(root, viewport, environment.Empty())
	require.Equal(t, 1, counter.Count(),
		"a chain of bounds-filling wrappers still runs its leaf's measurement, exactly once")

	h.Pass(root, viewport, environment.Empty())
	require.Equal(t, 1, counter.Count(), "the warm pass serves the leaf from cache")
}

func TestAdaptedEnvironmentReachesDescendants(t *testing.T) {
	counter := &stenciltest.MeasureCounter{}
	h := stenciltest.NewHarness(t.Name())

	root := stenciltest.Column{Children: []element.Element{
		scaled{side: 25, child: envMeasuredLeaf{counter: counter}},
	}}

	views := h.Render(root, viewport, environment.Empty())
	leaves := stenciltest.FindViews(views, "EnvSized")
	require.Len(t, leaves, 1)
	require.Equal(t, geometry.RectFromLTWH(0, 0, 25, 25), leaves[0].Attributes.Frame)
}

func TestLazyContentSeesBothPhases(t *testing.T) {
	var phases []element.LayoutPhase
	h := stenciltest.NewHarness(t.Name())

	root := stenciltest.Column{Children: []element.Element{
		deferred{
			phases: &phases,
			child:  stenciltest.Spacer{Size: geometry.Size{Width: 10, Height: 10}},
		},
	}}

	h.Pass(root, viewport, environment.Empty())
	require.Equal(t, []element.LayoutPhase{element.PhaseMeasurement, element.PhasePlacement}, phases,
		"built once for the sizing probe, once for placement")
}

func TestDetachedContentMeasuresWithoutPlacing(t *testing.T) {
	counter := &stenciltest.MeasureCounter{}
	h := stenciltest.NewHarness(t.Name())

	subject := stenciltest.CountingLeaf{Size: geometry.Size{Width: 33, Height: 7}, Counter: counter}
	root := stenciltest.Column{Children: []element.Element{ruler{subject: subject}}}

	views := h.Render(root, viewport, environment.Empty())

	require.Equal(t, 1, counter.Count(), "the subject is measured")
	require.Empty(t, stenciltest.FindViews(views, "CountingLeaf"), "but never rendered")

	rulers := stenciltest.FindViews(views, "Ruler")
	require.Len(t, rulers, 1)
	require.Equal(t, geometry.RectFromLTWH(0, 0, 33, 7), rulers[0].Attributes.Frame,
		"the ruler adopts the subject's measured size")
}

func TestLabelMeasuresDeterministically(t *testing.T) {
	h := stenciltest.NewHarness(t.Name())

	root := stenciltest.Column{Children: []element.Element{
		stenciltest.Label{Text: "ok"},
		stenciltest.Label{Text: "okok"},
	}}

	views := h.Render(root, viewport, environment.Empty())
	labels := stenciltest.FindViews(views, "Label")
	require.Len(t, labels, 2)

	short := labels[0].Attributes.Frame
	long := labels[1].Attributes.Frame
	require.Equal(t, 2*short.Width(), long.Width(), "fixed-width face: twice the glyphs, twice the width")
	require.Equal(t, short.Height(), long.Height())
	require.Equal(t, short.Height(), long.Top, "stacked directly below")
}
