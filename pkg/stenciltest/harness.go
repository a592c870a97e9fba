package stenciltest

import (
	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/view"
)

// Harness bundles a named state tree with metrics for multi-pass tests.
type Harness struct {
	Tree    *element.StateTree
	Metrics *element.PassMetrics
}

// NewHarness builds a harness with metrics collection wired up.
func NewHarness(name string) *Harness {
	metrics := &element.PassMetrics{}
	tree := element.NewStateTree(name)
	tree.SetMetrics(metrics)
	return &Harness{Tree: tree, Metrics: metrics}
}

// Render runs one pass with the root element filling the given size,
// returning the resolved view hierarchy.
func (h *Harness) Render(root element.Element, size geometry.Size, env environment.Environment) []view.Node {
	return h.Pass(root, size, env).Resolve()
}

// Pass runs one pass and returns the raw layout result.
func (h *Harness) Pass(root element.Element, size geometry.Size, env environment.Environment) element.LayoutResultNode {
	return h.Tree.PerformPass(root, geometry.RectFromSize(size), env)
}

// FlattenViews returns the view hierarchy in depth-first order, parents
// before children.
func FlattenViews(nodes []view.Node) []view.Node {
	var flat []view.Node
	for _, node := range nodes {
		flat = append(flat, node)
		flat = append(flat, FlattenViews(node.Children)...)
	}
	return flat
}

// FindViews returns every node in the hierarchy whose description kind
// matches, in depth-first order.
func FindViews(nodes []view.Node, kind string) []view.Node {
	var found []view.Node
	for _, node := range FlattenViews(nodes) {
		if node.Description.Kind == kind {
			found = append(found, node)
		}
	}
	return found
}
