package element

import (
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/view"
)

// IdentifiedNode pairs a layout-result node with the identifier of the
// position it occupies under its parent.
type IdentifiedNode struct {
	Identifier Identifier
	Node       LayoutResultNode
}

// LayoutResultNode is one node of a pass's output: the element, its
// resolved attributes in the parent's coordinate space, the environment it
// was laid out in, and its laid-out children.
type LayoutResultNode struct {
	Element     Element
	Identifier  Identifier
	Attributes  geometry.LayoutAttributes
	Environment environment.Environment
	Children    []IdentifiedNode

	// latest, when set, is the shared box giving resolution access to the
	// freshest element value even when this node was served from a layout
	// cache populated in an earlier pass.
	latest *sharedElement
}

// Resolve flattens the layout result into renderable view nodes.
//
// Elements without a backing view description are layout-only: they emit no
// node of their own, and their geometry is folded into their descendants so
// each resolved subtree is expressed in the coordinate space of its nearest
// view-backed ancestor. Paths record the identifiers of collapsed
// ancestors, relative to that ancestor.
func (n LayoutResultNode) Resolve() []view.Node {
	if n.Element == nil {
		return nil
	}

	var resolvedChildren []view.Node
	var extent *geometry.Rect

	for _, child := range n.Children {
		frame := child.Node.Attributes.Frame
		if extent == nil {
			copied := frame
			extent = &copied
		} else {
			union := extent.Union(frame)
			extent = &union
		}
		component := child.Identifier.String()
		for _, resolved := range child.Node.Resolve() {
			resolved.Path = resolved.Path.Prepending(component)
			resolvedChildren = append(resolvedChildren, resolved)
		}
	}

	element := n.Element
	if n.latest != nil && n.latest.value != nil {
		element = n.latest.value
	}
	description := element.BackingViewDescription(ViewDescriptionContext{
		Bounds:        geometry.RectFromSize(n.Attributes.Frame.Size()),
		SubtreeExtent: extent,
		Environment:   n.Environment,
	})

	if description == nil {
		// Layout-only: re-express children in the enclosing coordinate
		// space and surface them directly.
		merged := make([]view.Node, len(resolvedChildren))
		for i, child := range resolvedChildren {
			child.Attributes = child.Attributes.Within(n.Attributes)
			merged[i] = child
		}
		return merged
	}

	return []view.Node{{
		Description: *description,
		Attributes:  n.Attributes,
		Children:    resolvedChildren,
	}}
}
