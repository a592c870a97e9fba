// Package view defines the host-facing output of a layout pass: platform
// view descriptions and the resolved node tree the host applies to live
// views. The engine never touches native views itself; it only emits
// Descriptions and the host decides how to realize them.
package view

import (
	"strings"

	"github.com/go-stencil/stencil/pkg/geometry"
)

// NativeView is an opaque handle to a host-owned platform view. The engine
// never inspects it; it is only passed back through Description hooks.
type NativeView any

// Description tells the host how to create and update one live view.
//
// Build is invoked once when no live view exists for the node's position.
// Apply is invoked on every pass to push the element's latest values into
// the live view. Contents, when set, returns the sub-container that child
// views are inserted into; when nil the view itself hosts its children.
type Description struct {
	// Kind identifies the platform view class. Hosts use it (together
	// with tree position) to decide whether an existing live view can be
	// updated in place or must be replaced.
	Kind string

	Build    func() NativeView
	Apply    func(NativeView)
	Contents func(NativeView) NativeView
}

// Path addresses a resolved node relative to its nearest view-backed
// ancestor. Components are stringified element identifiers, outermost
// first; layout-only ancestors collapsed during resolution contribute the
// intermediate components.
type Path []string

// Appending returns the path extended by one component.
func (p Path) Appending(component string) Path {
	extended := make(Path, 0, len(p)+1)
	extended = append(extended, p...)
	return append(extended, component)
}

// Prepending returns the path with a component inserted at the front.
func (p Path) Prepending(component string) Path {
	extended := make(Path, 0, len(p)+1)
	extended = append(extended, component)
	return append(extended, p...)
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Node is one resolved, renderable view: a description plus final geometry
// and the flattened children expressed in this node's coordinate space.
type Node struct {
	Path        Path
	Description Description
	Attributes  geometry.LayoutAttributes
	Children    []Node
}

// Count returns the total number of nodes in the subtree, including the
// receiver. Useful for asserting that live-view count tracks rendered
// content rather than element-composition depth.
func (n Node) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}
