package stenciltest

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
	"github.com/go-stencil/stencil/pkg/view"
)

var labelFace font.Face = basicfont.Face7x13

var labelFields = element.Fields(
	func(l Label) any { return l.Text },
)

// Label renders a single line of text using a fixed bitmap face, so its
// measured size is fully deterministic across platforms.
type Label struct {
	Text string
}

func (l Label) Content() element.Content {
	return element.MeasureFuncContent(func(constraint geometry.SizeConstraint, _ environment.Environment) geometry.Size {
		metrics := labelFace.Metrics()
		height := float64((metrics.Ascent + metrics.Descent).Ceil())
		width := float64(font.MeasureString(labelFace, firstLine(l.Text)).Ceil())
		return constraint.ClampSize(geometry.Size{Width: width, Height: height})
	})
}

func (l Label) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "Label"}
}

func (l Label) IsEquivalent(other element.Element) (bool, error) {
	return labelFields(l, other)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Column stacks its children vertically, each at its natural height, all
// at the column's width proposal.
type Column struct {
	Children []element.Element
}

func (c Column) Content() element.Content {
	children := make([]element.Child, 0, len(c.Children))
	for _, child := range c.Children {
		children = append(children, element.Child{Element: child})
	}
	return element.LayoutContent(columnLayout{}, children...)
}

func (c Column) BackingViewDescription(element.ViewDescriptionContext) *view.Description {
	return &view.Description{Kind: "Column"}
}

type columnLayout struct{}

func (columnLayout) SizeThatFits(proposal geometry.SizeConstraint, subviews element.Subviews) geometry.Size {
	itemProposal := geometry.SizeConstraint{Width: proposal.Width, Height: geometry.UnconstrainedAxis()}
	var total geometry.Size
	for _, subview := range subviews {
		size := subview.SizeThatFits(itemProposal)
		total.Height += size.Height
		total.Width = max(total.Width, size.Width)
	}
	return total
}

func (columnLayout) PlaceSubviews(bounds geometry.Rect, proposal geometry.SizeConstraint, subviews element.Subviews) {
	itemProposal := geometry.SizeConstraint{Width: proposal.Width, Height: geometry.UnconstrainedAxis()}
	y := 0.0
	for _, subview := range subviews {
		size := subview.SizeThatFits(itemProposal)
		subview.PlaceInRect(geometry.RectFromLTWH(0, y, size.Width, size.Height))
		y += size.Height
	}
}
