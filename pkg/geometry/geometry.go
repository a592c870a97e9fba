// Package geometry provides the value types the layout engine computes with:
// offsets, sizes, rectangles, constraints and layout attributes.
package geometry

import "math"

// Offset represents a 2D point or vector in logical pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Adding returns the component-wise sum of two offsets.
func (o Offset) Adding(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Size represents width and height dimensions in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsFinite reports whether both dimensions are finite, non-NaN values.
// Layout implementations must only ever produce finite sizes.
func (s Size) IsFinite() bool {
	return !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0) &&
		!math.IsNaN(s.Width) && !math.IsNaN(s.Height)
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// RectFromSize constructs a Rect at the origin with the given size.
func RectFromSize(size Size) Rect {
	return RectFromLTWH(0, 0, size.Width, size.Height)
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Origin returns the top-left corner of the rectangle.
func (r Rect) Origin() Offset {
	return Offset{X: r.Left, Y: r.Top}
}

// Translated returns the rectangle shifted by the given offset.
func (r Rect) Translated(by Offset) Rect {
	return Rect{
		Left:   r.Left + by.X,
		Top:    r.Top + by.Y,
		Right:  r.Right + by.X,
		Bottom: r.Bottom + by.Y,
	}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Insets describes edge distances, used for safe areas and padding.
type Insets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// InsetRect returns the rectangle shrunk by the insets on each edge.
func (r Rect) InsetRect(insets Insets) Rect {
	return Rect{
		Left:   r.Left + insets.Left,
		Top:    r.Top + insets.Top,
		Right:  r.Right - insets.Right,
		Bottom: r.Bottom - insets.Bottom,
	}
}

// Alignment describes a relative anchor point within a rectangle.
// (0,0) is the top-leading corner, (1,1) the bottom-trailing corner.
type Alignment struct {
	X float64
	Y float64
}

var (
	// AlignmentTopLeading anchors at the top-leading corner.
	AlignmentTopLeading = Alignment{X: 0, Y: 0}
	// AlignmentCenter anchors at the center.
	AlignmentCenter = Alignment{X: 0.5, Y: 0.5}
	// AlignmentBottomTrailing anchors at the bottom-trailing corner.
	AlignmentBottomTrailing = Alignment{X: 1, Y: 1}
)
