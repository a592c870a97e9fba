package geometry

import (
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// Axis constrains a single dimension. An axis is either bounded by Max or
// explicitly unconstrained. The zero value is "at most 0".
//
// Axis is comparable so constraints can be used directly as cache keys.
type Axis struct {
	Max           float64
	Unconstrained bool
}

// AtMost returns an axis bounded by the given maximum.
func AtMost(max float64) Axis {
	return Axis{Max: max}
}

// UnconstrainedAxis returns an axis with no upper bound.
func UnconstrainedAxis() Axis {
	return Axis{Unconstrained: true}
}

// Maximum returns the upper bound, or +Inf for an unconstrained axis.
func (a Axis) Maximum() float64 {
	if a.Unconstrained {
		return math.Inf(1)
	}
	return a.Max
}

// Constrain clamps a value to the axis bound.
func (a Axis) Constrain(value float64) float64 {
	if a.Unconstrained {
		return value
	}
	return math.Min(value, a.Max)
}

// Snapped rounds the axis bound to the nearest device pixel at the given
// scale. Unconstrained axes are returned unchanged.
func (a Axis) Snapped(scale float64) Axis {
	if a.Unconstrained {
		return a
	}
	return Axis{Max: SnapToScale(a.Max, scale)}
}

func (a Axis) String() string {
	if a.Unconstrained {
		return "unconstrained"
	}
	return fmt.Sprintf("atMost(%g)", a.Max)
}

// SizeConstraint bounds a measurement query on both axes. It is the single
// currency for both measurement constraints and layout size proposals.
//
// SizeConstraint is comparable and is used as a cache key; canonicalize with
// Snapped before storage to avoid fragmentation from floating-point drift.
type SizeConstraint struct {
	Width  Axis
	Height Axis
}

// SizeConstraintAtMost bounds both axes by the given size.
func SizeConstraintAtMost(size Size) SizeConstraint {
	return SizeConstraint{Width: AtMost(size.Width), Height: AtMost(size.Height)}
}

// Unconstrained returns a constraint with no bounds on either axis.
func Unconstrained() SizeConstraint {
	return SizeConstraint{Width: UnconstrainedAxis(), Height: UnconstrainedAxis()}
}

// ClampSize clamps a size to the constraint bounds.
func (c SizeConstraint) ClampSize(size Size) Size {
	return Size{
		Width:  c.Width.Constrain(size.Width),
		Height: c.Height.Constrain(size.Height),
	}
}

// MaximumSize returns the constraint bounds as a size, with +Inf for
// unconstrained axes.
func (c SizeConstraint) MaximumSize() Size {
	return Size{Width: c.Width.Maximum(), Height: c.Height.Maximum()}
}

// Snapped canonicalizes the constraint to device-pixel boundaries.
func (c SizeConstraint) Snapped(scale float64) SizeConstraint {
	return SizeConstraint{
		Width:  c.Width.Snapped(scale),
		Height: c.Height.Snapped(scale),
	}
}

func (c SizeConstraint) String() string {
	return fmt.Sprintf("(w: %s, h: %s)", c.Width, c.Height)
}

// SnapToScale rounds a value to the nearest device-pixel boundary at the
// given scale. The rounding goes through 26.6 fixed point so repeated
// snapping of already-snapped values is exact and never drifts.
func SnapToScale(value, scale float64) float64 {
	if scale <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return value
	}
	px := fixed.Int26_6(math.Round(value * scale * 64))
	return float64(px.Round()) / scale
}
