package element

import (
	"fmt"

	"github.com/go-stencil/stencil/pkg/geometry"
)

// Layout is the pluggable algorithm a container delegates measurement and
// placement to. It is the extension point for stacks, grids and custom
// containers.
//
// The protocol is proposal-based: SizeThatFits answers "how big would you
// be within this proposal", querying subviews as needed; PlaceSubviews
// assigns each subview a position within the final bounds. Both calls see
// the same ordered subview list.
type Layout interface {
	// SizeThatFits returns the size the container wants within the
	// proposal. Implementations may probe subviews with any number of
	// proposals; probes are memoized per pass.
	SizeThatFits(proposal geometry.SizeConstraint, subviews Subviews) geometry.Size

	// PlaceSubviews positions every subview within bounds. Each subview
	// must be placed at most once; a subview left unplaced defaults to
	// the bounds origin at its own size for the proposal.
	PlaceSubviews(bounds geometry.Rect, proposal geometry.SizeConstraint, subviews Subviews)
}

// LayoutPhase tags whether content is being evaluated for pure measurement
// or for final placement. Lazy content may branch on it, e.g. substituting
// a cheaper interior element while only sizing.
type LayoutPhase int

const (
	// PhaseMeasurement is a sizing-only evaluation.
	PhaseMeasurement LayoutPhase = iota
	// PhasePlacement is the final layout evaluation for a pass.
	PhasePlacement
)

func (p LayoutPhase) String() string {
	switch p {
	case PhaseMeasurement:
		return "measurement"
	case PhasePlacement:
		return "placement"
	default:
		return fmt.Sprintf("LayoutPhase(%d)", int(p))
	}
}

// TraitKey identifies a layout trait a child exposes to its container
// (e.g. a grow priority). Keys follow the same empty-struct convention as
// environment keys.
type TraitKey interface {
	DefaultTraitValue() any
}

// Traits is an immutable bag of per-child layout traits.
type Traits struct {
	values map[TraitKey]any
}

// With returns a copy of the traits with the key set.
func (t Traits) With(key TraitKey, value any) Traits {
	values := make(map[TraitKey]any, len(t.values)+1)
	for k, v := range t.values {
		values[k] = v
	}
	values[key] = value
	return Traits{values: values}
}

// Value returns the trait value, or the key's default when unset.
func (t Traits) Value(key TraitKey) any {
	if v, ok := t.values[key]; ok {
		return v
	}
	return key.DefaultTraitValue()
}

// Subviews is the ordered list of children a Layout operates over.
type Subviews []*Subview

// Subview is a layout's handle to one child: it can be sized against
// proposals and placed exactly once per pass. The engine routes sizing
// through the per-pass and cross-pass caches, so repeated probes with the
// same proposal cost nothing.
type Subview struct {
	element    Element
	traits     Traits
	index      int
	phase      LayoutPhase
	measure    func(geometry.SizeConstraint) geometry.Size
	placed     *geometry.Rect
	placeCount int
	// sizedWith remembers the proposal of the most recent SizeThatFits
	// call, so the child's own layout can reuse the same cache keys.
	sizedWith *geometry.SizeConstraint
}

// Element returns the child element the subview wraps.
func (s *Subview) Element() Element {
	return s.element
}

// Index returns the child's position within its container.
func (s *Subview) Index() int {
	return s.index
}

// Traits returns the child's layout traits.
func (s *Subview) Traits() Traits {
	return s.traits
}

// SizeThatFits measures the child within the proposal.
func (s *Subview) SizeThatFits(proposal geometry.SizeConstraint) geometry.Size {
	s.sizedWith = &proposal
	return s.measure(proposal)
}

// measuredProposal returns the proposal the subview was last sized with,
// or the fallback for a child its layout placed without measuring.
func (s *Subview) measuredProposal(fallback geometry.SizeConstraint) geometry.SizeConstraint {
	if s.sizedWith != nil {
		return *s.sizedWith
	}
	return fallback
}

// Place positions the child so that the anchor point of its measured size
// for the proposal lands on the given position.
//
// Placement may happen at most once per subview per pass; a second call is
// a contract violation by the Layout implementation and panics. Calls
// during a measurement-only evaluation are ignored.
func (s *Subview) Place(at geometry.Offset, anchor geometry.Alignment, proposal geometry.SizeConstraint) {
	size := s.SizeThatFits(proposal)
	frame := geometry.RectFromLTWH(
		at.X-anchor.X*size.Width,
		at.Y-anchor.Y*size.Height,
		size.Width,
		size.Height,
	)
	s.placeFrame(frame)
}

// PlaceInRect positions the child in an explicit frame, overriding its
// measured size. This is the "fill" escape hatch for layouts that dictate
// child geometry outright.
func (s *Subview) PlaceInRect(frame geometry.Rect) {
	s.placeFrame(frame)
}

func (s *Subview) placeFrame(frame geometry.Rect) {
	if s.phase != PhasePlacement {
		return
	}
	s.placeCount++
	if s.placeCount > 1 {
		panic(fmt.Sprintf(
			"stencil: subview %d (%T) placed %d times in one pass; a Layout must place each subview at most once",
			s.index, s.element, s.placeCount,
		))
	}
	s.placed = &frame
}

// finalFrame returns the placed frame, falling back to the default for a
// subview its layout never placed.
func (s *Subview) finalFrame(proposal geometry.SizeConstraint) geometry.Rect {
	if s.placed != nil {
		return *s.placed
	}
	size := s.SizeThatFits(proposal)
	return geometry.RectFromSize(size)
}
