package geometry

// Transform is a 2D affine transform in row-major order:
//
//	| A  B  TX |
//	| C  D  TY |
type Transform struct {
	A, B, TX float64
	C, D, TY float64
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{A: 1, D: 1}
}

// IsIdentity reports whether the transform is the identity.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

// Concat returns the transform equivalent to applying other, then t.
func (t Transform) Concat(other Transform) Transform {
	return Transform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// LayoutAttributes carries the resolved geometry for one node: its frame in
// the parent's coordinate space plus display properties.
type LayoutAttributes struct {
	Frame     Rect
	Transform Transform
	Alpha     float64
	Hidden    bool
}

// NewLayoutAttributes returns attributes for the given frame with default
// display properties (fully opaque, identity transform, visible).
func NewLayoutAttributes(frame Rect) LayoutAttributes {
	return LayoutAttributes{
		Frame:     frame,
		Transform: IdentityTransform(),
		Alpha:     1,
	}
}

// Within re-expresses the attributes in the coordinate space of an enclosing
// node: the frame is translated by the ancestor's origin and display
// properties are combined. This is the merge step used when a layout-only
// ancestor is collapsed out of the resolved view tree.
func (a LayoutAttributes) Within(ancestor LayoutAttributes) LayoutAttributes {
	combined := a
	combined.Frame = a.Frame.Translated(ancestor.Frame.Origin())
	combined.Alpha = a.Alpha * ancestor.Alpha
	combined.Hidden = a.Hidden || ancestor.Hidden
	if !ancestor.Transform.IsIdentity() {
		combined.Transform = ancestor.Transform.Concat(a.Transform)
	}
	return combined
}
