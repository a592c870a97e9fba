package stenciltest

import (
	"testing"

	"github.com/go-stencil/stencil/pkg/element"
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
)

func TestSpacerClampsToConstraint(t *testing.T) {
	spacer := Spacer{Size: geometry.Size{Width: 50, Height: 50}}

	size := spacer.Content().Measure(geometry.SizeConstraintAtMost(geometry.Size{Width: 20, Height: 80}), environment.Empty())
	if (size != geometry.Size{Width: 20, Height: 50}) {
		t.Fatalf("got %+v", size)
	}
}

func TestSpacerEquivalence(t *testing.T) {
	a := Spacer{Size: geometry.Size{Width: 1, Height: 1}}
	b := Spacer{Size: geometry.Size{Width: 1, Height: 1}}
	c := Spacer{Size: geometry.Size{Width: 2, Height: 1}}

	if equivalent, _ := a.IsEquivalent(b); !equivalent {
		t.Fatal("equal spacers must be equivalent")
	}
	if equivalent, _ := a.IsEquivalent(c); equivalent {
		t.Fatal("differently sized spacers must not be equivalent")
	}
}

func TestCountingLeafEquivalenceIgnoresCounter(t *testing.T) {
	counterA := &MeasureCounter{}
	counterB := &MeasureCounter{}

	a := CountingLeaf{Size: geometry.Size{Width: 5, Height: 5}, Counter: counterA}
	b := CountingLeaf{Size: geometry.Size{Width: 5, Height: 5}, Counter: counterB}
	if equivalent, _ := a.IsEquivalent(b); !equivalent {
		t.Fatal("the counter identity must not participate in equivalence")
	}

	c := CountingLeaf{Size: geometry.Size{Width: 5, Height: 5}, Generation: 1, Counter: counterA}
	if equivalent, _ := a.IsEquivalent(c); equivalent {
		t.Fatal("generation participates in equivalence")
	}
}

func TestLabelWidthTracksText(t *testing.T) {
	env := environment.Empty()
	unconstrained := geometry.Unconstrained()

	narrow := Label{Text: "a"}.Content().Measure(unconstrained, env)
	wide := Label{Text: "aaaa"}.Content().Measure(unconstrained, env)

	if wide.Width != 4*narrow.Width {
		t.Fatalf("fixed-width face: got %v and %v", narrow.Width, wide.Width)
	}
	if narrow.Height != wide.Height || narrow.Height == 0 {
		t.Fatalf("heights: %v and %v", narrow.Height, wide.Height)
	}

	multiline := Label{Text: "aa\nzzzzzz"}.Content().Measure(unconstrained, env)
	if multiline.Width != 2*narrow.Width {
		t.Fatalf("only the first line measures: got %v", multiline.Width)
	}
}

func TestInsetAddsToChildSize(t *testing.T) {
	inset := Inset{Amount: 6, Child: Spacer{Size: geometry.Size{Width: 10, Height: 20}}}

	size := inset.Content().Measure(geometry.Unconstrained(), environment.Empty())
	if (size != geometry.Size{Width: 22, Height: 32}) {
		t.Fatalf("got %+v", size)
	}
}

func TestColumnStacksVertically(t *testing.T) {
	column := Column{Children: []element.Element{
		Spacer{Size: geometry.Size{Width: 10, Height: 5}},
		Spacer{Size: geometry.Size{Width: 30, Height: 7}},
	}}

	size := column.Content().Measure(geometry.Unconstrained(), environment.Empty())
	if (size != geometry.Size{Width: 30, Height: 12}) {
		t.Fatalf("got %+v", size)
	}
}
