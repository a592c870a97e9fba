package element

import (
	"reflect"

	"github.com/go-stencil/stencil/pkg/environment"
)

// Fields builds an equivalence function from a list of field projections,
// so leaf authors get [Equivalent] without hand-written comparison
// boilerplate:
//
//	type Label struct {
//	    Text string
//	    Font Font
//	}
//
//	var labelFields = element.Fields(
//	    func(l Label) any { return l.Text },
//	    func(l Label) any { return l.Font },
//	)
//
//	func (l Label) IsEquivalent(other element.Element) (bool, error) {
//	    return labelFields(l, other)
//	}
//
// Projected values are compared with [environment.Equatable] when
// implemented, reflect.DeepEqual otherwise. A concrete-type mismatch
// compares as not equivalent rather than erroring.
func Fields[E Element](projections ...func(E) any) func(E, Element) (bool, error) {
	return func(self E, other Element) (bool, error) {
		previous, ok := other.(E)
		if !ok {
			return false, nil
		}
		for _, project := range projections {
			if !environment.ValuesEqual(project(self), project(previous)) {
				return false, nil
			}
		}
		return true, nil
	}
}

// DeepEqual is a catch-all equivalence check comparing two elements of the
// same concrete type with reflect.DeepEqual. Prefer [Fields] for elements
// carrying callbacks or other fields that should not participate in
// equivalence.
func DeepEqual(self, other Element) (bool, error) {
	if reflect.TypeOf(self) != reflect.TypeOf(other) {
		return false, nil
	}
	return reflect.DeepEqual(self, other), nil
}
