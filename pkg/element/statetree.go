package element

import (
	"reflect"

	"github.com/go-stencil/stencil/pkg/environment"
)

// StateTree owns the root ElementState and the pass lifecycle hooks. A host
// retains one StateTree per hosted element tree for the lifetime of the
// hosting view; all caches live inside it and nothing is persisted.
//
// The host must call PrepareForLayout exactly once at the start of every
// pass and FinishedLayout exactly once at the end, or use PerformPass which
// wraps the full cycle.
type StateTree struct {
	name    string
	root    *ElementState
	metrics *PassMetrics
}

// NewStateTree creates an empty tree. The name is used for cache naming and
// diagnostics only.
func NewStateTree(name string) *StateTree {
	return &StateTree{name: name}
}

// Name returns the tree's diagnostic name.
func (t *StateTree) Name() string {
	return t.name
}

// Root returns the root state, or nil before the first update.
func (t *StateTree) Root() *ElementState {
	return t.root
}

// SetMetrics attaches a metrics recorder. Pass nil to stop recording.
func (t *StateTree) SetMetrics(metrics *PassMetrics) {
	t.metrics = metrics
}

// Metrics returns the attached recorder, or nil.
func (t *StateTree) Metrics() *PassMetrics {
	return t.metrics
}

// Update reconciles the root element with the retained root state.
//
// A nil element tears the tree down. A type change discards the old
// subtree wholesale and starts fresh; state is never reused across a type
// change. Otherwise the root is updated in place, at most once per pass.
func (t *StateTree) Update(root Element, env environment.Environment) *ElementState {
	if root == nil {
		t.root = nil
		return nil
	}

	if t.root != nil && reflect.TypeOf(t.root.element.value) == reflect.TypeOf(root) {
		if !t.root.hasUpdated {
			t.root.update(root, env)
			t.root.hasUpdated = true
		}
		if !t.root.wasVisited {
			t.root.wasVisited = true
			t.root.countVisit()
		}
		return t.root
	}

	factory := identifierFactory{}
	t.root = newElementState(t, nil, factory.identify(root, nil), root)
	t.root.wasVisited = true
	t.root.hasUpdated = true
	t.root.countVisit()
	return t.root
}

// PrepareForLayout is the pass-start hook: it clears visitation and update
// flags across the whole retained tree.
func (t *StateTree) PrepareForLayout() {
	if t.metrics != nil {
		t.metrics.beginPass()
	}
	if t.root != nil {
		t.root.prepareForPass()
	}
}

// FinishedLayout is the pass-end hook: it garbage-collects states that were
// not visited this pass, wipes caches with no equivalence gate, and drops
// per-pass content references.
func (t *StateTree) FinishedLayout() {
	if t.root == nil {
		return
	}
	if !t.root.wasVisited {
		if t.metrics != nil {
			t.metrics.NodesCollected += t.root.LiveNodeCount()
		}
		t.root = nil
		return
	}
	t.root.finishPass()
}
