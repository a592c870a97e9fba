package element

import (
	"fmt"
	"reflect"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/errors"
	"github.com/go-stencil/stencil/pkg/geometry"
)

// Comparability classifies whether an ElementState's caches may be trusted
// across passes.
type Comparability int

const (
	// NotComparable elements never carry caches across a pass.
	NotComparable Comparability = iota
	// Comparable elements implement an equivalence check and gate their
	// own caches with it.
	Comparable
	// ChildOfComparable elements inherit their nearest comparable
	// ancestor's decision: their caches are cleared exactly when that
	// ancestor is invalidated.
	ChildOfComparable
)

func (c Comparability) String() string {
	switch c {
	case NotComparable:
		return "notComparable"
	case Comparable:
		return "comparable"
	case ChildOfComparable:
		return "childOfComparable"
	default:
		return fmt.Sprintf("Comparability(%d)", int(c))
	}
}

// sharedElement is the mutable box holding the freshest element value for a
// tree position. Cached layout-result nodes capture the box rather than the
// value, so resolution always observes the latest element even when the
// surrounding layout was served from cache.
type sharedElement struct {
	value Element
	// content is the per-pass cached Content, dropped at pass end.
	content *Content
}

// cachedMeasurement is one measurement cache entry: the computed size plus
// the environment keys the computation read, captured for revalidation.
type cachedMeasurement struct {
	size         geometry.Size
	dependencies environment.Subset
}

// cachedLayout is one layout cache entry, retained only for comparable
// elements.
type cachedLayout struct {
	nodes        []IdentifiedNode
	dependencies environment.Subset
}

// ElementState is the long-lived cache and identity node paired 1:1 with a
// position in the element tree across passes. It holds the cross-pass
// measurement and layout caches, the comparability classification that
// gates them, and the ordered child map that gives identifiers their
// stability.
//
// All access is single-threaded by contract: one pass runs to completion
// before another begins.
type ElementState struct {
	tree          *StateTree
	parent        *ElementState
	identifier    Identifier
	depth         int
	comparability Comparability

	element *sharedElement

	measurements map[geometry.SizeConstraint]*cachedMeasurement
	layouts      map[geometry.Size]*cachedLayout

	// children is ordered by first insertion, keyed by Identifier.
	children *linkedhashmap.Map

	wasVisited    bool
	hasUpdated    bool
	wasEquivalent bool
}

func newElementState(tree *StateTree, parent *ElementState, identifier Identifier, value Element) *ElementState {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	state := &ElementState{
		tree:          tree,
		parent:        parent,
		identifier:    identifier,
		depth:         depth,
		comparability: comparabilityOf(value, parent),
		element:       &sharedElement{value: value},
		children:      linkedhashmap.New(),
	}
	if tree != nil && tree.metrics != nil {
		tree.metrics.NodesCreated++
	}
	return state
}

func comparabilityOf(value Element, parent *ElementState) Comparability {
	if isComparable(value) {
		return Comparable
	}
	if parent != nil && parent.comparability != NotComparable {
		return ChildOfComparable
	}
	return NotComparable
}

func isComparable(value Element) bool {
	if _, ok := value.(EnvironmentEquivalent); ok {
		return true
	}
	_, ok := value.(Equivalent)
	return ok
}

// Identifier returns the state's stable identifier.
func (s *ElementState) Identifier() Identifier {
	return s.identifier
}

// Comparability returns the state's cache classification.
func (s *ElementState) Comparability() Comparability {
	return s.comparability
}

// LatestElement returns the freshest element value observed for this
// position.
func (s *ElementState) LatestElement() Element {
	return s.element.value
}

// WasEquivalent reports whether the most recent update found the new
// element equivalent to the previous one. Debug introspection only.
func (s *ElementState) WasEquivalent() bool {
	return s.wasEquivalent
}

// ChildCount returns the number of live child states.
func (s *ElementState) ChildCount() int {
	return s.children.Size()
}

// LiveNodeCount returns the number of states in the subtree including the
// receiver.
func (s *ElementState) LiveNodeCount() int {
	total := 1
	s.eachChild(func(child *ElementState) {
		total += child.LiveNodeCount()
	})
	return total
}

func (s *ElementState) eachChild(fn func(*ElementState)) {
	for _, key := range s.children.Keys() {
		if value, ok := s.children.Get(key); ok {
			fn(value.(*ElementState))
		}
	}
}

// contentForPass returns the element's Content, computed at most once per
// pass per node.
func (s *ElementState) contentForPass() Content {
	if s.element.content == nil {
		content := s.element.value.Content()
		s.element.content = &content
	}
	return *s.element.content
}

// ChildState returns the state for a child element, creating it on first
// encounter and running the update algorithm exactly once per pass.
func (s *ElementState) ChildState(child Element, env environment.Environment, identifier Identifier) *ElementState {
	if existing, ok := s.children.Get(identifier); ok {
		state := existing.(*ElementState)
		if stored := reflect.TypeOf(state.element.value); stored != identifier.Type {
			panic(fmt.Sprintf(
				"stencil: element state %s holds a %s; an identifier may never change its element type",
				identifier, stored,
			))
		}
		if !state.hasUpdated {
			state.update(child, env)
			state.hasUpdated = true
		}
		if !state.wasVisited {
			state.wasVisited = true
			s.countVisit()
		}
		return state
	}

	state := newElementState(s.tree, s, identifier, child)
	state.wasVisited = true
	state.hasUpdated = true
	s.children.Put(identifier, state)
	s.countVisit()
	return state
}

func (s *ElementState) countVisit() {
	if s.tree != nil && s.tree.metrics != nil {
		s.tree.metrics.NodesVisited++
	}
}

// update implements the per-pass invalidation state machine: decide
// equivalence, clear or selectively evict caches accordingly, then adopt
// the new element value.
func (s *ElementState) update(newElement Element, env environment.Environment) {
	if stored, incoming := reflect.TypeOf(s.element.value), reflect.TypeOf(newElement); stored != incoming {
		panic(fmt.Sprintf(
			"stencil: element state %s updated with %s; identifiers must be stable across passes",
			s.identifier, incoming,
		))
	}

	equivalent := false
	switch s.comparability {
	case NotComparable:
		// Stale caches are never trusted without an equivalence gate.
	case ChildOfComparable:
		// Delegated entirely to the nearest comparable ancestor: if that
		// ancestor was invalidated it already cleared this node's caches.
		equivalent = true
	case Comparable:
		equivalent = checkEquivalence(s.element.value, newElement, env)
	}

	if equivalent {
		// Trust the caches, but evict any entry whose recorded
		// environment dependencies no longer hold.
		s.evictStale(env)
	} else {
		s.clearOwnCaches()
		if s.comparability == Comparable {
			// Cascade through the subtree, sparing independently
			// comparable descendants: they make their own decision when
			// visited.
			s.eachChild(func(child *ElementState) {
				child.clearCascading()
			})
		}
		if s.tree != nil && s.tree.metrics != nil {
			s.tree.metrics.NodesInvalidated++
		}
	}

	s.element.value = newElement
	s.element.content = nil
	s.wasEquivalent = equivalent
}

// checkEquivalence runs the element's own equivalence check. Errors and
// panics are reported and decided as "not equivalent": the engine does
// more work rather than ever caching an incorrect result.
func checkEquivalence(previous, next Element, env environment.Environment) (result bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			errors.Report(&errors.EngineError{
				Op:         "element.checkEquivalence",
				Kind:       errors.KindEquivalence,
				Err:        fmt.Errorf("equivalence check for %T panicked: %v", next, recovered),
				StackTrace: errors.CaptureStack(),
			})
			result = false
		}
	}()

	if scoped, ok := next.(EnvironmentEquivalent); ok {
		equivalent, err := scoped.IsEquivalentInEnvironment(previous, env)
		if err != nil {
			errors.Report(&errors.EngineError{
				Op:   "element.checkEquivalence",
				Kind: errors.KindEquivalence,
				Err:  err,
			})
			return false
		}
		return equivalent
	}
	if plain, ok := next.(Equivalent); ok {
		equivalent, err := plain.IsEquivalent(previous)
		if err != nil {
			errors.Report(&errors.EngineError{
				Op:   "element.checkEquivalence",
				Kind: errors.KindEquivalence,
				Err:  err,
			})
			return false
		}
		return equivalent
	}
	return false
}

func (s *ElementState) clearOwnCaches() {
	s.measurements = nil
	s.layouts = nil
}

// clearCascading clears this node and recurses, stopping at independently
// comparable nodes.
func (s *ElementState) clearCascading() {
	if s.comparability == Comparable {
		return
	}
	s.clearOwnCaches()
	s.eachChild(func(child *ElementState) {
		child.clearCascading()
	})
}

// evictStale removes cache entries whose recorded environment subset no
// longer matches the current environment.
func (s *ElementState) evictStale(env environment.Environment) {
	for constraint, entry := range s.measurements {
		if !entry.dependencies.MatchesRead(env) {
			delete(s.measurements, constraint)
		}
	}
	for size, entry := range s.layouts {
		if !entry.dependencies.MatchesRead(env) {
			delete(s.layouts, size)
		}
	}
}

// Measure returns the cached size for the constraint or computes it,
// recording the environment keys the computation reads. A cached entry is
// only served when its recorded dependency subset still matches env.
func (s *ElementState) Measure(constraint geometry.SizeConstraint, env environment.Environment, compute func(environment.Environment) geometry.Size) geometry.Size {
	if entry, ok := s.measurements[constraint]; ok && entry.dependencies.MatchesRead(env) {
		if s.tree != nil && s.tree.metrics != nil {
			s.tree.metrics.MeasureCacheHits++
		}
		return entry.size
	}
	if s.tree != nil && s.tree.metrics != nil {
		s.tree.metrics.MeasureCacheMisses++
	}

	recorder := environment.NewRecorder(env)
	size := compute(recorder.Environment())
	if !size.IsFinite() {
		panic(fmt.Sprintf(
			"stencil: measuring %s within %s produced non-finite size %+v",
			s.identifier, constraint, size,
		))
	}
	if s.measurements == nil {
		s.measurements = make(map[geometry.SizeConstraint]*cachedMeasurement)
	}
	s.measurements[constraint] = &cachedMeasurement{size: size, dependencies: recorder.Subset()}
	return size
}

// LayoutCached returns the cached child layout for the container size or
// computes it. Only comparable elements cache layouts: without an
// equivalence gate a cached layout could never be trusted, and a
// non-comparable node's parent recomputes every pass anyway.
func (s *ElementState) LayoutCached(size geometry.Size, env environment.Environment, compute func(environment.Environment) []IdentifiedNode) []IdentifiedNode {
	if s.comparability != Comparable {
		return compute(env)
	}

	if entry, ok := s.layouts[size]; ok && entry.dependencies.MatchesRead(env) {
		if s.tree != nil && s.tree.metrics != nil {
			s.tree.metrics.LayoutCacheHits++
		}
		// Children below a cached layout are not re-enumerated this
		// pass; mark them visited so pass-end garbage collection keeps
		// them (and their caches) alive.
		s.eachChild(func(child *ElementState) {
			child.markSubtreeVisited()
		})
		return entry.nodes
	}
	if s.tree != nil && s.tree.metrics != nil {
		s.tree.metrics.LayoutCacheMisses++
	}

	recorder := environment.NewRecorder(env)
	nodes := compute(recorder.Environment())
	if s.layouts == nil {
		s.layouts = make(map[geometry.Size]*cachedLayout)
	}
	s.layouts[size] = &cachedLayout{nodes: nodes, dependencies: recorder.Subset()}
	return nodes
}

func (s *ElementState) markSubtreeVisited() {
	s.wasVisited = true
	s.hasUpdated = true
	s.eachChild(func(child *ElementState) {
		child.markSubtreeVisited()
	})
}

// prepareForPass clears the per-pass flags across the retained subtree.
func (s *ElementState) prepareForPass() {
	s.wasVisited = false
	s.hasUpdated = false
	s.eachChild(func(child *ElementState) {
		child.prepareForPass()
	})
}

// finishPass garbage-collects unvisited children, wipes caches that have
// no equivalence gate protecting them, and drops per-pass content.
func (s *ElementState) finishPass() {
	var removed []Identifier
	s.eachChild(func(child *ElementState) {
		if !child.wasVisited {
			removed = append(removed, child.identifier)
			return
		}
		child.finishPass()
	})
	for _, identifier := range removed {
		if value, ok := s.children.Get(identifier); ok {
			if s.tree != nil && s.tree.metrics != nil {
				s.tree.metrics.NodesCollected += value.(*ElementState).LiveNodeCount()
			}
		}
		s.children.Remove(identifier)
	}

	if s.comparability != Comparable {
		s.clearOwnCaches()
	}
	s.element.content = nil
}
