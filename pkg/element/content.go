package element

import (
	"github.com/go-stencil/stencil/pkg/environment"
	"github.com/go-stencil/stencil/pkg/geometry"
)

// Content describes an element's children together with the strategy used
// to measure and lay them out. Obtain one from the constructors below;
// the zero value is valid and behaves as an empty leaf.
type Content struct {
	storage contentStorage
}

// ChildCount returns the number of entries the content contributes to a
// layout-result child list: 0 for leaves and detached content, 1 for
// single-child wrappers, N for containers. Callers precondition on this.
func (c Content) ChildCount() int {
	if c.storage == nil {
		return 0
	}
	return c.storage.childCount()
}

// Measure measures the content within the constraint, with no persistent
// state or per-pass cache attached. Handy for hosts sizing a root element
// outside a pass and for leaf tests.
func (c Content) Measure(constraint geometry.SizeConstraint, env environment.Environment) geometry.Size {
	if c.storage == nil {
		return geometry.Size{}
	}
	return c.storage.measure(constraint, measureContext{environment: env, phase: PhaseMeasurement})
}

// measureContext carries the ambient state for one measurement call.
// state and cache may be nil for detached measurement.
type measureContext struct {
	environment environment.Environment
	state       *ElementState
	cache       *CacheTree
	phase       LayoutPhase
}

// layoutContext carries the ambient state for one placement call.
type layoutContext struct {
	environment environment.Environment
	state       *ElementState
	cache       *CacheTree
	// proposal is the constraint this node was sized within. Layouts
	// receive it in PlaceSubviews, so sizing probes during placement land
	// on cache keys the measurement phase already populated.
	proposal geometry.SizeConstraint
}

func (ctx layoutContext) measureContext() measureContext {
	return measureContext{
		environment: ctx.environment,
		state:       ctx.state,
		cache:       ctx.cache,
		phase:       PhasePlacement,
	}
}

type contentStorage interface {
	childCount() int
	measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size
	performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode
}

// Child is one entry in a container's ordered child list.
type Child struct {
	Element Element
	// Key optionally disambiguates siblings, overriding the element's own
	// Keyed key. Must be comparable.
	Key any
	// Traits are exposed to the container's Layout.
	Traits Traits
}

// ---------------------------------------------------------------------------
// Container content

type containerStorage struct {
	layout   Layout
	children []Child
}

// LayoutContent builds content that delegates measurement and placement of
// the given children to a Layout.
func LayoutContent(layout Layout, children ...Child) Content {
	return Content{storage: containerStorage{layout: layout, children: children}}
}

// ChildContent builds content with a single child that fills the element's
// bounds. The wrapper still occupies a position in the element-state tree;
// use PassthroughContent for fully transparent proxies.
func ChildContent(child Element) Content {
	return LayoutContent(fillLayout{}, Child{Element: child})
}

func (s containerStorage) childCount() int {
	return len(s.children)
}

func (s containerStorage) measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size {
	subviews := s.makeSubviews(ctx.environment, ctx.state, ctx.cache, ctx.phase)
	return s.layout.SizeThatFits(constraint, subviews)
}

func (s containerStorage) performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode {
	entries := s.resolveChildren()
	subviews := s.subviewsFor(entries, ctx.environment, ctx.state, ctx.cache, PhasePlacement)

	bounds := geometry.RectFromSize(size)
	s.layout.PlaceSubviews(bounds, ctx.proposal, subviews)

	nodes := make([]IdentifiedNode, 0, len(subviews))
	for _, subview := range subviews {
		entry := entries[subview.index]
		frame := subview.finalFrame(ctx.proposal)
		proposal := subview.measuredProposal(geometry.SizeConstraintAtMost(frame.Size()))
		nodes = append(nodes, layoutChildNode(entry, frame, proposal, ctx))
	}
	return nodes
}

// resolvedChild pairs a child entry with its identifier and (optionally)
// its element state and cache node.
type resolvedChild struct {
	element    Element
	traits     Traits
	identifier Identifier
	state      *ElementState
	cache      *CacheTree
}

// resolveChildren collapses passthrough proxies and assigns identifiers.
// Identifier assignment is deterministic for the ordered child list, so
// measurement, placement and successive passes agree.
func (s containerStorage) resolveChildren() []resolvedChild {
	factory := identifierFactory{}
	entries := make([]resolvedChild, 0, len(s.children))
	for _, child := range s.children {
		resolved := collapsePassthrough(child.Element)
		entries = append(entries, resolvedChild{
			element:    resolved,
			traits:     child.Traits,
			identifier: factory.identify(resolved, child.Key),
		})
	}
	return entries
}

func (s containerStorage) makeSubviews(env environment.Environment, state *ElementState, cache *CacheTree, phase LayoutPhase) Subviews {
	return s.subviewsFor(s.resolveChildren(), env, state, cache, phase)
}

func (s containerStorage) subviewsFor(entries []resolvedChild, env environment.Environment, state *ElementState, cache *CacheTree, phase LayoutPhase) Subviews {
	subviews := make(Subviews, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if state != nil {
			entry.state = state.ChildState(entry.element, env, entry.identifier)
		}
		if cache != nil {
			entry.cache = cache.Subcache(i, len(entries), entry.element)
		}
		subviews = append(subviews, &Subview{
			element: entry.element,
			traits:  entry.traits,
			index:   i,
			phase:   phase,
			measure: childMeasurer(*entry, env),
		})
	}
	return subviews
}

// childMeasurer layers the two caches in front of the child's own content:
// the per-pass cache tree first, then the cross-pass element-state cache
// with environment dependency tracking, then the actual computation.
//
// Measuring is always a sizing-only evaluation, even when the probe happens
// inside PlaceSubviews: lazy content builds its measurement stand-in here
// and its real child only when the lazy node itself is placed.
func childMeasurer(entry resolvedChild, env environment.Environment) func(geometry.SizeConstraint) geometry.Size {
	return func(proposal geometry.SizeConstraint) geometry.Size {
		stateful := func() geometry.Size {
			if entry.state == nil {
				return entry.element.Content().storage.measure(proposal, measureContext{
					environment: env,
					cache:       entry.cache,
					phase:       PhaseMeasurement,
				})
			}
			return entry.state.Measure(proposal, env, func(tracked environment.Environment) geometry.Size {
				return entry.state.contentForPass().storage.measure(proposal, measureContext{
					environment: tracked,
					state:       entry.state,
					cache:       entry.cache,
					phase:       PhaseMeasurement,
				})
			})
		}
		if entry.cache == nil {
			return stateful()
		}
		return entry.cache.Get(proposal, func(geometry.SizeConstraint) geometry.Size {
			return stateful()
		})
	}
}

// layoutChildNode builds the layout-result entry for one placed child,
// recursing into the child's own content for grandchildren. The proposal
// is the constraint the child was sized within.
func layoutChildNode(entry resolvedChild, frame geometry.Rect, proposal geometry.SizeConstraint, ctx layoutContext) IdentifiedNode {
	return layoutChildNodeIn(entry, frame, proposal, ctx.environment, ctx)
}

// layoutChildNodeIn is layoutChildNode with an explicit child environment,
// used by environment-adapting content to hand descendants the adapted
// environment while caching against the outer one.
func layoutChildNodeIn(entry resolvedChild, frame geometry.Rect, proposal geometry.SizeConstraint, childEnv environment.Environment, ctx layoutContext) IdentifiedNode {
	childSize := frame.Size()
	var children []IdentifiedNode
	var latest *sharedElement

	compute := func(tracked environment.Environment) []IdentifiedNode {
		content := entry.element.Content()
		if entry.state != nil {
			content = entry.state.contentForPass()
		}
		return content.storage.performLayout(childSize, layoutContext{
			environment: tracked,
			state:       entry.state,
			cache:       entry.cache,
			proposal:    proposal,
		})
	}
	if entry.state != nil {
		children = entry.state.LayoutCached(childSize, childEnv, compute)
		latest = entry.state.element
	} else {
		children = compute(childEnv)
	}

	node := LayoutResultNode{
		Element:     entry.element,
		Identifier:  entry.identifier,
		Attributes:  geometry.NewLayoutAttributes(frame),
		Environment: childEnv,
		Children:    children,
		latest:      latest,
	}
	return IdentifiedNode{Identifier: entry.identifier, Node: node}
}

// fillLayout sizes to its single child and hands it the full bounds.
type fillLayout struct{}

func (fillLayout) SizeThatFits(proposal geometry.SizeConstraint, subviews Subviews) geometry.Size {
	if len(subviews) == 0 {
		return geometry.Size{}
	}
	return subviews[0].SizeThatFits(proposal)
}

func (fillLayout) PlaceSubviews(bounds geometry.Rect, proposal geometry.SizeConstraint, subviews Subviews) {
	for _, subview := range subviews {
		// The child is sized with the placement proposal even though it is
		// handed the full bounds. A pass that starts at an explicit frame
		// never sizes the root, so this is where a wrapped subtree's
		// measurement runs.
		subview.SizeThatFits(proposal)
		subview.PlaceInRect(geometry.RectFromSize(bounds.Size()))
	}
}

// ---------------------------------------------------------------------------
// Passthrough content

type passthroughStorage struct {
	child Element
}

// PassthroughContent builds content that forwards measurement and layout to
// one child completely unmodified. Passthrough elements are layout- and
// render-neutral proxies: they contribute no element-state node, no cache
// level, and no resolved view, keeping tree depth proportional to
// layout-relevant structure. The proxy's own BackingViewDescription is
// never consulted.
func PassthroughContent(child Element) Content {
	return Content{storage: passthroughStorage{child: child}}
}

func (s passthroughStorage) childCount() int {
	return 1
}

func (s passthroughStorage) measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size {
	return collapsePassthrough(s.child).Content().storage.measure(constraint, ctx)
}

func (s passthroughStorage) performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode {
	return collapsePassthrough(s.child).Content().storage.performLayout(size, ctx)
}

// collapsePassthrough skips chains of passthrough proxies down to the first
// element that participates in layout.
func collapsePassthrough(e Element) Element {
	for {
		storage, ok := e.Content().storage.(passthroughStorage)
		if !ok {
			return e
		}
		e = storage.child
	}
}

// ---------------------------------------------------------------------------
// Environment-adapting content

type environmentAdaptingStorage struct {
	child Element
	adapt func(environment.Environment) environment.Environment
}

// AdaptedContent builds content that transforms the environment before
// passing it down to its single child. The adapted environment is applied
// consistently to measurement, layout and descendant enumeration. The
// child fills the element's bounds.
func AdaptedContent(child Element, adapt func(environment.Environment) environment.Environment) Content {
	return Content{storage: environmentAdaptingStorage{child: child, adapt: adapt}}
}

// SettingContent builds content that sets a single environment key for its
// child subtree.
func SettingContent(child Element, key environment.Key, value any) Content {
	return AdaptedContent(child, func(env environment.Environment) environment.Environment {
		return env.Setting(key, value)
	})
}

func (s environmentAdaptingStorage) childCount() int {
	return 1
}

// adapted applies the adaptation. The adapted environment keeps the outer
// environment's read subscription (Setting preserves it), so dependency
// recording stays conservative: reads of adapter-set keys record against
// the outer environment, which can only over-invalidate, never under.
func (s environmentAdaptingStorage) adapted(env environment.Environment) environment.Environment {
	if s.adapt == nil {
		return env
	}
	return s.adapt(env)
}

func (s environmentAdaptingStorage) entry(env environment.Environment, state *ElementState, cache *CacheTree) (resolvedChild, environment.Environment) {
	adapted := s.adapted(env)
	factory := identifierFactory{}
	resolved := collapsePassthrough(s.child)
	entry := resolvedChild{
		element:    resolved,
		identifier: factory.identify(resolved, nil),
	}
	if state != nil {
		entry.state = state.ChildState(resolved, adapted, entry.identifier)
	}
	if cache != nil {
		entry.cache = cache.Subcache(0, 1, resolved)
	}
	return entry, adapted
}

func (s environmentAdaptingStorage) measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size {
	entry, adapted := s.entry(ctx.environment, ctx.state, ctx.cache)
	return childMeasurer(entry, adapted)(constraint)
}

func (s environmentAdaptingStorage) performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode {
	entry, adapted := s.entry(ctx.environment, ctx.state, ctx.cache)
	node := layoutChildNodeIn(entry, geometry.RectFromSize(size), ctx.proposal, adapted, ctx)
	return []IdentifiedNode{node}
}

// ---------------------------------------------------------------------------
// Lazy content

// LazyContext is handed to a lazy content builder when its child is
// constructed at measurement or layout time.
type LazyContext struct {
	// Constraint is the active size constraint: the measurement
	// constraint during PhaseMeasurement, the exact final size during
	// PhasePlacement.
	Constraint geometry.SizeConstraint

	// Phase distinguishes sizing-only evaluation from final placement.
	Phase LayoutPhase

	// Environment is the ambient environment.
	Environment environment.Environment
}

type lazyStorage struct {
	build func(LazyContext) Element
}

// LazyContent builds content whose single child is constructed on demand
// from the active constraint and environment. Used for size- and
// environment-reactive elements. The builder may return a different
// interior element during pure measurement than during placement.
func LazyContent(build func(LazyContext) Element) Content {
	return Content{storage: lazyStorage{build: build}}
}

func (s lazyStorage) childCount() int {
	return 1
}

func (s lazyStorage) entry(child Element, env environment.Environment, state *ElementState, cache *CacheTree) resolvedChild {
	factory := identifierFactory{}
	resolved := collapsePassthrough(child)
	entry := resolvedChild{
		element:    resolved,
		identifier: factory.identify(resolved, nil),
	}
	if state != nil {
		entry.state = state.ChildState(resolved, env, entry.identifier)
	}
	if cache != nil {
		entry.cache = cache.Subcache(0, 1, resolved)
	}
	return entry
}

func (s lazyStorage) measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size {
	child := s.build(LazyContext{
		Constraint:  constraint,
		Phase:       ctx.phase,
		Environment: ctx.environment,
	})
	entry := s.entry(child, ctx.environment, ctx.state, ctx.cache)
	return childMeasurer(entry, ctx.environment)(constraint)
}

func (s lazyStorage) performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode {
	child := s.build(LazyContext{
		Constraint:  geometry.SizeConstraintAtMost(size),
		Phase:       PhasePlacement,
		Environment: ctx.environment,
	})
	entry := s.entry(child, ctx.environment, ctx.state, ctx.cache)
	node := layoutChildNode(entry, geometry.RectFromSize(size), geometry.SizeConstraintAtMost(size), ctx)
	return []IdentifiedNode{node}
}

// ---------------------------------------------------------------------------
// Leaf content

// Measurer computes an element's intrinsic size within a constraint.
type Measurer interface {
	Measure(constraint geometry.SizeConstraint, env environment.Environment) geometry.Size
}

type leafStorage struct {
	measurer func(geometry.SizeConstraint, environment.Environment) geometry.Size
}

// MeasurableContent builds leaf content sized by the given measurer.
func MeasurableContent(measurer Measurer) Content {
	return MeasureFuncContent(measurer.Measure)
}

// MeasureFuncContent builds leaf content sized by a plain function.
func MeasureFuncContent(measure func(geometry.SizeConstraint, environment.Environment) geometry.Size) Content {
	return Content{storage: leafStorage{measurer: measure}}
}

func (s leafStorage) childCount() int {
	return 0
}

func (s leafStorage) measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size {
	if s.measurer == nil {
		return geometry.Size{}
	}
	return s.measurer(constraint, ctx.environment)
}

func (s leafStorage) performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode {
	return nil
}

// ---------------------------------------------------------------------------
// Measure-only (detached) content

type measureOnlyStorage struct {
	child Element
}

// DetachedContent builds content that measures a child for sizing purposes
// without ever placing it: the child contributes nothing to the layout
// result. Used to size content hosted in a logically separate subtree,
// such as a nested rendering context.
func DetachedContent(child Element) Content {
	return Content{storage: measureOnlyStorage{child: child}}
}

func (s measureOnlyStorage) childCount() int {
	return 0
}

func (s measureOnlyStorage) measure(constraint geometry.SizeConstraint, ctx measureContext) geometry.Size {
	factory := identifierFactory{}
	resolved := collapsePassthrough(s.child)
	entry := resolvedChild{
		element:    resolved,
		identifier: factory.identify(resolved, nil),
	}
	if ctx.state != nil {
		entry.state = ctx.state.ChildState(resolved, ctx.environment, entry.identifier)
	}
	if ctx.cache != nil {
		entry.cache = ctx.cache.Subcache(0, 1, resolved)
	}
	return childMeasurer(entry, ctx.environment)(constraint)
}

func (s measureOnlyStorage) performLayout(size geometry.Size, ctx layoutContext) []IdentifiedNode {
	return nil
}
