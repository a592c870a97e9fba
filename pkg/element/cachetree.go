package element

import (
	"fmt"
	"reflect"

	"github.com/go-stencil/stencil/pkg/geometry"
)

// CacheTree is the per-pass measurement cache: a hierarchical memoizer for
// constraint-to-size lookups, mirroring tree structure through named
// subcaches. It is distinct from the cross-pass caches in ElementState and
// is discarded when the pass ends.
//
// Constraint keys are canonicalized to device-pixel boundaries before
// lookup and storage so floating-point drift cannot fragment the cache;
// compute functions still receive the original, unrounded constraint.
type CacheTree struct {
	name    string
	scale   float64
	options LayoutOptions
	metrics *PassMetrics

	sizes     map[geometry.SizeConstraint]geometry.Size
	subcaches map[subcacheKey]*CacheTree
}

type subcacheKey struct {
	index    int
	siblings int
	typeName string
}

// NewCacheTree creates a root cache for one pass.
func NewCacheTree(name string, scale float64, options LayoutOptions) *CacheTree {
	return &CacheTree{name: name, scale: scale, options: options}
}

func newCacheTree(name string, scale float64, options LayoutOptions, metrics *PassMetrics) *CacheTree {
	return &CacheTree{name: name, scale: scale, options: options, metrics: metrics}
}

// Name returns the cache's diagnostic path name.
func (c *CacheTree) Name() string {
	return c.name
}

// Get returns the memoized size for the constraint, or computes and stores
// it. The compute function receives the original constraint, not the
// snapped cache key.
func (c *CacheTree) Get(constraint geometry.SizeConstraint, compute func(geometry.SizeConstraint) geometry.Size) geometry.Size {
	key := constraint.Snapped(c.scale)

	if size, ok := c.sizes[key]; ok {
		c.countHit()
		return size
	}
	if c.options.SearchUnconstrainedKeys {
		if size, ok := c.searchUnconstrained(key); ok {
			c.countHit()
			c.store(key, size)
			return size
		}
	}
	c.countMiss()

	size := compute(constraint)
	c.store(key, size)
	if c.options.HintRangeBoundaries {
		c.hintBoundaries(key, size)
	}
	return size
}

// Subcache returns the named child cache for a sibling position, creating
// it on first use.
func (c *CacheTree) Subcache(index, siblings int, child Element) *CacheTree {
	key := subcacheKey{
		index:    index,
		siblings: siblings,
		typeName: reflect.TypeOf(child).String(),
	}
	if existing, ok := c.subcaches[key]; ok {
		return existing
	}
	subcache := &CacheTree{
		name:    fmt.Sprintf("%s/%d.%s", c.name, index, key.typeName),
		scale:   c.scale,
		options: c.options,
		metrics: c.metrics,
	}
	if c.subcaches == nil {
		c.subcaches = make(map[subcacheKey]*CacheTree)
	}
	c.subcaches[key] = subcache
	return subcache
}

func (c *CacheTree) store(key geometry.SizeConstraint, size geometry.Size) {
	if c.sizes == nil {
		c.sizes = make(map[geometry.SizeConstraint]geometry.Size)
	}
	c.sizes[key] = size
}

func (c *CacheTree) storeIfAbsent(key geometry.SizeConstraint, size geometry.Size) {
	if _, ok := c.sizes[key]; ok {
		return
	}
	c.store(key, size)
}

// searchUnconstrained looks for a previously recorded measurement with one
// or both axes unconstrained whose result already satisfies the requested
// bounds. If measuring with unlimited width yielded width W, any "at most
// M >= W" query on that axis is guaranteed to yield the same result.
func (c *CacheTree) searchUnconstrained(key geometry.SizeConstraint) (geometry.Size, bool) {
	if !key.Width.Unconstrained {
		probe := key
		probe.Width = geometry.UnconstrainedAxis()
		if size, ok := c.sizes[probe]; ok && size.Width <= key.Width.Max {
			return size, true
		}
	}
	if !key.Height.Unconstrained {
		probe := key
		probe.Height = geometry.UnconstrainedAxis()
		if size, ok := c.sizes[probe]; ok && size.Height <= key.Height.Max {
			return size, true
		}
	}
	if !key.Width.Unconstrained && !key.Height.Unconstrained {
		probe := geometry.Unconstrained()
		if size, ok := c.sizes[probe]; ok && size.Width <= key.Width.Max && size.Height <= key.Height.Max {
			return size, true
		}
	}
	return geometry.Size{}, false
}

// hintBoundaries records a measurement taken with an unconstrained axis
// under the constrained key implied by its result: querying "at most
// exactly what you measured" must produce the same answer.
func (c *CacheTree) hintBoundaries(key geometry.SizeConstraint, size geometry.Size) {
	if key.Width.Unconstrained {
		hinted := key
		hinted.Width = geometry.AtMost(geometry.SnapToScale(size.Width, c.scale))
		c.storeIfAbsent(hinted, size)
	}
	if key.Height.Unconstrained {
		hinted := key
		hinted.Height = geometry.AtMost(geometry.SnapToScale(size.Height, c.scale))
		c.storeIfAbsent(hinted, size)
	}
	if key.Width.Unconstrained && key.Height.Unconstrained {
		hinted := geometry.SizeConstraint{
			Width:  geometry.AtMost(geometry.SnapToScale(size.Width, c.scale)),
			Height: geometry.AtMost(geometry.SnapToScale(size.Height, c.scale)),
		}
		c.storeIfAbsent(hinted, size)
	}
}

func (c *CacheTree) countHit() {
	if c.metrics != nil {
		c.metrics.RenderCacheHits++
	}
}

func (c *CacheTree) countMiss() {
	if c.metrics != nil {
		c.metrics.RenderCacheMisses++
	}
}
