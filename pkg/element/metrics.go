package element

import "time"

// PassMetrics accumulates counters for layout passes. Attach one to a
// StateTree with SetMetrics; counters that are per-pass are reset by
// PrepareForLayout, cumulative ones keep growing.
//
// Like every other part of the engine, PassMetrics assumes single-threaded
// access during a pass.
type PassMetrics struct {
	// Passes counts completed passes (cumulative).
	Passes int

	// Per-pass counters, reset at pass start.
	NodesVisited       int
	NodesCreated       int
	NodesCollected     int
	NodesInvalidated   int
	MeasureCacheHits   int
	MeasureCacheMisses int
	LayoutCacheHits    int
	LayoutCacheMisses  int
	RenderCacheHits    int
	RenderCacheMisses  int

	// PassDuration is the wall time of the most recent full pass.
	PassDuration time.Duration
}

func (m *PassMetrics) beginPass() {
	m.NodesVisited = 0
	m.NodesCreated = 0
	m.NodesCollected = 0
	m.NodesInvalidated = 0
	m.MeasureCacheHits = 0
	m.MeasureCacheMisses = 0
	m.LayoutCacheHits = 0
	m.LayoutCacheMisses = 0
	m.RenderCacheHits = 0
	m.RenderCacheMisses = 0
}
