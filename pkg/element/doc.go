// Package element implements the incremental layout and measurement
// engine: immutable value-typed elements describing UI structure are
// measured and laid out into a tree of resolved frames and view
// descriptions, with persistent cross-pass caching.
//
// # Architecture
//
// Three trees cooperate across repeated passes:
//
//   - The element tree is rebuilt by the application every pass; elements
//     are cheap immutable values.
//   - The element-state tree ([ElementState], owned by a [StateTree]) is
//     persistent: one node per position that has ever existed in the pass
//     lineage, holding measurement and layout caches gated by element
//     equivalence and environment-dependency tracking.
//   - The layout-result tree ([LayoutResultNode]) is the per-pass output,
//     resolved into flattened [view.Node] values the host applies to live
//     views.
//
// A per-pass [CacheTree] additionally memoizes constraint-to-size queries
// so a container may probe its children freely.
//
// # Caching contract
//
// An element opts into cross-pass caching by implementing [Equivalent]
// (or [EnvironmentEquivalent]). Caches survive a pass only when the new
// element is equivalent to the previous one and every environment key the
// cached computation read still holds an equal value. Elements without an
// equivalence check are recomputed every pass; their descendants inherit
// the nearest comparable ancestor's decision.
//
// # Concurrency
//
// The engine is single-threaded and synchronous by contract: one pass runs
// to completion (conventionally on the UI thread) before another begins,
// and no cache is safe for concurrent mutation.
package element
