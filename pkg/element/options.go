package element

import "github.com/go-stencil/stencil/pkg/environment"

// LayoutOptions tunes the per-pass measurement cache. Both hints are pure
// optimizations: a pass produces identical geometry with them disabled.
//
// Hosts select options by installing them in the root environment; this is
// how behavior that once lived behind whole alternative layout protocols is
// expressed today.
type LayoutOptions struct {
	// HintRangeBoundaries additionally records an unconstrained
	// measurement under the constrained key implied by its result, so a
	// follow-up query at exactly that bound is served without
	// recomputation.
	HintRangeBoundaries bool

	// SearchUnconstrainedKeys checks, on a cache miss, whether a
	// previously recorded unconstrained measurement already satisfies
	// the requested bound.
	SearchUnconstrainedKeys bool
}

// DefaultLayoutOptions enables all cache hints.
var DefaultLayoutOptions = LayoutOptions{
	HintRangeBoundaries:     true,
	SearchUnconstrainedKeys: true,
}

type layoutOptionsKey struct{}

func (layoutOptionsKey) DefaultValue() any { return DefaultLayoutOptions }

// LayoutOptionsKey carries the active LayoutOptions in the environment.
var LayoutOptionsKey environment.Key = layoutOptionsKey{}

// OptionsIn reads the active layout options from the environment.
func OptionsIn(env environment.Environment) LayoutOptions {
	options, ok := env.Value(LayoutOptionsKey).(LayoutOptions)
	if !ok {
		return DefaultLayoutOptions
	}
	return options
}

// WithOptions returns the environment with the layout options set.
func WithOptions(env environment.Environment, options LayoutOptions) environment.Environment {
	return env.Setting(LayoutOptionsKey, options)
}
