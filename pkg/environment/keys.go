package environment

import "github.com/go-stencil/stencil/pkg/geometry"

// Standard keys installed by hosts before each pass.

type displayScaleKey struct{}

// DefaultValue returns 1.0 (one logical pixel per device pixel).
func (displayScaleKey) DefaultValue() any { return 1.0 }

// DisplayScaleKey carries the device pixel scale factor.
var DisplayScaleKey Key = displayScaleKey{}

// DisplayScale reads the device pixel scale from the environment.
func DisplayScale(env Environment) float64 {
	scale, _ := env.Value(DisplayScaleKey).(float64)
	if scale <= 0 {
		return 1
	}
	return scale
}

// WithDisplayScale returns the environment with the scale factor set.
func WithDisplayScale(env Environment, scale float64) Environment {
	return env.Setting(DisplayScaleKey, scale)
}

type safeAreaInsetsKey struct{}

func (safeAreaInsetsKey) DefaultValue() any { return geometry.Insets{} }

// SafeAreaInsetsKey carries the host view's safe-area insets.
var SafeAreaInsetsKey Key = safeAreaInsetsKey{}

// SafeAreaInsets reads the safe-area insets from the environment.
func SafeAreaInsets(env Environment) geometry.Insets {
	insets, _ := env.Value(SafeAreaInsetsKey).(geometry.Insets)
	return insets
}

type localeKey struct{}

func (localeKey) DefaultValue() any { return "en-US" }

// LocaleKey carries the host locale as a BCP 47 tag.
var LocaleKey Key = localeKey{}

// Locale reads the locale tag from the environment.
func Locale(env Environment) string {
	tag, _ := env.Value(LocaleKey).(string)
	return tag
}
