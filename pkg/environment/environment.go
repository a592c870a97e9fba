// Package environment provides the immutable keyed value bag threaded
// top-down through an element tree during layout, along with the
// read-dependency tracking the engine uses for cache invalidation.
package environment

import "reflect"

// Key identifies a typed environment value. Keys are ordinarily empty struct
// types so they are comparable and carry no data:
//
//	type themeKey struct{}
//
//	func (themeKey) DefaultValue() any { return DefaultTheme }
//
// A key's default is returned whenever no value has been set for it.
type Key interface {
	DefaultValue() any
}

// Equatable lets environment values control their own equality. Values that
// do not implement Equatable are compared with reflect.DeepEqual.
type Equatable interface {
	Equals(other any) bool
}

// Environment is an immutable mapping from keys to values. Setting a value
// returns a new Environment sharing all prior storage; the original is never
// mutated. Clone is O(1): each mutation adds one scope frame pointing at its
// parent, and reads walk the chain before falling back to key defaults.
//
// The zero value is an empty environment.
type Environment struct {
	scope  *scope
	onRead func(Key)
}

type scope struct {
	key    Key
	value  any
	parent *scope
}

// Empty returns an environment containing only key defaults.
func Empty() Environment {
	return Environment{}
}

// Value returns the value for the key, or the key's default when unset.
// If the environment carries a read subscription, it is notified first.
func (e Environment) Value(key Key) any {
	if e.onRead != nil {
		e.onRead(key)
	}
	return e.peek(key)
}

// peek reads without notifying the subscription. Used internally when
// validating dependency subsets, where observation must not re-record.
func (e Environment) peek(key Key) any {
	for s := e.scope; s != nil; s = s.parent {
		if s.key == key {
			return s.value
		}
	}
	return key.DefaultValue()
}

// Setting returns a new environment with the key bound to value. The
// receiver is unchanged, and any read subscription carries over so adapted
// environments keep recording dependencies.
func (e Environment) Setting(key Key, value any) Environment {
	return Environment{
		scope:  &scope{key: key, value: value, parent: e.scope},
		onRead: e.onRead,
	}
}

// Subscribed returns an environment whose reads invoke fn before resolving.
// An existing subscription is preserved; both callbacks fire.
func (e Environment) Subscribed(fn func(Key)) Environment {
	if fn == nil {
		return e
	}
	previous := e.onRead
	subscribed := e
	if previous == nil {
		subscribed.onRead = fn
	} else {
		subscribed.onRead = func(key Key) {
			previous(key)
			fn(key)
		}
	}
	return subscribed
}

// Unsubscribed returns the environment with read subscriptions removed.
func (e Environment) Unsubscribed() Environment {
	e.onRead = nil
	return e
}

// ValuesEqual compares two environment values, preferring an Equatable
// implementation on either side over reflect.DeepEqual.
func ValuesEqual(a, b any) bool {
	if eq, ok := a.(Equatable); ok {
		return eq.Equals(b)
	}
	if eq, ok := b.(Equatable); ok {
		return eq.Equals(a)
	}
	return reflect.DeepEqual(a, b)
}
