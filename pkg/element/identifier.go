package element

import (
	"fmt"
	"reflect"
)

// Identifier names one position in the element tree: the element's concrete
// type, an optional developer-supplied key, and the occurrence count among
// siblings sharing the same type and key (starting at 1).
//
// Identifier stability is the caching contract: as long as the same
// type+key appears in the same sibling occurrence across passes, the same
// ElementState (and therefore the same live view) is reused.
type Identifier struct {
	Type  reflect.Type
	Key   any
	Count int
}

func (id Identifier) String() string {
	name := id.Type.String()
	if id.Key != nil {
		return fmt.Sprintf("%s(%v).%d", name, id.Key, id.Count)
	}
	return fmt.Sprintf("%s.%d", name, id.Count)
}

// identifierFactory assigns occurrence counts while a content storage
// enumerates its children. A fresh factory is used per enumeration so
// counts are deterministic for a given ordered child list.
type identifierFactory struct {
	counts map[factoryKey]int
}

type factoryKey struct {
	typ reflect.Type
	key any
}

// identify returns the identifier for the next occurrence of the element.
// An explicit key overrides the element's own Keyed key.
func (f *identifierFactory) identify(child Element, explicitKey any) Identifier {
	key := explicitKey
	if key == nil {
		if keyed, ok := child.(Keyed); ok {
			key = keyed.Key()
		}
	}
	typ := reflect.TypeOf(child)
	if f.counts == nil {
		f.counts = make(map[factoryKey]int)
	}
	f.counts[factoryKey{typ: typ, key: key}]++
	return Identifier{Type: typ, Key: key, Count: f.counts[factoryKey{typ: typ, key: key}]}
}
