package wire

import (
	"reflect"
	"sync"
)

// registered is the type-erased form of a codec pair supplied to Register.
type registered struct {
	encode func(e *Encoder, v reflect.Value) error
	decode func(d *Decoder) (reflect.Value, error)
}

var registry = struct {
	sync.RWMutex
	codecs map[reflect.Type]registered
}{codecs: make(map[reflect.Type]registered)}

// Register installs the codec pair for T. It is the extension point for
// types the caller cannot add methods to, and for interface-typed sum
// types, which the reflective path cannot otherwise construct. A later
// call for the same T replaces the earlier one. Generated code registers
// its types from init.
func Register[T any](enc EncodeFunc[T], dec DecodeFunc[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r := registered{
		encode: func(e *Encoder, v reflect.Value) error {
			x, _ := v.Interface().(T)
			return enc(e, x)
		},
		decode: func(d *Decoder) (reflect.Value, error) {
			v, err := dec(d)
			if err != nil {
				return reflect.Value{}, err
			}
			out := reflect.New(t).Elem()
			out.Set(reflect.ValueOf(&v).Elem())
			return out, nil
		},
	}

	registry.Lock()
	registry.codecs[t] = r
	registry.Unlock()
}

// Registered reports whether a codec pair has been registered for T.
func Registered[T any]() bool {
	_, ok := lookup(reflect.TypeOf((*T)(nil)).Elem())
	return ok
}

func lookup(t reflect.Type) (registered, bool) {
	registry.RLock()
	r, ok := registry.codecs[t]
	registry.RUnlock()
	return r, ok
}
