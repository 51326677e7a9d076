package codec

import (
	"reflect"

	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

// WireCodec implements the Codec interface for the wire format. Values
// implementing the capability contract are encoded through it directly,
// everything else goes through the reflective path.
type WireCodec struct{}

func NewWireCodec() *WireCodec {
	return &WireCodec{}
}

// Marshal encodes v. A non-nil pointer is encoded as the value it points
// to, mirroring the pointer Unmarshal takes.
func (c *WireCodec) Marshal(v any) ([]byte, error) {
	if enc, ok := v.(wire.Encodable); ok {
		return wire.Marshal(enc)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && !rv.IsNil() {
		v = rv.Elem().Interface()
	}
	return wire.MarshalAny(v)
}

// Unmarshal decodes data into v, which must be a non-nil pointer. Trailing
// bytes after the value are not an error.
func (c *WireCodec) Unmarshal(data []byte, v any) error {
	if dec, ok := v.(wire.Decodable); ok {
		return dec.DecodeWire(wire.NewDecoder(data))
	}
	return wire.UnmarshalAny(data, v)
}
