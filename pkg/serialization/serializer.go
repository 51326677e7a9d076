package serialization

import "github.com/eigerco/bytetransport/pkg/serialization/codec"

// Serializer provides methods to encode and decode using a specified codec.
type Serializer struct {
	codec codec.Codec
}

// NewSerializer initializes a new Serializer with the given codec.
func NewSerializer(c codec.Codec) *Serializer {
	return &Serializer{codec: c}
}

// NewWireSerializer returns a Serializer for the wire format.
func NewWireSerializer() *Serializer {
	return NewSerializer(codec.NewWireCodec())
}

// Encode serializes the given value using the codec.
func (s *Serializer) Encode(v any) ([]byte, error) {
	return s.codec.Marshal(v)
}

// Decode deserializes the given data into the specified value using the codec.
func (s *Serializer) Decode(data []byte, v any) error {
	return s.codec.Unmarshal(data, v)
}
