package wire

// Encodable is implemented by every type that has a wire representation.
// Generated code implements it on the value receiver.
type Encodable interface {
	EncodeWire(e *Encoder) error
}

// Decodable is implemented on the pointer receiver. A failed decode must
// leave the receiver untouched.
type Decodable interface {
	DecodeWire(d *Decoder) error
}

// DecodablePtr constrains PT to be *T implementing Decodable, so decoders
// can construct a fresh T without reflection.
type DecodablePtr[T any] interface {
	*T
	Decodable
}

// EncodeFunc writes v to e.
type EncodeFunc[T any] func(e *Encoder, v T) error

// DecodeFunc reads one T from d.
type DecodeFunc[T any] func(d *Decoder) (T, error)

// EncodeValue adapts the method form of the contract to an EncodeFunc.
func EncodeValue[T Encodable](e *Encoder, v T) error {
	return v.EncodeWire(e)
}

// DecodeValue adapts the method form of the contract to a DecodeFunc.
func DecodeValue[T any, PT DecodablePtr[T]](d *Decoder) (T, error) {
	var v T
	if err := PT(&v).DecodeWire(d); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// EncodeEnum and EnumType let hand-written sum types take part in the
// reflective path. The generated code does not need them.
type EncodeEnum interface {
	// IndexValue returns the discriminant and the alternative's payload,
	// nil for a unit alternative.
	IndexValue() (index uint8, value any, err error)
}

type EnumType interface {
	EncodeEnum
	// ValueAt returns a zero payload for the alternative at index, nil for
	// a unit alternative, or an error for an unknown index.
	ValueAt(index uint8) (value any, err error)
	// SetValue installs the decoded alternative. For unit alternatives the
	// argument is the discriminant byte.
	SetValue(value any) error
}
