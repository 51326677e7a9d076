package wire

// Marshal encodes v into a new buffer.
func Marshal(v Encodable) ([]byte, error) {
	e := NewEncoder()
	if err := v.EncodeWire(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// MarshalWith encodes v with an explicit codec function.
func MarshalWith[T any](v T, enc EncodeFunc[T]) ([]byte, error) {
	e := NewEncoder()
	if err := enc(e, v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal decodes a T from the start of data. Trailing bytes are not an
// error; use a Decoder directly to inspect them.
//
//	v, err := wire.Unmarshal[Header](data)
func Unmarshal[T any, PT DecodablePtr[T]](data []byte) (T, error) {
	return DecodeValue[T, PT](NewDecoder(data))
}

// UnmarshalWith decodes data with an explicit codec function, typically a
// generated DecodeX for a sum type.
func UnmarshalWith[T any](data []byte, dec DecodeFunc[T]) (T, error) {
	return dec(NewDecoder(data))
}
