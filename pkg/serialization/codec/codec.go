package codec

// Codec turns Go values into bytes and back. The wire codec is the
// production format; the CBOR codec exists for debugging dumps and interop
// with tools that cannot read the wire format.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
