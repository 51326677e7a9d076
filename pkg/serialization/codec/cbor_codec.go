package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBORCodec implements the Codec interface with Core Deterministic CBOR
// (RFC 8949 §4.2): the same value always produces the same bytes. It is an
// alternate Codec for exchanging values with CBOR peers and is not
// compatible with the wire format.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c *CBORCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}

// Diagnose returns the CBOR diagnostic notation of data produced by
// CBORCodec. It does not understand the wire format.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
