package wire

import "fmt"

// EncodeOptional writes a nil pointer as the absent tag and anything else
// as the present tag followed by the pointee.
func EncodeOptional[T any](e *Encoder, v *T, enc EncodeFunc[T]) error {
	e.putOptionTag(v != nil)
	if v == nil {
		return nil
	}
	return enc(e, *v)
}

// DecodeOptional returns nil for the absent tag and a freshly allocated
// value for the present tag.
func DecodeOptional[T any](d *Decoder, dec DecodeFunc[T]) (*T, error) {
	present, err := d.readOptionTag()
	if err != nil || !present {
		return nil, err
	}
	v, err := dec(d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func OptionalEncoder[T any](enc EncodeFunc[T]) EncodeFunc[*T] {
	return func(e *Encoder, v *T) error {
		return EncodeOptional(e, v, enc)
	}
}

func OptionalDecoder[T any](dec DecodeFunc[T]) DecodeFunc[*T] {
	return func(d *Decoder) (*T, error) {
		return DecodeOptional(d, dec)
	}
}

// EncodeSeq writes a u16 element count followed by every element. A slice
// longer than 65535 elements gets its count truncated to 16 bits while all
// elements are still written; decoders will only see count mod 2^16 of
// them.
func EncodeSeq[T any](e *Encoder, s []T, enc EncodeFunc[T]) error {
	e.putSeqLen(len(s))
	for i, v := range s {
		if err := enc(e, v); err != nil {
			return fmt.Errorf(ErrEncodingElement, i, err)
		}
	}
	return nil
}

// DecodeSeq reads a u16 count and exactly that many elements. An empty
// sequence decodes to a non-nil empty slice.
func DecodeSeq[T any](d *Decoder, dec DecodeFunc[T]) ([]T, error) {
	n, err := d.readSeqLen()
	if err != nil {
		return nil, err
	}
	s := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := dec(d)
		if err != nil {
			return nil, fmt.Errorf(ErrDecodingElement, i, err)
		}
		s = append(s, v)
	}
	return s, nil
}

func SeqEncoder[T any](enc EncodeFunc[T]) EncodeFunc[[]T] {
	return func(e *Encoder, s []T) error {
		return EncodeSeq(e, s, enc)
	}
}

func SeqDecoder[T any](dec DecodeFunc[T]) DecodeFunc[[]T] {
	return func(d *Decoder) ([]T, error) {
		return DecodeSeq(d, dec)
	}
}

// EncodeArray writes the elements of a fixed-size array with no prefix.
// Callers pass arr[:].
func EncodeArray[T any](e *Encoder, arr []T, enc EncodeFunc[T]) error {
	for i, v := range arr {
		if err := enc(e, v); err != nil {
			return fmt.Errorf(ErrEncodingElement, i, err)
		}
	}
	return nil
}

// DecodeArray decodes len(dst) elements into a scratch buffer and copies
// them into dst only once every element has decoded. On error dst is left
// as it was.
func DecodeArray[T any](d *Decoder, dst []T, dec DecodeFunc[T]) error {
	b := newArrayBuilder[T](len(dst))
	for !b.full() {
		v, err := dec(d)
		if err != nil {
			return fmt.Errorf(ErrDecodingElement, len(b.elems), err)
		}
		b.push(v)
	}
	b.finish(dst)
	return nil
}

// arrayBuilder accumulates exactly n elements before exposing them.
type arrayBuilder[T any] struct {
	elems []T
	n     int
}

func newArrayBuilder[T any](n int) *arrayBuilder[T] {
	return &arrayBuilder[T]{elems: make([]T, 0, n), n: n}
}

func (b *arrayBuilder[T]) full() bool {
	return len(b.elems) == b.n
}

func (b *arrayBuilder[T]) push(v T) {
	b.elems = append(b.elems, v)
}

func (b *arrayBuilder[T]) finish(dst []T) {
	copy(dst, b.elems)
}

// EncodeBytes writes b as a sequence of u8.
func EncodeBytes(e *Encoder, b []byte) error {
	e.putSeqLen(len(b))
	e.PutRaw(b)
	return nil
}

// DecodeBytes reads a sequence of u8 into a new slice.
func DecodeBytes(d *Decoder) ([]byte, error) {
	n, err := d.readSeqLen()
	if err != nil {
		return nil, err
	}
	b, err := d.ReadFixed(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// DecodeByteArray fills dst from the next len(dst) bytes.
func DecodeByteArray(d *Decoder, dst []byte) error {
	b, err := d.ReadFixed(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}
