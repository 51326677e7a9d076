package wire

import (
	"encoding/binary"
	"math"
	"time"
)

// Encoder is an append-only byte sink. The zero value is ready to use.
// An Encoder is owned by one writer at a time.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// NewEncoderSize preallocates room for n bytes.
func NewEncoderSize(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Bytes hands the encoded buffer to the caller. The encoder must not be
// written to afterwards unless Reset is called first.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset drops the buffer so the encoder can be reused.
func (e *Encoder) Reset() {
	e.buf = nil
}

// PutRaw appends b verbatim, with no length prefix.
func (e *Encoder) PutRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Encoder) PutUint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) PutUint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) PutUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) PutUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) PutUint128(v Uint128) {
	e.PutUint64(v.Lo)
	e.PutUint64(v.Hi)
}

func (e *Encoder) PutInt8(v int8) {
	e.PutUint8(uint8(v))
}

func (e *Encoder) PutInt16(v int16) {
	e.PutUint16(uint16(v))
}

func (e *Encoder) PutInt32(v int32) {
	e.PutUint32(uint32(v))
}

func (e *Encoder) PutInt64(v int64) {
	e.PutUint64(uint64(v))
}

func (e *Encoder) PutInt128(v Int128) {
	e.PutUint64(v.Lo)
	e.PutUint64(uint64(v.Hi))
}

func (e *Encoder) PutFloat32(v float32) {
	e.PutUint32(math.Float32bits(v))
}

func (e *Encoder) PutFloat64(v float64) {
	e.PutUint64(math.Float64bits(v))
}

func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutUint8(0x01)
		return
	}
	e.PutUint8(0x00)
}

// PutString writes the UTF-8 byte count as a u64 followed by the bytes.
func (e *Encoder) PutString(v string) {
	e.PutUint64(uint64(len(v)))
	e.buf = append(e.buf, v...)
}

// PutDuration writes whole seconds as a u64. Sub-second precision is
// dropped and negative durations are written as zero.
func (e *Encoder) PutDuration(v time.Duration) {
	if v < 0 {
		e.PutUint64(0)
		return
	}
	e.PutUint64(uint64(v / time.Second))
}

// putOptionTag writes the presence marker of an optional value.
func (e *Encoder) putOptionTag(present bool) {
	if present {
		e.PutUint8(someTag)
		return
	}
	e.PutUint8(noneTag)
}

// putSeqLen writes a sequence count. Counts above math.MaxUint16 wrap.
func (e *Encoder) putSeqLen(n int) {
	e.PutUint16(uint16(n))
}
