package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

const (
	noneTag byte = 0x00
	someTag byte = 0x01
)

// Decoder is a read cursor over a fully materialised buffer. It is not safe
// for concurrent use; give each goroutine its own Decoder.
type Decoder struct {
	buf   []byte
	index int
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Index returns the read position.
func (d *Decoder) Index() int {
	return d.index
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.index
}

// ReadFixed returns the next width bytes and advances past them. The
// returned slice aliases the decoder's buffer. On failure the index does
// not move.
func (d *Decoder) ReadFixed(width int) ([]byte, error) {
	if width < 0 || width > d.Remaining() {
		return nil, fmt.Errorf(ErrReadingBytes, width, d.index, ErrTruncatedInput)
	}
	b := d.buf[d.index : d.index+width : d.index+width]
	d.index += width
	return b, nil
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.index >= len(d.buf) {
		return 0, fmt.Errorf(ErrReadingBytes, 1, d.index, ErrTruncatedInput)
	}
	b := d.buf[d.index]
	d.index++
	return b, nil
}

func (d *Decoder) Uint8() (uint8, error) {
	return d.ReadByte()
}

func (d *Decoder) Uint16() (uint16, error) {
	b, err := d.ReadFixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.ReadFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) Uint64() (uint64, error) {
	b, err := d.ReadFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) Uint128() (Uint128, error) {
	b, err := d.ReadFixed(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

func (d *Decoder) Int8() (int8, error) {
	v, err := d.ReadByte()
	return int8(v), err
}

func (d *Decoder) Int16() (int16, error) {
	v, err := d.Uint16()
	return int16(v), err
}

func (d *Decoder) Int32() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

func (d *Decoder) Int128() (Int128, error) {
	v, err := d.Uint128()
	if err != nil {
		return Int128{}, err
	}
	return Int128{Lo: v.Lo, Hi: int64(v.Hi)}, nil
}

func (d *Decoder) Float32() (float32, error) {
	v, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (d *Decoder) Float64() (float64, error) {
	v, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (d *Decoder) Bool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidBool, b, d.index-1)
	}
}

// Str reads a u64 byte length and that many bytes. Malformed UTF-8 is
// replaced with U+FFFD rather than rejected.
func (d *Decoder) Str() (string, error) {
	start := d.index
	n, err := d.Uint64()
	if err != nil {
		return "", err
	}
	if n > uint64(d.Remaining()) {
		return "", fmt.Errorf("string of %d bytes at offset %d: %w", n, start, ErrTruncatedInput)
	}
	b, _ := d.ReadFixed(int(n))
	if utf8.Valid(b) {
		return string(b), nil
	}
	return string(bytes.ToValidUTF8(b, []byte(string(utf8.RuneError)))), nil
}

// Duration reads whole seconds. The nanosecond part is always zero.
func (d *Decoder) Duration() (time.Duration, error) {
	secs, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	if secs > uint64(math.MaxInt64/int64(time.Second)) {
		return 0, fmt.Errorf("%w: %d seconds", ErrDurationOverflow, secs)
	}
	return time.Duration(secs) * time.Second, nil
}

// readOptionTag reports whether an optional value is present.
func (d *Decoder) readOptionTag() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case someTag:
		return true, nil
	case noneTag:
		return false, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidOptionTag, b, d.index-1)
	}
}

func (d *Decoder) readSeqLen() (int, error) {
	n, err := d.Uint16()
	return int(n), err
}
