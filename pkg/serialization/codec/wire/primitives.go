package wire

import "time"

// Function forms of the primitive codecs. They satisfy EncodeFunc and
// DecodeFunc so composites and generated code can take them as values.

func EncodeUint8(e *Encoder, v uint8) error     { e.PutUint8(v); return nil }
func EncodeUint16(e *Encoder, v uint16) error   { e.PutUint16(v); return nil }
func EncodeUint32(e *Encoder, v uint32) error   { e.PutUint32(v); return nil }
func EncodeUint64(e *Encoder, v uint64) error   { e.PutUint64(v); return nil }
func EncodeUint128(e *Encoder, v Uint128) error { e.PutUint128(v); return nil }
func EncodeInt8(e *Encoder, v int8) error       { e.PutInt8(v); return nil }
func EncodeInt16(e *Encoder, v int16) error     { e.PutInt16(v); return nil }
func EncodeInt32(e *Encoder, v int32) error     { e.PutInt32(v); return nil }
func EncodeInt64(e *Encoder, v int64) error     { e.PutInt64(v); return nil }
func EncodeInt128(e *Encoder, v Int128) error   { e.PutInt128(v); return nil }
func EncodeFloat32(e *Encoder, v float32) error { e.PutFloat32(v); return nil }
func EncodeFloat64(e *Encoder, v float64) error { e.PutFloat64(v); return nil }
func EncodeBool(e *Encoder, v bool) error       { e.PutBool(v); return nil }
func EncodeString(e *Encoder, v string) error   { e.PutString(v); return nil }

func EncodeDuration(e *Encoder, v time.Duration) error {
	e.PutDuration(v)
	return nil
}

func DecodeUint8(d *Decoder) (uint8, error)            { return d.Uint8() }
func DecodeUint16(d *Decoder) (uint16, error)          { return d.Uint16() }
func DecodeUint32(d *Decoder) (uint32, error)          { return d.Uint32() }
func DecodeUint64(d *Decoder) (uint64, error)          { return d.Uint64() }
func DecodeUint128(d *Decoder) (Uint128, error)        { return d.Uint128() }
func DecodeInt8(d *Decoder) (int8, error)              { return d.Int8() }
func DecodeInt16(d *Decoder) (int16, error)            { return d.Int16() }
func DecodeInt32(d *Decoder) (int32, error)            { return d.Int32() }
func DecodeInt64(d *Decoder) (int64, error)            { return d.Int64() }
func DecodeInt128(d *Decoder) (Int128, error)          { return d.Int128() }
func DecodeFloat32(d *Decoder) (float32, error)        { return d.Float32() }
func DecodeFloat64(d *Decoder) (float64, error)        { return d.Float64() }
func DecodeBool(d *Decoder) (bool, error)              { return d.Bool() }
func DecodeString(d *Decoder) (string, error)          { return d.Str() }
func DecodeDuration(d *Decoder) (time.Duration, error) { return d.Duration() }
