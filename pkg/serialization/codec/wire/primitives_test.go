package wire_test

import (
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

func TestUint64Scenario(t *testing.T) {
	b, err := wire.MarshalWith(uint64(5), wire.EncodeUint64)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0, 0, 0, 0, 0, 0, 0}, b)

	v, err := wire.UnmarshalWith(b, wire.DecodeUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)
}

func testRoundTrip[T comparable](t *testing.T, enc wire.EncodeFunc[T], dec wire.DecodeFunc[T], width int, values ...T) {
	t.Helper()
	for _, v := range values {
		t.Run(fmt.Sprintf("%T(%v)", v, v), func(t *testing.T) {
			b, err := wire.MarshalWith(v, enc)
			require.NoError(t, err)
			require.Len(t, b, width)

			d := wire.NewDecoder(b)
			got, err := dec(d)
			require.NoError(t, err)
			assert.Equal(t, v, got)
			assert.Equal(t, width, d.Index())
			assert.Zero(t, d.Remaining())
		})
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	testRoundTrip(t, wire.EncodeUint8, wire.DecodeUint8, 1, 0, 1, math.MaxUint8)
	testRoundTrip(t, wire.EncodeUint16, wire.DecodeUint16, 2, 0, 1, math.MaxUint16)
	testRoundTrip(t, wire.EncodeUint32, wire.DecodeUint32, 4, 0, 1, math.MaxUint32)
	testRoundTrip(t, wire.EncodeUint64, wire.DecodeUint64, 8, 0, 1, math.MaxUint64)
	testRoundTrip(t, wire.EncodeInt8, wire.DecodeInt8, 1, 0, -1, math.MinInt8, math.MaxInt8)
	testRoundTrip(t, wire.EncodeInt16, wire.DecodeInt16, 2, 0, -1, math.MinInt16, math.MaxInt16)
	testRoundTrip(t, wire.EncodeInt32, wire.DecodeInt32, 4, 0, -1, math.MinInt32, math.MaxInt32)
	testRoundTrip(t, wire.EncodeInt64, wire.DecodeInt64, 8, 0, -1, math.MinInt64, math.MaxInt64)
	testRoundTrip(t, wire.EncodeUint128, wire.DecodeUint128, 16,
		wire.Uint128{}, wire.Uint128From64(1), wire.Uint128{Hi: 1}, wire.MaxUint128)
	testRoundTrip(t, wire.EncodeInt128, wire.DecodeInt128, 16,
		wire.Int128{}, wire.Int128From64(-1), wire.MinInt128, wire.MaxInt128)
	testRoundTrip(t, wire.EncodeBool, wire.DecodeBool, 1, false, true)
}

func TestIntegerLayout(t *testing.T) {
	testCases := []struct {
		name     string
		encode   func(e *wire.Encoder)
		expected []byte
	}{
		{"u16", func(e *wire.Encoder) { e.PutUint16(0x0102) }, []byte{0x02, 0x01}},
		{"u32", func(e *wire.Encoder) { e.PutUint32(0x01020304) }, []byte{0x04, 0x03, 0x02, 0x01}},
		{"i16 -2", func(e *wire.Encoder) { e.PutInt16(-2) }, []byte{0xfe, 0xff}},
		{"i32 min", func(e *wire.Encoder) { e.PutInt32(math.MinInt32) }, []byte{0, 0, 0, 0x80}},
		{"u128", func(e *wire.Encoder) { e.PutUint128(wire.Uint128{Lo: 1, Hi: 2}) },
			[]byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}},
		{"i128 -1", func(e *wire.Encoder) { e.PutInt128(wire.Int128From64(-1)) },
			[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"f32 1.0", func(e *wire.Encoder) { e.PutFloat32(1) }, []byte{0, 0, 0x80, 0x3f}},
		{"bool", func(e *wire.Encoder) { e.PutBool(true); e.PutBool(false) }, []byte{1, 0}},
		{"string", func(e *wire.Encoder) { e.PutString("hé") }, []byte{3, 0, 0, 0, 0, 0, 0, 0, 'h', 0xc3, 0xa9}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := wire.NewEncoder()
			tc.encode(e)
			assert.Equal(t, tc.expected, e.Bytes())
		})
	}
}

func TestFloatRoundTripBitwise(t *testing.T) {
	f32s := []float32{0, float32(math.Copysign(0, -1)), 2.55, math.MaxFloat32, math.SmallestNonzeroFloat32,
		float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN()), math.Float32frombits(0x7fc00001)}
	for _, v := range f32s {
		e := wire.NewEncoder()
		e.PutFloat32(v)
		got, err := wire.NewDecoder(e.Bytes()).Float32()
		require.NoError(t, err)
		assert.Equal(t, math.Float32bits(v), math.Float32bits(got), "f32 %v", v)
	}

	f64s := []float64{0, math.Copysign(0, -1), math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64,
		math.Inf(1), math.Inf(-1), math.NaN(), math.Float64frombits(0x7ff8000000000001)}
	for _, v := range f64s {
		e := wire.NewEncoder()
		e.PutFloat64(v)
		got, err := wire.NewDecoder(e.Bytes()).Float64()
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(v), math.Float64bits(got), "f64 %v", v)
	}
}

func TestTruncatedPrimitives(t *testing.T) {
	testCases := []struct {
		name   string
		width  int
		decode func(d *wire.Decoder) error
	}{
		{"u8", 1, func(d *wire.Decoder) error { _, err := d.Uint8(); return err }},
		{"u16", 2, func(d *wire.Decoder) error { _, err := d.Uint16(); return err }},
		{"u32", 4, func(d *wire.Decoder) error { _, err := d.Uint32(); return err }},
		{"u64", 8, func(d *wire.Decoder) error { _, err := d.Uint64(); return err }},
		{"u128", 16, func(d *wire.Decoder) error { _, err := d.Uint128(); return err }},
		{"i8", 1, func(d *wire.Decoder) error { _, err := d.Int8(); return err }},
		{"i16", 2, func(d *wire.Decoder) error { _, err := d.Int16(); return err }},
		{"i32", 4, func(d *wire.Decoder) error { _, err := d.Int32(); return err }},
		{"i64", 8, func(d *wire.Decoder) error { _, err := d.Int64(); return err }},
		{"i128", 16, func(d *wire.Decoder) error { _, err := d.Int128(); return err }},
		{"f32", 4, func(d *wire.Decoder) error { _, err := d.Float32(); return err }},
		{"f64", 8, func(d *wire.Decoder) error { _, err := d.Float64(); return err }},
		{"bool", 1, func(d *wire.Decoder) error { _, err := d.Bool(); return err }},
		{"string", 8, func(d *wire.Decoder) error { _, err := d.Str(); return err }},
		{"duration", 8, func(d *wire.Decoder) error { _, err := d.Duration(); return err }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for n := 0; n < tc.width; n++ {
				d := wire.NewDecoder(make([]byte, n))
				err := tc.decode(d)
				require.ErrorIs(t, err, wire.ErrTruncatedInput, "buffer of %d bytes", n)
				assert.Equal(t, 0, d.Index(), "index must not move on a short read")
			}
		})
	}
}

func TestReadFixed(t *testing.T) {
	d := wire.NewDecoder([]byte{1, 2, 3})

	b, err := d.ReadFixed(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)
	assert.Equal(t, 2, d.Index())

	_, err = d.ReadFixed(2)
	require.ErrorIs(t, err, wire.ErrTruncatedInput)
	assert.Equal(t, 2, d.Index())

	_, err = d.ReadFixed(-1)
	require.ErrorIs(t, err, wire.ErrTruncatedInput)

	c, err := d.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(3), c)

	_, err = d.ReadByte()
	require.ErrorIs(t, err, wire.ErrTruncatedInput)
}

func TestReadDoesNotMutateBuffer(t *testing.T) {
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0, 'x'}
	snapshot := append([]byte(nil), buf...)

	d := wire.NewDecoder(buf)
	s, err := d.Str()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	assert.Equal(t, snapshot, buf)
}

func TestInvalidBool(t *testing.T) {
	for _, b := range []byte{0x02, 0x7f, 0xff} {
		_, err := wire.NewDecoder([]byte{b}).Bool()
		require.ErrorIs(t, err, wire.ErrInvalidBool)
		assert.Contains(t, err.Error(), fmt.Sprintf("0x%02x", b))
	}
}

func TestString(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		b, err := wire.MarshalWith("", wire.EncodeString)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 8), b)

		s, err := wire.UnmarshalWith(b, wire.DecodeString)
		require.NoError(t, err)
		assert.Equal(t, "", s)
	})

	t.Run("length counts bytes", func(t *testing.T) {
		b, err := wire.MarshalWith("日本", wire.EncodeString)
		require.NoError(t, err)
		assert.Equal(t, byte(6), b[0])
		assert.Len(t, b, 14)
	})

	t.Run("invalid utf8 is replaced", func(t *testing.T) {
		e := wire.NewEncoder()
		e.PutUint64(4)
		e.PutRaw([]byte{'a', 0xff, 0xfe, 'b'})

		s, err := wire.UnmarshalWith(e.Bytes(), wire.DecodeString)
		require.NoError(t, err)
		assert.Equal(t, "a\uFFFDb", s)
	})

	t.Run("length beyond buffer", func(t *testing.T) {
		e := wire.NewEncoder()
		e.PutUint64(math.MaxUint64)
		e.PutRaw([]byte("abc"))

		_, err := wire.UnmarshalWith(e.Bytes(), wire.DecodeString)
		require.ErrorIs(t, err, wire.ErrTruncatedInput)
	})
}

func TestDuration(t *testing.T) {
	t.Run("whole seconds", func(t *testing.T) {
		b, err := wire.MarshalWith(90*time.Second, wire.EncodeDuration)
		require.NoError(t, err)
		assert.Equal(t, []byte{90, 0, 0, 0, 0, 0, 0, 0}, b)

		v, err := wire.UnmarshalWith(b, wire.DecodeDuration)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, v)
	})

	t.Run("sub-second precision is dropped", func(t *testing.T) {
		b, err := wire.MarshalWith(2*time.Second+999*time.Millisecond, wire.EncodeDuration)
		require.NoError(t, err)

		v, err := wire.UnmarshalWith(b, wire.DecodeDuration)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, v)
	})

	t.Run("negative encodes as zero", func(t *testing.T) {
		b, err := wire.MarshalWith(-time.Hour, wire.EncodeDuration)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 8), b)
	})

	t.Run("overflow", func(t *testing.T) {
		e := wire.NewEncoder()
		e.PutUint64(math.MaxUint64)

		_, err := wire.UnmarshalWith(e.Bytes(), wire.DecodeDuration)
		require.ErrorIs(t, err, wire.ErrDurationOverflow)
	})
}

func TestInt128Big(t *testing.T) {
	for _, v := range []wire.Int128{wire.MinInt128, wire.MaxInt128, wire.Int128From64(-42), {}} {
		got, err := wire.Int128FromBig(v.Big())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, "-170141183460469231731687303715884105728", wire.MinInt128.String())
	assert.Equal(t, "340282366920938463463374607431768211455", wire.MaxUint128.String())

	_, err := wire.Uint128FromBig(new(big.Int).Neg(big.NewInt(1)))
	assert.Error(t, err)
	_, err = wire.Int128FromBig(new(big.Int).Add(wire.MaxInt128.Big(), big.NewInt(1)))
	assert.Error(t, err)
}
