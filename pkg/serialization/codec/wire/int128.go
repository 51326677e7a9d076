package wire

import (
	"fmt"
	"math/big"
)

// Uint128 is an unsigned 128-bit integer split into two 64-bit halves.
type Uint128 struct {
	Lo, Hi uint64
}

// Int128 is a two's-complement signed 128-bit integer. Hi carries the sign.
type Int128 struct {
	Lo uint64
	Hi int64
}

var (
	MaxUint128 = Uint128{Lo: ^uint64(0), Hi: ^uint64(0)}
	MinInt128  = Int128{Lo: 0, Hi: -1 << 63}
	MaxInt128  = Int128{Lo: ^uint64(0), Hi: 1<<63 - 1}

	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
)

func Uint128From64(v uint64) Uint128 {
	return Uint128{Lo: v}
}

func Int128From64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Lo: uint64(v), Hi: hi}
}

// Big returns v as a big.Int.
func (v Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(v.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(v.Lo))
}

func (v Uint128) String() string {
	return v.Big().String()
}

// Big returns v as a big.Int.
func (v Int128) Big() *big.Int {
	b := Uint128{Lo: v.Lo, Hi: uint64(v.Hi)}.Big()
	if v.Hi < 0 {
		b.Sub(b, two128)
	}
	return b
}

func (v Int128) String() string {
	return v.Big().String()
}

// Uint128FromBig converts b, failing when it is negative or wider than
// 128 bits.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("%s does not fit in 128 unsigned bits", b)
	}
	lo := new(big.Int).And(b, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(b, 64)
	return Uint128{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}

// Int128FromBig converts b, failing when it is outside the signed 128-bit
// range.
func Int128FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(MinInt128.Big()) < 0 || b.Cmp(MaxInt128.Big()) > 0 {
		return Int128{}, fmt.Errorf("%s does not fit in 128 signed bits", b)
	}
	u := new(big.Int).Set(b)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	v, err := Uint128FromBig(u)
	if err != nil {
		return Int128{}, err
	}
	return Int128{Lo: v.Lo, Hi: int64(v.Hi)}, nil
}
