// Package geometry provides the spatial types shared by game-state
// messages, with hand-written wire codecs.
package geometry

import (
	"github.com/eigerco/bytetransport/pkg/serialization/codec/wire"
)

// Vec3 is written as three f32 values, x first.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a rotation quaternion, written as array<f32, 4> in x, y, z, w
// order.
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the rotation that leaves vectors unchanged.
var IdentityQuat = Quat{W: 1}

// Transform positions an entity: translation, then rotation, then scale.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// IdentityTransform has no translation, no rotation and unit scale.
var IdentityTransform = Transform{Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}

func (v Vec3) Array() [3]float32 { return [3]float32{v.X, v.Y, v.Z} }
func (q Quat) Array() [4]float32 { return [4]float32{q.X, q.Y, q.Z, q.W} }

func EncodeVec3(e *wire.Encoder, v Vec3) error {
	a := v.Array()
	return wire.EncodeArray(e, a[:], wire.EncodeFloat32)
}

func DecodeVec3(d *wire.Decoder) (Vec3, error) {
	var a [3]float32
	if err := wire.DecodeArray(d, a[:], wire.DecodeFloat32); err != nil {
		return Vec3{}, err
	}
	return Vec3{X: a[0], Y: a[1], Z: a[2]}, nil
}

func EncodeQuat(e *wire.Encoder, q Quat) error {
	a := q.Array()
	return wire.EncodeArray(e, a[:], wire.EncodeFloat32)
}

func DecodeQuat(d *wire.Decoder) (Quat, error) {
	var a [4]float32
	if err := wire.DecodeArray(d, a[:], wire.DecodeFloat32); err != nil {
		return Quat{}, err
	}
	return Quat{X: a[0], Y: a[1], Z: a[2], W: a[3]}, nil
}

func EncodeTransform(e *wire.Encoder, t Transform) error {
	if err := EncodeVec3(e, t.Translation); err != nil {
		return wire.WrapField("Transform", "Translation", err)
	}
	if err := EncodeQuat(e, t.Rotation); err != nil {
		return wire.WrapField("Transform", "Rotation", err)
	}
	if err := EncodeVec3(e, t.Scale); err != nil {
		return wire.WrapField("Transform", "Scale", err)
	}
	return nil
}

func DecodeTransform(d *wire.Decoder) (Transform, error) {
	var (
		t   Transform
		err error
	)
	if t.Translation, err = DecodeVec3(d); err != nil {
		return Transform{}, wire.WrapField("Transform", "Translation", err)
	}
	if t.Rotation, err = DecodeQuat(d); err != nil {
		return Transform{}, wire.WrapField("Transform", "Rotation", err)
	}
	if t.Scale, err = DecodeVec3(d); err != nil {
		return Transform{}, wire.WrapField("Transform", "Scale", err)
	}
	return t, nil
}

func (v Vec3) EncodeWire(e *wire.Encoder) error      { return EncodeVec3(e, v) }
func (q Quat) EncodeWire(e *wire.Encoder) error      { return EncodeQuat(e, q) }
func (t Transform) EncodeWire(e *wire.Encoder) error { return EncodeTransform(e, t) }

func (v *Vec3) DecodeWire(d *wire.Decoder) error {
	out, err := DecodeVec3(d)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func (q *Quat) DecodeWire(d *wire.Decoder) error {
	out, err := DecodeQuat(d)
	if err != nil {
		return err
	}
	*q = out
	return nil
}

func (t *Transform) DecodeWire(d *wire.Decoder) error {
	out, err := DecodeTransform(d)
	if err != nil {
		return err
	}
	*t = out
	return nil
}

func init() {
	wire.Register[Vec3](EncodeVec3, DecodeVec3)
	wire.Register[Quat](EncodeQuat, DecodeQuat)
	wire.Register[Transform](EncodeTransform, DecodeTransform)
}
