package wire

import (
	"fmt"
	"reflect"
)

// UnmarshalAny decodes data into the value dst points to, using the same
// rules as MarshalAny. dst is only written when the whole value decodes.
func UnmarshalAny(data []byte, dst any) error {
	return DecodeAny(NewDecoder(data), dst)
}

// DecodeAny reads one value from d into the value dst points to.
func DecodeAny(d *Decoder, dst any) error {
	dstv := reflect.ValueOf(dst)
	if dstv.Kind() != reflect.Ptr || dstv.IsNil() {
		return fmt.Errorf("%w: %T", ErrNotPointer, dst)
	}

	v, err := d.unmarshal(dstv.Type().Elem())
	if err != nil {
		return err
	}
	dstv.Elem().Set(v)
	return nil
}

// unmarshal constructs a new value of type t from the wire.
func (d *Decoder) unmarshal(t reflect.Type) (reflect.Value, error) {
	if r, ok := lookup(t); ok {
		return r.decode(d)
	}

	if t.Kind() == reflect.Ptr {
		return d.decodePointer(t)
	}

	if reflect.PointerTo(t).Implements(decodableType) {
		p := reflect.New(t)
		if err := p.Interface().(Decodable).DecodeWire(d); err != nil {
			return reflect.Value{}, err
		}
		return p.Elem(), nil
	}
	if reflect.PointerTo(t).Implements(enumType) {
		return d.decodeEnum(t)
	}

	if t == durationType {
		v, err := d.Duration()
		return reflect.ValueOf(v), err
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		v, err := d.Bool()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(v)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b, err := d.ReadFixed(int(t.Size()))
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(signExtend(littleEndian(b), len(b)))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b, err := d.ReadFixed(int(t.Size()))
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(littleEndian(b))
	case reflect.Float32:
		v, err := d.Float32()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(float64(v))
	case reflect.Float64:
		v, err := d.Float64()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(v)
	case reflect.String:
		v, err := d.Str()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetString(v)
	case reflect.Slice:
		return d.decodeSlice(t)
	case reflect.Array:
		return d.decodeArray(t)
	case reflect.Struct:
		return d.decodeStruct(t)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return out, nil
}

func (d *Decoder) decodePointer(t reflect.Type) (reflect.Value, error) {
	present, err := d.readOptionTag()
	if err != nil {
		return reflect.Value{}, err
	}
	if !present {
		return reflect.Zero(t), nil
	}
	elem, err := d.unmarshal(t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(elem)
	return p, nil
}

func (d *Decoder) decodeEnum(t reflect.Type) (reflect.Value, error) {
	b, err := d.ReadByte()
	if err != nil {
		return reflect.Value{}, err
	}

	p := reflect.New(t)
	enum := p.Interface().(EnumType)
	payload, err := enum.ValueAt(b)
	if err != nil {
		return reflect.Value{}, UnknownDiscriminant(t.String(), b)
	}

	if payload == nil {
		if err := enum.SetValue(b); err != nil {
			return reflect.Value{}, err
		}
		return p.Elem(), nil
	}

	v, err := d.unmarshal(reflect.TypeOf(payload))
	if err != nil {
		return reflect.Value{}, err
	}
	if err := enum.SetValue(v.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}

func (d *Decoder) decodeSlice(t reflect.Type) (reflect.Value, error) {
	n, err := d.readSeqLen()
	if err != nil {
		return reflect.Value{}, err
	}

	if t.Elem().Kind() == reflect.Uint8 && !hasCodec(t.Elem()) {
		b, err := d.ReadFixed(n)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(t, n, n)
		reflect.Copy(out, reflect.ValueOf(b))
		return out, nil
	}

	out := reflect.MakeSlice(t, 0, n)
	for i := 0; i < n; i++ {
		elem, err := d.unmarshal(t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf(ErrDecodingElement, i, err)
		}
		out = reflect.Append(out, elem)
	}
	return out, nil
}

func (d *Decoder) decodeArray(t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	for i := 0; i < t.Len(); i++ {
		elem, err := d.unmarshal(t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf(ErrDecodingElement, i, err)
		}
		out.Index(i).Set(elem)
	}
	return out, nil
}

func (d *Decoder) decodeStruct(t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if skipField(field) {
			continue
		}
		v, err := d.unmarshal(field.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf(ErrDecodingStructField, field.Name, err)
		}
		out.Field(i).Set(v)
	}
	return out, nil
}

func littleEndian(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func signExtend(v uint64, width int) int64 {
	shift := 64 - 8*uint(width)
	return int64(v<<shift) >> shift
}
