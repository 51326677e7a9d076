package wire

import (
	"fmt"
	"reflect"
	"time"
)

var (
	encodableType  = reflect.TypeOf((*Encodable)(nil)).Elem()
	decodableType  = reflect.TypeOf((*Decodable)(nil)).Elem()
	encodeEnumType = reflect.TypeOf((*EncodeEnum)(nil)).Elem()
	enumType       = reflect.TypeOf((*EnumType)(nil)).Elem()
	durationType   = reflect.TypeOf(time.Duration(0))
)

// MarshalAny encodes an arbitrary Go value by walking it with reflection.
// Pointers are optionals, slices are sequences, arrays are fixed-size
// arrays and structs are product types in field order; the output is
// byte-identical to what generated code writes for the same shape.
// Types implementing Encodable or registered with Register use their own
// codec.
func MarshalAny(v any) ([]byte, error) {
	e := NewEncoder()
	if err := e.marshal(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func (e *Encoder) marshal(v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	t := v.Type()

	if r, ok := lookup(t); ok {
		return r.encode(e, v)
	}

	if t.Kind() == reflect.Ptr {
		e.putOptionTag(!v.IsNil())
		if v.IsNil() {
			return nil
		}
		return e.marshal(v.Elem())
	}

	if t.Implements(encodableType) {
		if t.Kind() == reflect.Interface && v.IsNil() {
			return fmt.Errorf("%w: nil %s", ErrUnsupportedType, t)
		}
		return v.Interface().(Encodable).EncodeWire(e)
	}
	if reflect.PointerTo(t).Implements(encodableType) {
		return addressable(v).Interface().(Encodable).EncodeWire(e)
	}
	if t.Implements(encodeEnumType) {
		return e.encodeEnum(v.Interface().(EncodeEnum))
	}

	if t == durationType {
		e.PutDuration(time.Duration(v.Int()))
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		e.PutBool(v.Bool())
	case reflect.Int8:
		e.PutInt8(int8(v.Int()))
	case reflect.Int16:
		e.PutInt16(int16(v.Int()))
	case reflect.Int32:
		e.PutInt32(int32(v.Int()))
	case reflect.Int64:
		e.PutInt64(v.Int())
	case reflect.Uint8:
		e.PutUint8(uint8(v.Uint()))
	case reflect.Uint16:
		e.PutUint16(uint16(v.Uint()))
	case reflect.Uint32:
		e.PutUint32(uint32(v.Uint()))
	case reflect.Uint64:
		e.PutUint64(v.Uint())
	case reflect.Float32:
		e.PutFloat32(float32(v.Float()))
	case reflect.Float64:
		e.PutFloat64(v.Float())
	case reflect.String:
		e.PutString(v.String())
	case reflect.Slice:
		return e.encodeSlice(v)
	case reflect.Array:
		return e.encodeArray(v)
	case reflect.Struct:
		return e.encodeStruct(v)
	default:
		// int, uint and uintptr have no fixed width; maps, channels and
		// funcs have no wire form.
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return nil
}

func (e *Encoder) encodeEnum(enum EncodeEnum) error {
	index, value, err := enum.IndexValue()
	if err != nil {
		return err
	}
	e.PutUint8(index)
	if value == nil {
		return nil
	}
	return e.marshal(reflect.ValueOf(value))
}

func (e *Encoder) encodeSlice(v reflect.Value) error {
	if v.Type().Elem().Kind() == reflect.Uint8 && !hasCodec(v.Type().Elem()) {
		e.putSeqLen(v.Len())
		e.PutRaw(v.Bytes())
		return nil
	}
	e.putSeqLen(v.Len())
	for i := 0; i < v.Len(); i++ {
		if err := e.marshal(v.Index(i)); err != nil {
			return fmt.Errorf(ErrEncodingElement, i, err)
		}
	}
	return nil
}

func (e *Encoder) encodeArray(v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if err := e.marshal(v.Index(i)); err != nil {
			return fmt.Errorf(ErrEncodingElement, i, err)
		}
	}
	return nil
}

func (e *Encoder) encodeStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if skipField(field) {
			continue
		}
		if err := e.marshal(v.Field(i)); err != nil {
			return fmt.Errorf(ErrEncodingStructField, field.Name, err)
		}
	}
	return nil
}

// skipField reports whether a struct field is left off the wire: unexported
// fields and fields tagged `wire:"-"`.
func skipField(f reflect.StructField) bool {
	if !f.IsExported() {
		return true
	}
	return f.Tag.Get("wire") == "-"
}

// hasCodec reports whether t carries its own codec and so must not take a
// primitive fast path.
func hasCodec(t reflect.Type) bool {
	if _, ok := lookup(t); ok {
		return true
	}
	return t.Implements(encodableType) || reflect.PointerTo(t).Implements(encodableType) ||
		t.Implements(encodeEnumType)
}

// addressable returns an addressable copy of v when v itself is not.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}
