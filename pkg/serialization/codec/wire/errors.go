package wire

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput      = errors.New("truncated input")
	ErrInvalidBool         = errors.New("invalid boolean")
	ErrInvalidOptionTag    = errors.New("invalid option tag")
	ErrUnknownDiscriminant = errors.New("unknown discriminant")
	ErrDurationOverflow    = errors.New("duration overflows time.Duration")
	ErrUnsupportedType     = errors.New("unsupported type")
	ErrNotPointer          = errors.New("decode destination must be a non-nil pointer")

	ErrReadingBytes        = "reading %d bytes at offset %d: %w"
	ErrEncodingStructField = "encoding field '%s': %w"
	ErrDecodingStructField = "decoding field '%s': %w"
	ErrEncodingElement     = "encoding element %d: %w"
	ErrDecodingElement     = "decoding element %d: %w"
)

// DiscriminantError reports a sum-type tag that matches no declared
// alternative. Byte is the offending tag as read from the wire.
type DiscriminantError struct {
	Type string
	Byte byte
}

func (e *DiscriminantError) Error() string {
	return fmt.Sprintf("%s: %s 0x%02x", e.Type, ErrUnknownDiscriminant, e.Byte)
}

func (e *DiscriminantError) Unwrap() error {
	return ErrUnknownDiscriminant
}

// FieldError attaches the position of a failing field to a codec error.
// Generated code wraps every field failure with it.
type FieldError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// WrapField returns err wrapped in a FieldError, or nil when err is nil.
func WrapField(typ, field string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Type: typ, Field: field, Err: err}
}

// UnknownDiscriminant builds the error returned by sum-type decoders.
func UnknownDiscriminant(typ string, b byte) error {
	return &DiscriminantError{Type: typ, Byte: b}
}

// UnknownVariant builds the error returned when a sum-type encoder is
// handed a value that is none of its alternatives, nil included.
func UnknownVariant(typ string, v any) error {
	return fmt.Errorf("%w: %T is not a %s", ErrUnsupportedType, v, typ)
}
