package generator

import (
	"fmt"

	"github.com/eigerco/bytetransport/internal/schema"
)

type primitive struct {
	goType string
	suffix string
}

var primitives = map[string]primitive{
	schema.U8:       {"uint8", "Uint8"},
	schema.U16:      {"uint16", "Uint16"},
	schema.U32:      {"uint32", "Uint32"},
	schema.U64:      {"uint64", "Uint64"},
	schema.U128:     {"wire.Uint128", "Uint128"},
	schema.I8:       {"int8", "Int8"},
	schema.I16:      {"int16", "Int16"},
	schema.I32:      {"int32", "Int32"},
	schema.I64:      {"int64", "Int64"},
	schema.I128:     {"wire.Int128", "Int128"},
	schema.F32:      {"float32", "Float32"},
	schema.F64:      {"float64", "Float64"},
	schema.Bool:     {"bool", "Bool"},
	schema.String:   {"string", "String"},
	schema.Duration: {"time.Duration", "Duration"},
}

// resolver turns type expressions into Go source fragments.
type resolver struct {
	file *schema.File
	// usesTime is set once a duration is seen, so the generator can import
	// the time package only when needed.
	usesTime bool
}

func (r *resolver) goType(t *schema.TypeExpr) string {
	switch t.Kind {
	case schema.KindPrimitive:
		if t.Name == schema.Duration {
			r.usesTime = true
		}
		return primitives[t.Name].goType
	case schema.KindOption:
		return "*" + r.goType(t.Elem)
	case schema.KindSeq:
		return "[]" + r.goType(t.Elem)
	case schema.KindArray:
		return fmt.Sprintf("[%d]%s", t.Len, r.goType(t.Elem))
	default:
		if ext, ok := r.file.Extern(t.Name); ok {
			return ext.GoType
		}
		return t.Name
	}
}

// encoder returns an expression of type wire.EncodeFunc for t.
func (r *resolver) encoder(t *schema.TypeExpr) string {
	switch t.Kind {
	case schema.KindPrimitive:
		return "wire.Encode" + primitives[t.Name].suffix
	case schema.KindOption:
		return "wire.OptionalEncoder(" + r.encoder(t.Elem) + ")"
	case schema.KindSeq:
		if isByte(t.Elem) {
			return "wire.EncodeBytes"
		}
		return "wire.SeqEncoder(" + r.encoder(t.Elem) + ")"
	case schema.KindArray:
		return fmt.Sprintf("func(e *wire.Encoder, v %s) error { return wire.EncodeArray(e, v[:], %s) }",
			r.goType(t), r.encoder(t.Elem))
	default:
		if ext, ok := r.file.Extern(t.Name); ok {
			if ext.Encode != "" {
				return ext.Encode
			}
			return "wire.EncodeValue[" + ext.GoType + "]"
		}
		return "Encode" + t.Name
	}
}

// decoder returns an expression of type wire.DecodeFunc for t.
func (r *resolver) decoder(t *schema.TypeExpr) string {
	switch t.Kind {
	case schema.KindPrimitive:
		return "wire.Decode" + primitives[t.Name].suffix
	case schema.KindOption:
		return "wire.OptionalDecoder(" + r.decoder(t.Elem) + ")"
	case schema.KindSeq:
		if isByte(t.Elem) {
			return "wire.DecodeBytes"
		}
		return "wire.SeqDecoder(" + r.decoder(t.Elem) + ")"
	case schema.KindArray:
		typ := r.goType(t)
		return fmt.Sprintf("func(d *wire.Decoder) (%s, error) { var v %s; err := wire.DecodeArray(d, v[:], %s); return v, err }",
			typ, typ, r.decoder(t.Elem))
	default:
		if ext, ok := r.file.Extern(t.Name); ok {
			if ext.Decode != "" {
				return ext.Decode
			}
			return "wire.DecodeValue[" + ext.GoType + "]"
		}
		return "Decode" + t.Name
	}
}

// encodeStmt returns the call that writes value, which is an expression of
// type t. Top-level arrays are written in place instead of through a
// closure.
func (r *resolver) encodeStmt(t *schema.TypeExpr, value string) string {
	if t.Kind == schema.KindArray {
		return fmt.Sprintf("wire.EncodeArray(e, %s[:], %s)", value, r.encoder(t.Elem))
	}
	return fmt.Sprintf("%s(e, %s)", r.encoder(t), value)
}

// decodeStmt returns the simple statement that reads into dst and sets err.
func (r *resolver) decodeStmt(t *schema.TypeExpr, dst string) string {
	if t.Kind == schema.KindArray {
		return fmt.Sprintf("err = wire.DecodeArray(d, %s[:], %s)", dst, r.decoder(t.Elem))
	}
	return fmt.Sprintf("%s, err = %s(d)", dst, r.decoder(t))
}

func isByte(t *schema.TypeExpr) bool {
	return t.Kind == schema.KindPrimitive && t.Name == schema.U8
}
