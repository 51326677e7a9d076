package schema

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// ExprKind classifies a type expression.
type ExprKind uint8

const (
	KindPrimitive ExprKind = iota
	KindOption
	KindSeq
	KindArray
	// KindNamed refers to a type declared in the schema or to an extern.
	KindNamed
)

// Primitive names as they appear in schema files.
const (
	U8       = "u8"
	U16      = "u16"
	U32      = "u32"
	U64      = "u64"
	U128     = "u128"
	I8       = "i8"
	I16      = "i16"
	I32      = "i32"
	I64      = "i64"
	I128     = "i128"
	F32      = "f32"
	F64      = "f64"
	Bool     = "bool"
	String   = "string"
	Duration = "duration"
)

var primitives = map[string]struct{}{
	U8: {}, U16: {}, U32: {}, U64: {}, U128: {},
	I8: {}, I16: {}, I32: {}, I64: {}, I128: {},
	F32: {}, F64: {}, Bool: {}, String: {}, Duration: {},
}

// IsPrimitive reports whether name is one of the built-in primitive types.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// TypeExpr is a parsed type expression such as `option<seq<u8>>`.
type TypeExpr struct {
	Kind ExprKind
	// Name is the primitive or declared type name.
	Name string
	// Elem is set for option, seq and array.
	Elem *TypeExpr
	// Len is the array length.
	Len int
}

// String returns the canonical spelling of the expression. `vec` is
// normalized to `seq` and whitespace is dropped.
func (t *TypeExpr) String() string {
	switch t.Kind {
	case KindOption:
		return "option<" + t.Elem.String() + ">"
	case KindSeq:
		return "seq<" + t.Elem.String() + ">"
	case KindArray:
		return "array<" + t.Elem.String() + "," + strconv.Itoa(t.Len) + ">"
	default:
		return t.Name
	}
}

// Walk calls fn for t and every expression nested in it, outermost first.
func (t *TypeExpr) Walk(fn func(*TypeExpr)) {
	fn(t)
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
}

// ParseType parses a type expression.
func ParseType(s string) (*TypeExpr, error) {
	p := &exprParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "type expression %q", s), ErrInvalidSchema)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.Mark(
			errors.Newf("type expression %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos),
			ErrInvalidSchema)
	}
	return t, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) parse() (*TypeExpr, error) {
	name := p.ident()
	if name == "" {
		return nil, errors.Newf("expected type name at offset %d", p.pos)
	}

	switch name {
	case "option", "seq", "vec":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		kind := KindSeq
		if name == "option" {
			kind = KindOption
		}
		return &TypeExpr{Kind: kind, Elem: elem}, nil
	case "array":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return &TypeExpr{Kind: KindArray, Elem: elem, Len: n}, nil
	}

	if IsPrimitive(name) {
		return &TypeExpr{Kind: KindPrimitive, Name: name}, nil
	}
	return &TypeExpr{Kind: KindNamed, Name: name}, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || p.pos > start && c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *exprParser) number() (int, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, errors.Newf("expected array length at offset %d", p.pos)
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, errors.Wrap(err, "array length")
	}
	return n, nil
}

func (p *exprParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return errors.Newf("expected %q, got end of input", c)
	}
	if p.src[p.pos] != c {
		return errors.Newf("expected %q at offset %d, got %q", c, p.pos, p.src[p.pos])
	}
	p.pos++
	return nil
}
