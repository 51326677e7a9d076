package schema

import (
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
)

func invalidf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidSchema)
}

// Validate checks names, references and variant indices, and resolves
// every type expression. It is called by Parse; callers building a File
// by hand must call it before generating code.
func (f *File) Validate() error {
	if !token.IsIdentifier(f.Package) {
		return invalidf("package name %q is not a Go identifier", f.Package)
	}
	for _, imp := range f.Imports {
		if strings.TrimSpace(imp) == "" {
			return invalidf("empty import path")
		}
	}

	f.decls = make(map[string]*Decl, len(f.Types))
	f.externs = make(map[string]*Extern, len(f.Externs))

	for i := range f.Externs {
		e := &f.Externs[i]
		if err := checkTypeName(e.Name); err != nil {
			return errors.Wrap(err, "extern")
		}
		if _, dup := f.externs[e.Name]; dup {
			return invalidf("extern %s declared twice", e.Name)
		}
		if e.GoType == "" {
			return invalidf("extern %s has no go_type", e.Name)
		}
		if (e.Encode == "") != (e.Decode == "") {
			return invalidf("extern %s must set both encode and decode or neither", e.Name)
		}
		f.externs[e.Name] = e
	}

	for _, d := range f.Types {
		if d == nil {
			return invalidf("empty type declaration")
		}
		if err := checkTypeName(d.Name); err != nil {
			return err
		}
		if _, dup := f.decls[d.Name]; dup {
			return invalidf("type %s declared twice", d.Name)
		}
		if _, dup := f.externs[d.Name]; dup {
			return invalidf("type %s is also declared as an extern", d.Name)
		}
		f.decls[d.Name] = d
	}

	for _, d := range f.Types {
		var err error
		switch d.Kind {
		case Struct:
			err = f.validateStruct(d)
		case Enum:
			err = f.validateEnum(d)
		default:
			err = invalidf("unknown kind %q", d.Kind)
		}
		if err != nil {
			return errors.Wrapf(err, "type %s", d.Name)
		}
	}

	if err := f.checkGeneratedNames(); err != nil {
		return err
	}
	return f.checkContainment()
}

// reservedFields are the methods generated on every product type.
var reservedFields = map[string]struct{}{
	"EncodeWire": {},
	"DecodeWire": {},
}

// checkGeneratedNames rejects schemas whose generated package-level
// identifiers collide, e.g. type Foo next to type EncodeFoo.
func (f *File) checkGeneratedNames() error {
	owners := map[string]string{"SchemaFingerprint": "the schema fingerprint"}
	claim := func(name, owner string) error {
		if other, dup := owners[name]; dup {
			return invalidf("generated name %s is produced by both %s and %s", name, other, owner)
		}
		owners[name] = owner
		return nil
	}

	for _, d := range f.Types {
		owner := "type " + d.Name
		for _, name := range []string{d.Name, "Encode" + d.Name, "Decode" + d.Name} {
			if err := claim(name, owner); err != nil {
				return err
			}
		}
		for _, v := range d.Variants {
			owner := "variant " + d.Name + "." + v.Name
			for _, name := range []string{d.Name + v.Name, d.Name + v.Name + "Index"} {
				if err := claim(name, owner); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkTypeName(name string) error {
	if !token.IsIdentifier(name) || !token.IsExported(name) {
		return invalidf("type name %q must be an exported Go identifier", name)
	}
	return nil
}

func (f *File) validateStruct(d *Decl) error {
	if len(d.Variants) > 0 {
		return invalidf("struct cannot declare variants")
	}
	return f.validateFields(d.Fields)
}

func (f *File) validateFields(fields []*Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, fd := range fields {
		if fd == nil {
			return invalidf("empty field declaration")
		}
		if !token.IsIdentifier(fd.Name) || !token.IsExported(fd.Name) {
			return invalidf("field name %q must be an exported Go identifier", fd.Name)
		}
		if _, reserved := reservedFields[fd.Name]; reserved {
			return invalidf("field name %s is reserved for a generated method", fd.Name)
		}
		if _, dup := seen[fd.Name]; dup {
			return invalidf("field %s declared twice", fd.Name)
		}
		seen[fd.Name] = struct{}{}

		expr, err := f.resolve(fd.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", fd.Name)
		}
		fd.Expr = expr
	}
	return nil
}

func (f *File) validateEnum(d *Decl) error {
	if len(d.Fields) > 0 {
		return invalidf("enum cannot declare fields")
	}
	n := len(d.Variants)
	if n == 0 {
		return invalidf("enum has no variants")
	}
	if n > MaxVariants {
		return invalidf("enum has %d variants, at most %d fit a one-byte discriminant", n, MaxVariants)
	}

	names := make(map[string]struct{}, n)
	indices := make(map[int]string, n)
	for _, v := range d.Variants {
		if v == nil {
			return invalidf("empty variant declaration")
		}
		if !token.IsIdentifier(v.Name) || !token.IsExported(v.Name) {
			return invalidf("variant name %q must be an exported Go identifier", v.Name)
		}
		if _, dup := names[v.Name]; dup {
			return invalidf("variant %s declared twice", v.Name)
		}
		names[v.Name] = struct{}{}

		generated := d.Name + v.Name
		if _, clash := f.decls[generated]; clash {
			return invalidf("variant %s: generated type %s clashes with a declared type", v.Name, generated)
		}
		if _, clash := f.externs[generated]; clash {
			return invalidf("variant %s: generated type %s clashes with an extern", v.Name, generated)
		}

		if v.Index == nil {
			return invalidf("variant %s has no index", v.Name)
		}
		idx := *v.Index
		if idx < 0 || idx >= n {
			return invalidf("variant %s: index %d out of range 0..%d", v.Name, idx, n-1)
		}
		if other, dup := indices[idx]; dup {
			return invalidf("variants %s and %s share index %d", other, v.Name, idx)
		}
		indices[idx] = v.Name

		if len(v.Tuple) > 0 && len(v.Fields) > 0 {
			return invalidf("variant %s declares both tuple and fields", v.Name)
		}
		v.Payload = v.Payload[:0]
		for i, s := range v.Tuple {
			expr, err := f.resolve(s)
			if err != nil {
				return errors.Wrapf(err, "variant %s element %d", v.Name, i)
			}
			v.Payload = append(v.Payload, expr)
		}
		if err := f.validateFields(v.Fields); err != nil {
			return errors.Wrapf(err, "variant %s", v.Name)
		}
	}
	return nil
}

// resolve parses a type expression and checks every name it references.
func (f *File) resolve(s string) (*TypeExpr, error) {
	expr, err := ParseType(s)
	if err != nil {
		return nil, err
	}
	var unknown string
	expr.Walk(func(t *TypeExpr) {
		if t.Kind != KindNamed || unknown != "" {
			return
		}
		if _, ok := f.decls[t.Name]; ok {
			return
		}
		if _, ok := f.externs[t.Name]; ok {
			return
		}
		unknown = t.Name
	})
	if unknown != "" {
		return nil, invalidf("unknown type %q", unknown)
	}
	return expr, nil
}

// checkContainment rejects structs that contain themselves by value, which
// would have infinite size. Options and sequences break the cycle, and so
// do enums, which are interfaces in Go.
func (f *File) checkContainment() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(f.decls))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return invalidf("type %s contains itself by value: %s",
				name, strings.Join(append(path, name), " -> "))
		case done:
			return nil
		}
		state[name] = visiting
		for _, next := range f.byValue(f.decls[name]) {
			if err := visit(next, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, d := range f.Types {
		if d.Kind != Struct {
			continue
		}
		if err := visit(d.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// byValue lists the structs d embeds directly or through arrays.
func (f *File) byValue(d *Decl) []string {
	var out []string
	for _, fd := range d.Fields {
		t := fd.Expr
		for t.Kind == KindArray {
			t = t.Elem
		}
		if t.Kind != KindNamed {
			continue
		}
		if dep, ok := f.decls[t.Name]; ok && dep.Kind == Struct {
			out = append(out, t.Name)
		}
	}
	return out
}
