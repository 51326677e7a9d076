// Package schema reads the YAML description of wire types consumed by the
// code generator and checks it for consistency.
package schema

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSchema marks every validation failure.
var ErrInvalidSchema = errors.New("invalid schema")

// MaxVariants is the number of alternatives a one-byte discriminant can
// address.
const MaxVariants = 256

type DeclKind string

const (
	Struct DeclKind = "struct"
	Enum   DeclKind = "enum"
)

// File is a parsed schema document.
type File struct {
	Package string   `yaml:"package"`
	Imports []string `yaml:"imports,omitempty"`
	Externs []Extern `yaml:"externs,omitempty"`
	Types   []*Decl  `yaml:"types"`

	decls   map[string]*Decl
	externs map[string]*Extern
}

// Extern is a type defined outside the schema. Encode and Decode name an
// EncodeFunc and DecodeFunc for it; when empty the type is expected to
// implement the wire capability contract itself.
type Extern struct {
	Name   string `yaml:"name"`
	GoType string `yaml:"go_type"`
	Encode string `yaml:"encode,omitempty"`
	Decode string `yaml:"decode,omitempty"`
}

// Decl declares a product (struct) or sum (enum) type.
type Decl struct {
	Name     string     `yaml:"name"`
	Kind     DeclKind   `yaml:"kind"`
	Doc      string     `yaml:"doc,omitempty"`
	Fields   []*Field   `yaml:"fields,omitempty"`
	Variants []*Variant `yaml:"variants,omitempty"`
}

type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	Expr *TypeExpr `yaml:"-"`
}

// Variant is one alternative of an enum. A variant with neither Tuple nor
// Fields carries no payload.
type Variant struct {
	Name   string   `yaml:"name"`
	Index  *int     `yaml:"index"`
	Tuple  []string `yaml:"tuple,omitempty"`
	Fields []*Field `yaml:"fields,omitempty"`

	// Payload is Tuple parsed, positionally.
	Payload []*TypeExpr `yaml:"-"`
}

// IsUnit reports whether the variant carries no payload.
func (v *Variant) IsUnit() bool {
	return len(v.Tuple) == 0 && len(v.Fields) == 0
}

// IsTuple reports whether the variant carries positional fields.
func (v *Variant) IsTuple() bool {
	return len(v.Tuple) > 0
}

// Load reads and validates the schema file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema %s", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return f, nil
}

// Parse decodes and validates a schema document. Unknown keys are
// rejected so that typos do not silently drop declarations.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding yaml"), ErrInvalidSchema)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Decl returns the declared type with the given name.
func (f *File) Decl(name string) (*Decl, bool) {
	d, ok := f.decls[name]
	return d, ok
}

// Extern returns the extern with the given name.
func (f *File) Extern(name string) (*Extern, bool) {
	e, ok := f.externs[name]
	return e, ok
}
