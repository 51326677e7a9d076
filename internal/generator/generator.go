// Package generator turns a validated schema into Go source implementing
// the wire capability contract for every declared type.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/eigerco/bytetransport/internal/schema"
	"github.com/eigerco/bytetransport/pkg/log"
)

// WireImport is the import path of the runtime every generated file uses.
const WireImport = "github.com/eigerco/bytetransport/pkg/serialization/codec/wire"

var t *template.Template

func init() {
	t = template.Must(template.New("").Parse(fileTmpl + structTmpl + enumTmpl + fieldsTmpl))
}

// Options tune the generated file header.
type Options struct {
	// Source is the schema file name written in the "Code generated" header.
	Source string
}

type fileContext struct {
	Source      string
	Package     string
	Imports     []string
	Fingerprint uint64
	Decls       []*declContext
}

type declContext struct {
	Name     string
	Doc      []string
	Enum     bool
	Fields   []*fieldContext
	Variants []*variantContext
}

type variantContext struct {
	Name   string
	Index  int
	Unit   bool
	Fields []*fieldContext
}

type fieldContext struct {
	Name   string
	Owner  string
	GoType string
	Encode string
	Decode string
	Zero   string
}

// Generate validates f and writes the Go source for it to w. Nothing is
// written when generation fails.
func Generate(w io.Writer, f *schema.File, opts Options) error {
	if f == nil {
		return errors.New("nil schema")
	}
	if err := f.Validate(); err != nil {
		return err
	}

	ctx, err := buildContext(f, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "file", ctx); err != nil {
		return errors.Wrap(err, "executing template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "formatting generated code")
	}

	log.Codegen.Debug().
		Str("package", f.Package).
		Int("types", len(f.Types)).
		Str("fingerprint", fmt.Sprintf("0x%016x", ctx.Fingerprint)).
		Msg("generated wire codecs")

	_, err = w.Write(src)
	return err
}

func buildContext(f *schema.File, opts Options) (*fileContext, error) {
	r := &resolver{file: f}
	ctx := &fileContext{
		Source:      opts.Source,
		Package:     f.Package,
		Fingerprint: f.Fingerprint(),
	}
	if ctx.Source == "" {
		ctx.Source = "schema"
	}

	for _, d := range f.Types {
		dc := &declContext{
			Name: d.Name,
			Doc:  docLines(d.Doc),
			Enum: d.Kind == schema.Enum,
		}

		switch d.Kind {
		case schema.Struct:
			fields, err := r.fields(d.Name, d.Name+"{}", d.Fields)
			if err != nil {
				return nil, errors.Wrapf(err, "type %s", d.Name)
			}
			dc.Fields = fields
		case schema.Enum:
			for _, v := range d.Variants {
				vc, err := r.variant(d.Name, v)
				if err != nil {
					return nil, errors.Wrapf(err, "type %s", d.Name)
				}
				dc.Variants = append(dc.Variants, vc)
			}
			sort.SliceStable(dc.Variants, func(i, j int) bool {
				return dc.Variants[i].Index < dc.Variants[j].Index
			})
			if len(dc.Doc) == 0 {
				dc.Doc = []string{d.Name + " is implemented by " + variantList(dc.Variants) + "."}
			}
		default:
			return nil, errors.Mark(errors.Newf("type %s: unknown kind %q", d.Name, d.Kind), schema.ErrInvalidSchema)
		}
		ctx.Decls = append(ctx.Decls, dc)
	}

	ctx.Imports = importBlock(r.usesTime, f.Imports)
	return ctx, nil
}

func (r *resolver) variant(enum string, v *schema.Variant) (*variantContext, error) {
	if v.Index == nil {
		return nil, errors.Mark(errors.Newf("variant %s has no index", v.Name), schema.ErrInvalidSchema)
	}
	vc := &variantContext{
		Name:  enum + v.Name,
		Index: *v.Index,
		Unit:  v.IsUnit(),
	}

	if v.IsTuple() {
		positional := make([]*schema.Field, len(v.Payload))
		for i, expr := range v.Payload {
			positional[i] = &schema.Field{Name: "F" + strconv.Itoa(i), Expr: expr}
		}
		fields, err := r.fields(vc.Name, "nil", positional)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", v.Name)
		}
		vc.Fields = fields
		return vc, nil
	}

	fields, err := r.fields(vc.Name, "nil", v.Fields)
	if err != nil {
		return nil, errors.Wrapf(err, "variant %s", v.Name)
	}
	vc.Fields = fields
	return vc, nil
}

func (r *resolver) fields(owner, zero string, fields []*schema.Field) ([]*fieldContext, error) {
	out := make([]*fieldContext, 0, len(fields))
	for _, fd := range fields {
		if fd.Expr == nil {
			return nil, errors.Mark(errors.Newf("field %s is unresolved, validate the schema first", fd.Name), schema.ErrInvalidSchema)
		}
		out = append(out, &fieldContext{
			Name:   fd.Name,
			Owner:  owner,
			GoType: r.goType(fd.Expr),
			Encode: r.encodeStmt(fd.Expr, "v."+fd.Name),
			Decode: r.decodeStmt(fd.Expr, "v."+fd.Name),
			Zero:   zero,
		})
	}
	return out, nil
}

// importBlock lays out imports as gofmt groups them: standard library
// first, a blank separator, then everything else.
func importBlock(usesTime bool, extra []string) []string {
	var std []string
	if usesTime {
		std = append(std, "time")
	}

	seen := map[string]bool{WireImport: true}
	others := []string{WireImport}
	for _, imp := range extra {
		imp = strings.TrimSpace(imp)
		if seen[imp] {
			continue
		}
		seen[imp] = true
		others = append(others, imp)
	}
	sort.Strings(others)

	if len(std) == 0 {
		return others
	}
	return append(append(std, ""), others...)
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}

func variantList(vs []*variantContext) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
