package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes everything that determines the wire format: type
// order, field order and types, variant names and discriminants. Docs,
// imports and extern Go bindings do not take part. The generator emits the
// value as a constant, so any wire change shows up in a diff of the
// generated file.
func (f *File) Fingerprint() uint64 {
	return xxhash.Sum64String(f.Canonical())
}

// Canonical returns the normalized text the fingerprint is computed over.
func (f *File) Canonical() string {
	var b strings.Builder
	for _, d := range f.Types {
		b.WriteString(string(d.Kind))
		b.WriteByte(' ')
		b.WriteString(d.Name)
		b.WriteByte('{')
		switch d.Kind {
		case Struct:
			writeFields(&b, d.Fields)
		case Enum:
			variants := make([]*Variant, len(d.Variants))
			copy(variants, d.Variants)
			sort.Slice(variants, func(i, j int) bool { return *variants[i].Index < *variants[j].Index })
			for _, v := range variants {
				b.WriteString(strconv.Itoa(*v.Index))
				b.WriteByte('=')
				b.WriteString(v.Name)
				switch {
				case v.IsTuple():
					b.WriteByte('(')
					for i, t := range v.Payload {
						if i > 0 {
							b.WriteByte(',')
						}
						b.WriteString(t.String())
					}
					b.WriteByte(')')
				case len(v.Fields) > 0:
					b.WriteByte('{')
					writeFields(&b, v.Fields)
					b.WriteByte('}')
				}
				b.WriteByte(';')
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func writeFields(b *strings.Builder, fields []*Field) {
	for _, fd := range fields {
		b.WriteString(fd.Name)
		b.WriteByte(':')
		b.WriteString(fd.Expr.String())
		b.WriteByte(';')
	}
}
