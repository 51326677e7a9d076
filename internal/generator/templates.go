package generator

const fileTmpl = `
{{- define "file" -}}
// Code generated by bytegen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
{{- if .}}
	"{{.}}"
{{- else}}
{{end}}
{{- end}}
)

// SchemaFingerprint identifies the wire format of the types in this file.
const SchemaFingerprint uint64 = 0x{{printf "%016x" .Fingerprint}}
{{range .Decls}}
{{if .Enum}}{{template "enum" .}}{{else}}{{template "struct" .}}{{end}}
{{- end}}

func init() {
{{- range .Decls}}
	wire.Register[{{.Name}}](Encode{{.Name}}, Decode{{.Name}})
{{- end}}
}
{{end}}
`

const structTmpl = `
{{- define "struct"}}
{{range .Doc}}
// {{.}}
{{- end}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.GoType}}
{{- end}}
}

func (x {{.Name}}) EncodeWire(e *wire.Encoder) error {
	return Encode{{.Name}}(e, x)
}

func (x *{{.Name}}) DecodeWire(d *wire.Decoder) error {
	v, err := Decode{{.Name}}(d)
	if err != nil {
		return err
	}
	*x = v
	return nil
}

func Encode{{.Name}}(e *wire.Encoder, v {{.Name}}) error {
{{- template "encodeFields" .}}
	return nil
}

func Decode{{.Name}}(d *wire.Decoder) ({{.Name}}, error) {
	var (
		v   {{.Name}}
		err error
	)
{{- template "decodeFields" .}}
	return v, err
}
{{end}}
`

const enumTmpl = `
{{- define "enum"}}
{{- $enum := .Name}}
{{range .Doc}}
// {{.}}
{{- end}}
type {{.Name}} interface {
	wire.Encodable
	is{{.Name}}()
}

const (
{{- range .Variants}}
	{{.Name}}Index uint8 = {{.Index}}
{{- end}}
)
{{range .Variants}}
{{if .Unit -}}
type {{.Name}} struct{}
{{- else -}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.GoType}}
{{- end}}
}
{{- end}}

func ({{.Name}}) is{{$enum}}() {}

func (x {{.Name}}) EncodeWire(e *wire.Encoder) error {
	return Encode{{$enum}}(e, x)
}

func (x *{{.Name}}) DecodeWire(d *wire.Decoder) error {
	tag, err := d.ReadByte()
	if err != nil {
		return err
	}
	if tag != {{.Name}}Index {
		return wire.UnknownDiscriminant("{{.Name}}", tag)
	}
{{- if .Unit}}
	*x = {{.Name}}{}
{{- else}}
	var v {{.Name}}
{{- template "decodeVariantFields" .}}
	*x = v
{{- end}}
	return nil
}
{{end}}
func Encode{{.Name}}(e *wire.Encoder, v {{.Name}}) error {
	switch v := v.(type) {
{{- range .Variants}}
	case {{.Name}}:
		e.PutUint8({{.Name}}Index)
{{- template "encodeFields" .}}
{{- end}}
	default:
		return wire.UnknownVariant("{{.Name}}", v)
	}
	return nil
}

func Decode{{.Name}}(d *wire.Decoder) ({{.Name}}, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
{{- range .Variants}}
	case {{.Name}}Index:
{{- if .Unit}}
		return {{.Name}}{}, nil
{{- else}}
		var v {{.Name}}
{{- template "decodeFields" .}}
		return v, nil
{{- end}}
{{- end}}
	default:
		return nil, wire.UnknownDiscriminant("{{.Name}}", tag)
	}
}
{{end}}
`

const fieldsTmpl = `
{{- define "encodeFields"}}
{{- range .Fields}}
	if err := {{.Encode}}; err != nil {
		return wire.WrapField("{{.Owner}}", "{{.Name}}", err)
	}
{{- end}}
{{- end}}

{{- define "decodeVariantFields"}}
{{- range .Fields}}
	if {{.Decode}}; err != nil {
		return wire.WrapField("{{.Owner}}", "{{.Name}}", err)
	}
{{- end}}
{{- end}}

{{- define "decodeFields"}}
{{- range .Fields}}
	if {{.Decode}}; err != nil {
		return {{.Zero}}, wire.WrapField("{{.Owner}}", "{{.Name}}", err)
	}
{{- end}}
{{- end}}
`
