package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
package: demo
types:
  - name: Ping
    kind: struct
    fields:
      - {name: Seq, type: u32}
      - {name: Payload, type: seq<u8>}
  - name: Msg
    kind: enum
    variants:
      - {name: Hello, index: 0}
      - {name: Ping, index: 1, tuple: [Ping]}
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "types_wire.go", outputPath("types.yaml"))
	assert.Equal(t, filepath.Join("a", "b", "schema_wire.go"), outputPath(filepath.Join("a", "b", "schema.yml")))
}

func TestRunGeneratesFile(t *testing.T) {
	path := writeSchema(t, testSchema)

	var stdout bytes.Buffer
	require.NoError(t, run([]string{"--schema", path, "--log-level", "error"}, &stdout))

	out := filepath.Join(filepath.Dir(path), "demo_wire.go")
	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(src), "// Code generated by bytegen from demo.yaml. DO NOT EDIT.")
	assert.Contains(t, string(src), "type MsgPing struct {")
	assert.Empty(t, stdout.String())
}

func TestRunCheck(t *testing.T) {
	path := writeSchema(t, testSchema)
	out := filepath.Join(filepath.Dir(path), "custom.go")
	args := []string{"--schema", path, "-o", out, "--log-format", "json", "--log-level", "error"}

	require.NoError(t, run(args, &bytes.Buffer{}))

	var stdout bytes.Buffer
	require.NoError(t, run(append(args, "--check"), &stdout), "fresh output passes the check")
	assert.Empty(t, stdout.String())

	require.NoError(t, os.WriteFile(path, []byte(testSchema+"  - {name: Extra, kind: struct}\n"), 0o644))

	err := run(append(args, "--check"), &stdout)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStale))
	assert.Contains(t, stdout.String(), "+type Extra struct {")
	assert.Contains(t, stdout.String(), "-const SchemaFingerprint")
}

func TestRunErrors(t *testing.T) {
	var stdout bytes.Buffer

	assert.Error(t, run(nil, &stdout), "--schema is required")
	assert.Error(t, run([]string{"--no-such-flag"}, &stdout))
	assert.Error(t, run([]string{"--schema", "x.yaml", "--log-format", "xml"}, &stdout))
	assert.Error(t, run([]string{"--schema", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout))

	path := writeSchema(t, "package: demo\ntypes:\n  - {name: A, kind: struct, fields: [{name: X, type: Nope}]}\n")
	err := run([]string{"--schema", path, "--log-level", "error"}, &stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "Nope"`)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(path), "demo_wire.go"))
	assert.True(t, os.IsNotExist(statErr), "no file is written for an invalid schema")
}
