// Command bytegen generates wire codecs from a YAML schema.
//
//	//go:generate go run github.com/eigerco/bytetransport/cmd/bytegen --schema schema.yaml
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/pflag"

	"github.com/eigerco/bytetransport/internal/generator"
	"github.com/eigerco/bytetransport/internal/schema"
	"github.com/eigerco/bytetransport/pkg/log"
)

// errStale is returned by --check when the output file differs from what
// the schema generates.
var errStale = errors.New("generated file is out of date")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "bytegen: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	schema    string
	out       string
	check     bool
	logLevel  string
	logFormat string
}

func run(args []string, stdout io.Writer) error {
	var cfg config

	flagSet := pflag.NewFlagSet("bytegen", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVar(&cfg.schema, "schema", "", "path to the YAML schema (required)")
	flagSet.StringVarP(&cfg.out, "out", "o", "", "output file (default: <schema>_wire.go next to the schema)")
	flagSet.BoolVar(&cfg.check, "check", false, "do not write; fail with a diff if the output file is stale")
	flagSet.StringVar(&cfg.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flagSet.StringVar(&cfg.logFormat, "log-format", "console", "log format (console, json)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if cfg.schema == "" {
		return errors.New("--schema is required")
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return errors.Newf("unexpected argument: %s", extra[0])
	}

	level, err := log.ParseLogLevel(cfg.logLevel)
	if err != nil {
		return errors.Wrap(err, "--log-level")
	}
	format, err := log.ParseLoggerType(cfg.logFormat)
	if err != nil {
		return errors.Wrap(err, "--log-format")
	}
	log.Init(log.Options{LogLevel: level, Type: format})

	f, err := schema.Load(cfg.schema)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := generator.Generate(&buf, f, generator.Options{Source: filepath.Base(cfg.schema)}); err != nil {
		return errors.Wrapf(err, "generating %s", cfg.schema)
	}

	output := cfg.out
	if output == "" {
		output = outputPath(cfg.schema)
	}

	if cfg.check {
		return check(output, buf.Bytes(), stdout)
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to generate file at location %s", output)
	}
	log.Codegen.Info().Str("schema", cfg.schema).Str("output", output).Int("types", len(f.Types)).Msg("generated")
	return nil
}

// outputPath derives the generated file name from the schema path:
// types.yaml becomes types_wire.go in the same directory.
func outputPath(schemaPath string) string {
	base := strings.TrimSuffix(schemaPath, filepath.Ext(schemaPath))
	return base + "_wire.go"
}

func check(output string, generated []byte, stdout io.Writer) error {
	current, err := os.ReadFile(output)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "reading %s", output)
	}
	if bytes.Equal(current, generated) {
		log.Codegen.Info().Str("output", output).Msg("up to date")
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(generated)),
		FromFile: output,
		ToFile:   output + " (generated)",
		Context:  3,
	})
	if err != nil {
		return errors.Wrap(err, "computing diff")
	}
	fmt.Fprint(stdout, diff)
	return errors.Wrapf(errStale, "%s", output)
}
