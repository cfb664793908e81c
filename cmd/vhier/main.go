// Command vhier extracts an HDL module hierarchy and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/golanghdl/vhier"
)

const usage = `vhier - HDL module hierarchy extractor

Usage:
  vhier [options] MANIFEST

The manifest is a .prjinfo file (JSON or YAML) with a "sourceFiles" list.
Every module defined in the listed files becomes a hierarchy root in the
JSON output, with its instantiations expanded recursively.

Options:
  --compact         Minified JSON (no indentation)
  -v, --verbose     Enable debug logging
  -vv               Enable trace logging (implies -v)
  -h, --help        Show help

Examples:
  vhier design.prjinfo
  vhier design.prjinfo | jq '.TOP.submodules'
`

type cli struct {
	verbose  int
	compact  bool
	helpFlag bool
	manifest string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var c cli
	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			c.helpFlag = true
		case arg == "-v" || arg == "--verbose":
			if c.verbose < 1 {
				c.verbose = 1
			}
		case arg == "-vv":
			c.verbose = 2
		case arg == "--compact":
			c.compact = true
		case len(arg) > 0 && arg[0] == '-':
			fmt.Fprintf(os.Stderr, "unknown option: %s\n\n", arg)
			fmt.Fprint(os.Stderr, usage)
			return 1
		default:
			if c.manifest == "" {
				c.manifest = arg
			} else {
				fmt.Fprintf(os.Stderr, "unexpected argument: %s\n\n", arg)
				fmt.Fprint(os.Stderr, usage)
				return 1
			}
		}
	}

	if c.helpFlag {
		fmt.Fprint(os.Stdout, usage)
		return 0
	}

	if c.manifest == "" {
		// Keep stdout parseable for pipelines even on usage errors.
		fmt.Println("{}")
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	manifest, err := vhier.LoadManifest(c.manifest)
	if err != nil {
		printError("%v", err)
		return 1
	}

	var opts []vhier.LoadOption
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, vhier.WithLogger(logger))
	}

	h, err := vhier.Load(context.Background(), manifest.Source(), opts...)
	if err != nil {
		printError("%v", err)
		return 1
	}

	for _, d := range h.Diagnostics() {
		fmt.Fprintln(os.Stderr, d)
	}

	var out []byte
	if c.compact {
		out, err = json.Marshal(h)
	} else {
		out, err = json.MarshalIndent(h, "", "    ")
	}
	if err != nil {
		printError("encoding hierarchy: %v", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func (c *cli) setupLogger() *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = vhier.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
