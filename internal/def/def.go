// Package def extracts module definitions from comment-stripped HDL source.
//
// A definition is the construct
//
//	module <name> [ #( <parameters> ) ] ( <ports> ) ; <body> endmodule
//
// Extraction uses bracket-depth matching for the parameter and port blocks,
// so nested parentheses inside expressions (bit widths, defaults) never
// terminate a block early. Nested module constructs are not expected inside
// a body; the first whole-word endmodule closes the open module.
package def

import (
	"fmt"
	"log/slog"

	"github.com/golanghdl/vhier/hier"
	"github.com/golanghdl/vhier/internal/scan"
	"github.com/golanghdl/vhier/internal/types"
)

const (
	kwModule    = "module"
	kwEndmodule = "endmodule"
)

// Definition is one module construct extracted from a source file.
// Created once during scanning, read-only afterwards.
type Definition struct {
	Name      string
	RawParams string // text between #( and ), "" when absent
	RawPorts  string // text of the port list
	Body      string // text between the port-list close and endmodule
	File      string
	Line      int // 1-based line of the module keyword
	BodyLine  int // 1-based line where Body begins, for file-absolute lines
}

// Extract scans stripped source text and returns every well-formed module
// definition in file order, along with diagnostics for malformed constructs.
// Malformed modules are omitted entirely; no partial definition is produced.
func Extract(src []byte, file string, logger *slog.Logger) ([]*Definition, []hier.Diagnostic) {
	e := &extractor{
		s:      scan.New(src, logger),
		src:    src,
		file:   file,
		Logger: types.Logger{L: logger},
	}
	return e.run()
}

type extractor struct {
	s     *scan.Scanner
	src   []byte
	file  string
	defs  []*Definition
	diags []hier.Diagnostic
	types.Logger
}

func (e *extractor) run() ([]*Definition, []hier.Diagnostic) {
	for {
		start, ok := e.s.FindWord(kwModule)
		if !ok {
			break
		}
		e.s.SetPos(start + len(kwModule))

		d, reason := e.header(start)
		if d == nil {
			e.malformed(start, reason)
			continue
		}
		e.defs = append(e.defs, d)
		if e.TraceEnabled() {
			e.Trace("module definition",
				slog.String("name", d.Name),
				slog.Int("line", d.Line))
		}
	}
	e.Log(slog.LevelDebug, "extraction complete",
		slog.String("file", e.file),
		slog.Int("definitions", len(e.defs)))
	return e.defs, e.diags
}

// header parses one module construct whose keyword begins at start.
// On failure it returns nil and a reason; scanning resumes from wherever
// the failed parse stopped, which is always past the module keyword, so
// the same candidate is never read twice.
func (e *extractor) header(start int) (*Definition, string) {
	s := e.s

	s.SkipWhitespace()
	name, ok := s.ScanIdent()
	if !ok {
		return nil, "missing module name"
	}

	// A '#' between the name and the port list introduces a parameter block.
	var params string
	s.SkipWhitespace()
	if s.Accept('#') {
		s.SkipWhitespace()
		params, ok = s.Balanced('(', ')')
		if !ok {
			return nil, "unbalanced parameter block"
		}
		s.SkipWhitespace()
	}

	ports, ok := s.Balanced('(', ')')
	if !ok {
		return nil, "unbalanced port list"
	}

	s.SkipWhitespace()
	if !s.Accept(';') {
		return nil, "missing ';' after port list"
	}

	bodyStart := s.Pos()
	end, ok := s.FindWord(kwEndmodule)
	if !ok {
		return nil, "missing endmodule"
	}
	s.SetPos(end + len(kwEndmodule))

	return &Definition{
		Name:      name,
		RawParams: params,
		RawPorts:  ports,
		Body:      string(e.src[bodyStart:end]),
		File:      e.file,
		Line:      scan.LineAt(e.src, start),
		BodyLine:  scan.LineAt(e.src, bodyStart),
	}, ""
}

func (e *extractor) malformed(start int, reason string) {
	line := scan.LineAt(e.src, start)
	e.diags = append(e.diags, hier.Diagnostic{
		Severity: hier.SeverityError,
		Code:     hier.DiagModuleMalformed,
		Message:  fmt.Sprintf("module construct omitted: %s", reason),
		File:     e.file,
		Line:     line,
	})
	e.Log(slog.LevelDebug, "malformed module skipped",
		slog.String("file", e.file),
		slog.Int("line", line),
		slog.String("reason", reason))
}
