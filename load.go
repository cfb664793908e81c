package vhier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/golanghdl/vhier/hier"
	"github.com/golanghdl/vhier/internal/def"
	"github.com/golanghdl/vhier/internal/resolve"
	"github.com/golanghdl/vhier/internal/scan"
)

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}

// Load scans all HDL files from the source and resolves the module
// hierarchy. Loading is two-phase: every file is scanned for definitions
// before any instantiation is resolved, so resolution always sees the
// complete name set.
//
// Example:
//
//	m, err := vhier.LoadManifest("design.prjinfo")
//	if err != nil { ... }
//	h, err := vhier.Load(ctx, m.Source(), vhier.WithLogger(slog.Default()))
func Load(ctx context.Context, source Source, opts ...LoadOption) (*hier.Hierarchy, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if source == nil {
		return nil, ErrNoSource
	}
	logger := cfg.logger

	files, err := source.ListFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return hier.NewHierarchy(nil, nil), nil
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "scanning sources",
			slog.Int("files", len(files)))
	}

	// Per-file extraction is independent; results are merged in file-list
	// order afterwards so the definitions table is deterministic.
	type fileResult struct {
		defs  []*def.Definition
		diags []hier.Diagnostic
	}
	results := make([]fileResult, len(files))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i, file := range files {
		wg.Add(1)
		go func(slot int, path string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			content, err := readSourceFile(source, path)
			if err != nil {
				results[slot] = fileResult{diags: []hier.Diagnostic{{
					Severity: hier.SeverityWarning,
					Code:     hier.DiagFileMissing,
					Message:  fmt.Sprintf("source file skipped: %v", err),
					File:     path,
				}}}
				return
			}

			stripped := scan.StripComments(content)
			defs, diags := def.Extract(stripped, path, componentLogger(logger, "scanner"))
			results[slot] = fileResult{defs: defs, diags: diags}
		}(i, file)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var allDefs []*def.Definition
	var diags []hier.Diagnostic
	for _, r := range results {
		allDefs = append(allDefs, r.defs...)
		diags = append(diags, r.diags...)
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "scan complete",
			slog.Int("definitions", len(allDefs)),
			slog.Int("diagnostics", len(diags)))
	}

	r := resolve.New(allDefs, componentLogger(logger, "resolver"))
	roots := r.Resolve()
	diags = append(diags, r.Diagnostics()...)

	return hier.NewHierarchy(roots, diags), nil
}

func readSourceFile(source Source, path string) ([]byte, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
