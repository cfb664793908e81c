// Package resolve expands module bodies into instance trees.
//
// Resolution is two-phase by construction: it receives the complete
// definitions table and never mutates it. Each body is scanned once left to
// right, so submodules appear in source order regardless of how many module
// types are instantiated. Expansion tracks the chain of module names on the
// active recursion path and truncates any module already being expanded,
// which bounds recursion on self-referential or mutually recursive designs.
package resolve

import (
	"fmt"
	"log/slog"

	"github.com/golanghdl/vhier/hier"
	"github.com/golanghdl/vhier/internal/def"
	"github.com/golanghdl/vhier/internal/scan"
	"github.com/golanghdl/vhier/internal/types"
)

// Resolver expands module definitions into hierarchy roots.
type Resolver struct {
	order []*def.Definition          // first definition per name, file order
	table map[string]*def.Definition // name -> winning definition
	diags []hier.Diagnostic
	types.Logger
}

// New builds a Resolver over the given definitions. When two definitions
// share a name the first one wins and a duplicate-module warning is
// recorded for each later occurrence.
func New(defs []*def.Definition, logger *slog.Logger) *Resolver {
	r := &Resolver{
		table:  make(map[string]*def.Definition, len(defs)),
		Logger: types.Logger{L: logger},
	}
	for _, d := range defs {
		if prev, exists := r.table[d.Name]; exists {
			r.diags = append(r.diags, hier.Diagnostic{
				Severity: hier.SeverityWarning,
				Code:     hier.DiagDuplicateModule,
				Message: fmt.Sprintf("module %q already defined at %s:%d; this definition is ignored",
					d.Name, prev.File, prev.Line),
				File: d.File,
				Line: d.Line,
			})
			continue
		}
		r.table[d.Name] = d
		r.order = append(r.order, d)
	}
	return r
}

// Diagnostics returns diagnostics collected during construction and
// resolution.
func (r *Resolver) Diagnostics() []hier.Diagnostic {
	return r.diags
}

// Resolve produces one hierarchy root per defined module. The root's
// instance name equals its module name, its ports are the normalized
// declared ports, and its location is the definition site.
func (r *Resolver) Resolve() map[string]*hier.InstanceNode {
	roots := make(map[string]*hier.InstanceNode, len(r.order))
	for _, d := range r.order {
		roots[d.Name] = &hier.InstanceNode{
			InstanceName: d.Name,
			ModuleName:   d.Name,
			Ports:        hier.NormalizePorts(d.RawPorts),
			Submodules:   r.expand(d, []string{d.Name}),
			Location:     hier.Location{File: d.File, Line: d.Line},
		}
		r.Log(slog.LevelDebug, "module resolved",
			slog.String("module", d.Name),
			slog.Int("submodules", len(roots[d.Name].Submodules)))
	}
	return roots
}

// expand scans a definition's body for instantiations of known module
// types and expands each one recursively. path holds the module names on
// the active expansion chain, including d itself.
func (r *Resolver) expand(d *def.Definition, path []string) []*hier.InstanceNode {
	body := []byte(d.Body)
	s := scan.New(body, r.L)
	nodes := make([]*hier.InstanceNode, 0)

	for {
		ident, start, ok := s.NextIdent()
		if !ok {
			break
		}
		target, known := r.table[ident]
		if !known {
			continue
		}

		inst, conns, ok := r.site(s)
		if !ok {
			// Not an instantiation; rescan from just past the identifier.
			s.SetPos(start + len(ident))
			continue
		}

		// Lines inside the body are offset by where the body starts in
		// its file.
		line := d.BodyLine + scan.LineAt(body, start) - 1
		node := &hier.InstanceNode{
			InstanceName: inst,
			ModuleName:   ident,
			Ports:        hier.NormalizePorts(conns),
			Submodules:   make([]*hier.InstanceNode, 0),
			Location:     hier.Location{File: d.File, Line: line},
		}

		if onPath(path, ident) {
			r.diags = append(r.diags, hier.Diagnostic{
				Severity: hier.SeverityInfo,
				Code:     hier.DiagRecursiveInstantiation,
				Message: fmt.Sprintf("instantiation of %q truncated: already expanding via %v",
					ident, path),
				File: d.File,
				Line: line,
			})
		} else {
			node.Submodules = r.expand(target, append(path, ident))
		}

		if r.TraceEnabled() {
			r.Trace("instantiation site",
				slog.String("type", ident),
				slog.String("instance", inst),
				slog.Int("line", line))
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// site parses the remainder of an instantiation after its type name:
//
//	[ #( <params> ) ] <instance> ( <connections> ) ;
//
// Returns false without a stable position when the text is not an
// instantiation; the caller repositions the scanner.
func (r *Resolver) site(s *scan.Scanner) (instance, conns string, ok bool) {
	s.SkipWhitespace()
	if s.Accept('#') {
		s.SkipWhitespace()
		if _, ok := s.Balanced('(', ')'); !ok {
			return "", "", false
		}
		s.SkipWhitespace()
	}

	instance, ok = s.ScanIdent()
	if !ok {
		return "", "", false
	}

	s.SkipWhitespace()
	conns, ok = s.Balanced('(', ')')
	if !ok {
		return "", "", false
	}

	s.SkipWhitespace()
	if !s.Accept(';') {
		return "", "", false
	}
	return instance, conns, true
}

func onPath(path []string, name string) bool {
	for _, p := range path {
		if p == name {
			return true
		}
	}
	return false
}
