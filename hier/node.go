// Package hier provides the module hierarchy model produced by vhier.
//
// The model is built once during loading and is read-only afterwards. Its
// JSON form is wire-compatible with the original project viewer: every node
// serializes its location as a two-element ["file", line] array under the
// "path" key, and a Hierarchy serializes as a name-keyed object of root
// nodes.
package hier

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Location is a position in an HDL source file.
type Location struct {
	File string
	Line int // 1-based
}

// String returns "file:line".
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// MarshalJSON encodes the location as ["file", line].
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.File, l.Line})
}

// UnmarshalJSON decodes a ["file", line] array.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("location: expected [file, line], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.File); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &l.Line)
}

// InstanceNode is one node of the module hierarchy tree.
//
// For hierarchy roots, InstanceName equals ModuleName and Ports holds the
// module's declared ports. For instantiation sites, InstanceName is the
// instance identifier and Ports holds the connection expressions bound at
// that site.
type InstanceNode struct {
	InstanceName string          `json:"instance_name"`
	ModuleName   string          `json:"module_name"`
	Ports        []string        `json:"ports"`
	Submodules   []*InstanceNode `json:"submodules"`
	Location     Location        `json:"path"`
}

// Walk visits the node and its submodules depth-first, passing the depth
// (0 for the receiver). It stops early when fn returns false.
func (n *InstanceNode) Walk(fn func(node *InstanceNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *InstanceNode) walk(fn func(*InstanceNode, int) bool, depth int) bool {
	if !fn(n, depth) {
		return false
	}
	for _, sub := range n.Submodules {
		if !sub.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// InstanceCount returns the number of nodes in the subtree, including the
// receiver.
func (n *InstanceNode) InstanceCount() int {
	count := 0
	n.Walk(func(*InstanceNode, int) bool {
		count++
		return true
	})
	return count
}

// Hierarchy is the loaded module hierarchy: one root node per module
// definition, keyed by module name. Every defined module is surfaced as a
// root, including modules only ever used as submodules; callers select
// "top" modules themselves.
type Hierarchy struct {
	roots map[string]*InstanceNode
	names []string // sorted
	diags []Diagnostic
}

// NewHierarchy builds a Hierarchy from resolved roots and diagnostics.
func NewHierarchy(roots map[string]*InstanceNode, diags []Diagnostic) *Hierarchy {
	if roots == nil {
		roots = map[string]*InstanceNode{}
	}
	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	slices.Sort(names)
	return &Hierarchy{roots: roots, names: names, diags: diags}
}

// Root returns the root node for the named module, or nil.
func (h *Hierarchy) Root(name string) *InstanceNode {
	return h.roots[name]
}

// Roots returns all root nodes in module-name order.
func (h *Hierarchy) Roots() []*InstanceNode {
	roots := make([]*InstanceNode, len(h.names))
	for i, name := range h.names {
		roots[i] = h.roots[name]
	}
	return roots
}

// ModuleNames returns the sorted names of all defined modules.
func (h *Hierarchy) ModuleNames() []string {
	return slices.Clone(h.names)
}

// ModuleCount returns the number of module definitions.
func (h *Hierarchy) ModuleCount() int {
	return len(h.names)
}

// Diagnostics returns all diagnostics collected during loading.
func (h *Hierarchy) Diagnostics() []Diagnostic {
	return slices.Clone(h.diags)
}

// HasErrors reports whether any error-level diagnostics were collected.
func (h *Hierarchy) HasErrors() bool {
	for _, d := range h.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the hierarchy as a name-keyed object of root nodes.
func (h *Hierarchy) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.roots)
}
