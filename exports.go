package vhier

import "github.com/golanghdl/vhier/hier"

// Type aliases for the public API - model types come from the hier subpackage.

// Hierarchy is the loaded module hierarchy.
type Hierarchy = hier.Hierarchy

// InstanceNode is a node in a module hierarchy tree.
type InstanceNode = hier.InstanceNode

// Location is a position in an HDL source file.
type Location = hier.Location

// Diagnostic represents a scanning or resolution issue.
type Diagnostic = hier.Diagnostic

// Severity classifies a diagnostic.
type Severity = hier.Severity

// Severity levels.
const (
	SeverityError   = hier.SeverityError
	SeverityWarning = hier.SeverityWarning
	SeverityInfo    = hier.SeverityInfo
)

// NormalizePorts converts raw port or parameter list text into an ordered
// list of trimmed, comment-free fragments.
func NormalizePorts(raw string) []string {
	return hier.NormalizePorts(raw)
}
