package hier

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError marks input that was discarded (malformed module).
	SeverityError Severity = iota
	// SeverityWarning marks input that was degraded but usable
	// (missing file, duplicate definition).
	SeverityWarning
	// SeverityInfo marks notable but harmless conditions.
	SeverityInfo
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic codes emitted during loading.
const (
	// DiagFileMissing: a manifest source file does not exist or is unreadable.
	DiagFileMissing = "file-missing"
	// DiagDuplicateModule: a module name is defined in more than one place;
	// the first definition wins.
	DiagDuplicateModule = "duplicate-module"
	// DiagModuleMalformed: a module construct had no matching endmodule or
	// unbalanced parameter/port brackets and was omitted.
	DiagModuleMalformed = "module-malformed"
	// DiagRecursiveInstantiation: expansion of a module was truncated because
	// it was already being expanded on the active path.
	DiagRecursiveInstantiation = "recursive-instantiation"
)

// Diagnostic represents an issue found while scanning or resolving.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g., "file-missing", "duplicate-module"
	Message  string
	File     string // source file path, "" if not applicable
	Line     int    // 1-based line number, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] file:line: message" with location parts omitted when zero.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteByte(']')
	b.WriteByte(' ')
	if d.File != "" {
		b.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}
