package hier

import (
	"strings"

	"github.com/golanghdl/vhier/internal/scan"
)

// NormalizePorts converts raw port or parameter list text into an ordered
// list of trimmed, comment-free fragments. The text is split on commas,
// fragments are trimmed of surrounding whitespace, and empty fragments are
// dropped. The result is never nil and the operation is idempotent.
//
// Comma splitting is flat: a bracketed sub-expression passed as a single
// connection (e.g. the concatenation "{a,b}") is split on its internal
// comma as well. Known limitation inherited from the output contract.
func NormalizePorts(raw string) []string {
	// Defensive: instantiation connection text is extracted from stripped
	// source, but declared port text may be handed in raw.
	clean := string(scan.StripComments([]byte(raw)))

	ports := make([]string, 0, strings.Count(clean, ",")+1)
	for _, frag := range strings.Split(clean, ",") {
		frag = strings.TrimSpace(frag)
		if frag != "" {
			ports = append(ports, frag)
		}
	}
	return ports
}
