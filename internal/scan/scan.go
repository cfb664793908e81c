// Package scan provides byte-level scanning primitives for HDL source text.
//
// The scanner operates on comment-stripped source (see StripComments) and
// offers boundary-aware identifier matching and bracket-depth balanced
// extraction. It deliberately knows nothing about module grammar; the def
// and resolve packages build on these primitives.
package scan

import (
	"bytes"
	"log/slog"

	"github.com/golanghdl/vhier/internal/types"
)

type commentState int

const (
	stateCode commentState = iota
	stateLineComment
	stateBlockComment
	stateString
)

// StripComments returns a copy of src with // line comments and /* ... */
// block comments blanked out. Every comment byte is replaced with a space
// except newlines, which are kept, so byte offsets and line boundaries in
// the result are identical to src. Comment markers inside double-quoted
// string literals are left alone.
func StripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	state := stateCode
	for i := 0; i < len(src); i++ {
		b := src[i]
		switch state {
		case stateCode:
			switch {
			case b == '"':
				state = stateString
			case b == '/' && i+1 < len(src) && src[i+1] == '/':
				state = stateLineComment
				out[i] = ' '
			case b == '/' && i+1 < len(src) && src[i+1] == '*':
				state = stateBlockComment
				out[i] = ' '
			}
		case stateString:
			if b == '\\' && i+1 < len(src) {
				i++
			} else if b == '"' || b == '\n' {
				state = stateCode
			}
		case stateLineComment:
			if b == '\n' {
				state = stateCode
			} else {
				out[i] = ' '
			}
		case stateBlockComment:
			if b == '*' && i+1 < len(src) && src[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = stateCode
			} else if b != '\n' {
				out[i] = ' '
			}
		}
	}
	return out
}

// LineAt returns the 1-based line number of the byte at offset off.
func LineAt(src []byte, off int) int {
	if off > len(src) {
		off = len(src)
	}
	return bytes.Count(src[:off], []byte{'\n'}) + 1
}

// IsIdentStart reports whether b can start an HDL identifier.
func IsIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsIdentByte reports whether b can appear inside an HDL identifier.
// Verilog identifiers additionally allow digits and '$'.
func IsIdentByte(b byte) bool {
	return IsIdentStart(b) || b == '$' || (b >= '0' && b <= '9')
}

// Scanner walks HDL source text with byte-level lookahead.
// The zero position is the start of the source.
type Scanner struct {
	src []byte
	pos int
	types.Logger
}

// New returns a Scanner over the given source bytes.
// Pass nil for logger to disable logging.
func New(src []byte, logger *slog.Logger) *Scanner {
	s := &Scanner{
		src:    src,
		Logger: types.Logger{L: logger},
	}
	s.Log(slog.LevelDebug, "scanner initialized", slog.Int("bytes", len(src)))
	return s
}

// Source returns the underlying source bytes.
func (s *Scanner) Source() []byte { return s.src }

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// SetPos repositions the scanner to the given byte offset.
func (s *Scanner) SetPos(pos int) { s.pos = pos }

// EOF reports whether all input has been consumed.
func (s *Scanner) EOF() bool { return s.pos >= len(s.src) }

// Peek returns the current byte without consuming it.
func (s *Scanner) Peek() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

// Advance consumes and returns the current byte.
func (s *Scanner) Advance() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	b := s.src[s.pos]
	s.pos++
	return b, true
}

// SkipWhitespace consumes spaces, tabs, carriage returns and newlines.
func (s *Scanner) SkipWhitespace() {
	for {
		b, ok := s.Peek()
		if !ok {
			return
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			s.pos++
		} else {
			return
		}
	}
}

// Accept consumes the current byte if it equals b.
func (s *Scanner) Accept(b byte) bool {
	if cur, ok := s.Peek(); ok && cur == b {
		s.pos++
		return true
	}
	return false
}

// ScanIdent consumes and returns the identifier at the current position.
// Returns false if the current byte cannot start an identifier.
func (s *Scanner) ScanIdent() (string, bool) {
	b, ok := s.Peek()
	if !ok || !IsIdentStart(b) {
		return "", false
	}
	start := s.pos
	for {
		b, ok := s.Peek()
		if !ok || !IsIdentByte(b) {
			break
		}
		s.pos++
	}
	return string(s.src[start:s.pos]), true
}

// NextIdent scans forward from the current position to the next identifier,
// consuming it. Returns the identifier and its starting offset, or false
// when no identifier remains. Bytes between identifiers are skipped, so a
// match always begins at an identifier boundary; sized and based literals
// such as "8'hff" are swallowed whole.
func (s *Scanner) NextIdent() (string, int, bool) {
	for !s.EOF() {
		b, _ := s.Peek()
		switch {
		case IsIdentStart(b):
			start := s.pos
			ident, _ := s.ScanIdent()
			return ident, start, true
		case IsIdentByte(b):
			// Digit or '$': swallow the whole identifier-like run so that
			// e.g. "$display" never yields a partial match.
			s.skipIdentRun()
		case b == '\'':
			// Tick of a based literal ("8'hff", "'b0"): the base character
			// and value run after it must not be read as an identifier.
			s.Advance()
			s.skipIdentRun()
		default:
			s.Advance()
		}
	}
	return "", 0, false
}

func (s *Scanner) skipIdentRun() {
	for {
		b, ok := s.Peek()
		if !ok || !IsIdentByte(b) {
			return
		}
		s.pos++
	}
}

// FindWord returns the offset of the next whole-word occurrence of word at
// or after the current position, without moving the scanner. Occurrences
// embedded in longer identifiers do not match.
func (s *Scanner) FindWord(word string) (int, bool) {
	w := []byte(word)
	from := s.pos
	for {
		idx := bytes.Index(s.src[from:], w)
		if idx < 0 {
			return 0, false
		}
		start := from + idx
		end := start + len(w)
		beforeOK := start == 0 || !IsIdentByte(s.src[start-1])
		afterOK := end >= len(s.src) || !IsIdentByte(s.src[end])
		if beforeOK && afterOK {
			return start, true
		}
		from = start + 1
	}
}

// Balanced consumes a bracket-delimited block starting at the current
// position, which must hold the open byte. It returns the text strictly
// between the open bracket and its matching close, tracking nesting depth
// so inner pairs of the same kind (e.g. width expressions such as
// "(A+B)") do not terminate the block early. Returns false if the current
// byte is not open or the block never closes; the position is unchanged
// on failure.
func (s *Scanner) Balanced(open, close byte) (string, bool) {
	b, ok := s.Peek()
	if !ok || b != open {
		return "", false
	}
	start := s.pos
	depth := 0
	for i := s.pos; i < len(s.src); i++ {
		switch s.src[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				s.pos = i + 1
				return string(s.src[start+1 : i]), true
			}
		}
	}
	if s.TraceEnabled() {
		s.Trace("unbalanced bracket", slog.Int("offset", start))
	}
	return "", false
}
