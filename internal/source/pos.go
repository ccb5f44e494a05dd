package source

import "fmt"

// Pos is a single location in a source buffer.
// Offset is authoritative; Line and Col are derived from it under the
// line-feed convention and are kept in sync by whoever builds the value.
type Pos struct {
	Offset int // 0-based, counted in characters (runes)
	Line   int // 1-based
	Col    int // 1-based
}

// NewPos builds a Pos from raw parts. No validation is done here,
// only a Reader knows its bounds.
func NewPos(offset, line, col int) Pos {
	return Pos{Offset: offset, Line: line, Col: col}
}

// StartPos is the position of the first character of any buffer.
func StartPos() Pos {
	return Pos{Offset: 0, Line: 1, Col: 1}
}

// Advance returns the position that follows ch.
func (p Pos) Advance(ch rune) Pos {
	if ch == '\n' {
		return Pos{Offset: p.Offset + 1, Line: p.Line + 1, Col: 1}
	}
	return Pos{Offset: p.Offset + 1, Line: p.Line, Col: p.Col + 1}
}

// Compare orders positions by offset.
func (p Pos) Compare(other Pos) int {
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly before other.
func (p Pos) Before(other Pos) bool {
	return p.Offset < other.Offset
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
