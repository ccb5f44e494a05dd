package source

import (
	"fmt"
)

// Range is the half-open span [Start.Offset, Start.Offset+Len).
// A zero-length Range is an insertion point.
type Range struct {
	Start Pos
	Len   int
}

func NewRange(start Pos, length int) Range {
	return Range{Start: start, Len: length}
}

// End returns the exclusive end offset.
func (r Range) End() int {
	return r.Start.Offset + r.Len
}

func (r Range) Empty() bool {
	return r.Len == 0
}

// Valid reports whether the length is non-negative. Bounds against a
// concrete buffer are checked by the Reader.
func (r Range) Valid() bool {
	return r.Len >= 0
}

// Adjacent reports whether one range ends exactly where the other starts.
func (r Range) Adjacent(other Range) bool {
	return r.End() == other.Start.Offset || other.End() == r.Start.Offset
}

// Contains reports whether off falls inside the range.
func (r Range) Contains(off int) bool {
	return off >= r.Start.Offset && off < r.End()
}

// Cover returns the smallest range spanning both r and other.
func (r Range) Cover(other Range) Range {
	start := r.Start
	if other.Start.Offset < start.Offset {
		start = other.Start
	}
	end := max(r.End(), other.End())
	return Range{Start: start, Len: end - start.Offset}
}

func (r Range) String() string {
	return fmt.Sprintf("%s+%d[%d-%d)", r.Start, r.Len, r.Start.Offset, r.End())
}
