package lexer

import (
	"wl/internal/source"
)

// Cursor walks a Reader one character at a time and keeps the position
// (offset, line, column) of the next character up to date.
type Cursor struct {
	Reader source.Reader
	Pos    source.Pos
	// Limit is the exclusive upper bound for Pos.Offset; defaults to Reader.Len().
	Limit int
}

// NewCursor creates a cursor at the start of r.
func NewCursor(r source.Reader) Cursor {
	return Cursor{
		Reader: r,
		Pos:    source.StartPos(),
		Limit:  r.Len(),
	}
}

// EOF reports whether every character has been consumed.
func (c *Cursor) EOF() bool {
	return c.Pos.Offset >= c.Limit
}

// Peek returns the current character, or 0 at EOF.
func (c *Cursor) Peek() rune {
	if c.EOF() {
		return 0
	}
	ch, err := c.Reader.CharAt(c.Pos)
	if err != nil {
		return 0
	}
	return ch
}

// Bump consumes the current character and returns it with its position.
func (c *Cursor) Bump() (source.Pos, rune, error) {
	pos := c.Pos
	ch, err := c.Reader.CharAt(pos)
	if err != nil {
		return pos, 0, err
	}
	c.Pos = pos.Advance(ch)
	return pos, ch, nil
}

// Mark is a saved cursor position.
type Mark source.Pos

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Pos)
}

// RangeFrom returns the range consumed since m.
func (c *Cursor) RangeFrom(m Mark) source.Range {
	return source.NewRange(source.Pos(m), c.Pos.Offset-m.Offset)
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) {
	c.Pos = source.Pos(m)
}
