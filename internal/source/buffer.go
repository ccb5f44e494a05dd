package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Buffer is the frozen, character-addressed text of one source.
// It is never mutated after construction, so it can be shared by any
// number of readers and tokenizers, including across goroutines.
type Buffer struct {
	text    []rune
	lineIdx []uint32 // offsets of '\n'
}

// NewBuffer decodes content as UTF-8 and indexes its lines.
// Invalid sequences decode to U+FFFD.
func NewBuffer(content []byte) (*Buffer, error) {
	text := []rune(string(content))
	if _, err := safecast.Conv[uint32](len(text)); err != nil {
		return nil, fmt.Errorf("source too large: %w", err)
	}
	lineIdx, err := buildLineIndex(text)
	if err != nil {
		return nil, err
	}
	return &Buffer{text: text, lineIdx: lineIdx}, nil
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return len(b.text)
}

// String returns the whole text.
func (b *Buffer) String() string {
	return string(b.text)
}

func (b *Buffer) charAt(path string, off int) (rune, error) {
	if off < 0 || off >= len(b.text) {
		return 0, &BoundsError{Path: path, Offset: off, Len: -1, Limit: len(b.text)}
	}
	return b.text[off], nil
}

func (b *Buffer) pieceAt(path string, r Range) (string, error) {
	start := r.Start.Offset
	if start < 0 || r.Len < 0 || start > len(b.text) || r.Len > len(b.text)-start {
		return "", &BoundsError{Path: path, Offset: start, Len: r.Len, Limit: len(b.text)}
	}
	if r.Len == 0 {
		return "", nil
	}
	return string(b.text[start : start+r.Len]), nil
}

// PosAt derives the full position of off. The end-of-buffer boundary
// (off == Len) is a valid position.
func (b *Buffer) PosAt(off int) (Pos, error) {
	if off < 0 || off > len(b.text) {
		return Pos{}, &BoundsError{Offset: off, Len: -1, Limit: len(b.text)}
	}
	// Len fits uint32, checked in NewBuffer
	lc := toLineCol(b.lineIdx, uint32(off))
	return Pos{Offset: off, Line: lc.Line, Col: lc.Col}, nil
}

// LineCount returns the number of lines; an empty buffer has one.
func (b *Buffer) LineCount() int {
	return len(b.lineIdx) + 1
}

// Line returns line n (1-based) without its terminating newline.
// An out-of-range n yields "".
func (b *Buffer) Line(n int) string {
	if n < 1 || n > b.LineCount() {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(b.lineIdx[n-2]) + 1
	}
	end := len(b.text)
	if n-1 < len(b.lineIdx) {
		end = int(b.lineIdx[n-1])
	}
	return string(b.text[start:end])
}
