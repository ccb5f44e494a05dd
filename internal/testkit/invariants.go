// Package testkit holds checks shared by tests that drive a tokenizer over
// a reader.
package testkit

import (
	"fmt"

	"wl/internal/lexer"
	"wl/internal/source"
)

// CheckTiling verifies the emitted items against r:
//  1. every range is non-empty and starts where the previous one ended
//  2. the ranges together cover [0, r.Len())
//  3. each start position carries the line and column of its offset
//  4. every tag except Invalid ones equals the text under its range
func CheckTiling(r source.Reader, items []lexer.Item) error {
	if r == nil {
		return fmt.Errorf("nil reader")
	}
	pos := source.StartPos()
	for i, it := range items {
		if it.Range.Len <= 0 {
			return fmt.Errorf("item %d (%s) has empty range %v", i, lexer.KindName(it.Token.Kind), it.Range)
		}
		if it.Range.Start != pos {
			return fmt.Errorf("item %d (%s) starts at %v, want %v", i, lexer.KindName(it.Token.Kind), it.Range.Start, pos)
		}
		piece, err := r.PieceAt(it.Range)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if it.Token.Kind != lexer.Invalid && piece != it.Token.Tag {
			return fmt.Errorf("item %d: tag %q does not match source %q", i, it.Token.Tag, piece)
		}
		for _, ch := range piece {
			pos = pos.Advance(ch)
		}
	}
	if pos.Offset != r.Len() {
		return fmt.Errorf("items cover [0,%d), source has %d characters", pos.Offset, r.Len())
	}
	return nil
}
