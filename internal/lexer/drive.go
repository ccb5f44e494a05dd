package lexer

import (
	"errors"
	"iter"

	"wl/internal/source"
	"wl/internal/token"
)

// EmitFunc receives every token in emission order.
type EmitFunc func(tok token.Token, rng source.Range) error

// Drive feeds every character of r to tz in offset order, computing line
// and column on the way, and hands each emission to emit. After the last
// character it calls tz.Finish when tz is a token.Finisher.
//
// Drive stops at the first error returned by emit or by the reader.
func Drive(r source.Reader, tz token.Tokenizer, emit EmitFunc) error {
	cur := NewCursor(r)
	for !cur.EOF() {
		pos, ch, err := cur.Bump()
		if err != nil {
			return err
		}
		if tok, rng, ok := tz.Feed(pos, ch); ok {
			if err := emit(tok, rng); err != nil {
				return err
			}
		}
	}
	if f, ok := tz.(token.Finisher); ok {
		if tok, rng, ok := f.Finish(); ok {
			return emit(tok, rng)
		}
	}
	return nil
}

var errStop = errors.New("stop")

// Tokens is a lazy, single-pass view of Drive. Iteration ends early when
// the consumer stops. A reader error also ends it; callers that need to
// tell the two apart use TokensErr, Drive or Collect.
func Tokens(r source.Reader, tz token.Tokenizer) iter.Seq2[token.Token, source.Range] {
	seq, _ := TokensErr(r, tz)
	return seq
}

// TokensErr is Tokens with an accessor for the error that ended the last
// iteration. A consumer that stops early does not count as an error.
func TokensErr(r source.Reader, tz token.Tokenizer) (iter.Seq2[token.Token, source.Range], func() error) {
	var err error
	seq := func(yield func(token.Token, source.Range) bool) {
		err = Drive(r, tz, func(tok token.Token, rng source.Range) error {
			if !yield(tok, rng) {
				return errStop
			}
			return nil
		})
		if errors.Is(err, errStop) {
			err = nil
		}
	}
	return seq, func() error { return err }
}

// Item is a token together with the range it spans.
type Item struct {
	Token token.Token
	Range source.Range
}

// Collect drives tz over r and returns every emission.
func Collect(r source.Reader, tz token.Tokenizer) ([]Item, error) {
	var items []Item
	err := Drive(r, tz, func(tok token.Token, rng source.Range) error {
		items = append(items, Item{Token: tok, Range: rng})
		return nil
	})
	return items, err
}
