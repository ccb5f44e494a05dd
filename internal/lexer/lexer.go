package lexer

import (
	"wl/internal/source"
	"wl/internal/token"
)

// Lexer pulls tokens from a Reader on demand using Basic.
// Trivia (spaces, newlines, comments) are skipped unless KeepTrivia is set.
type Lexer struct {
	cursor     Cursor
	tz         *Basic
	look       *Item // one-item lookahead
	done       bool
	err        error
	KeepTrivia bool
}

func New(r source.Reader, opts Options) *Lexer {
	return &Lexer{
		cursor: NewCursor(r),
		tz:     NewBasic(opts),
	}
}

// Next returns the next significant token. Once input is exhausted it
// keeps returning EOF with an empty range at the end of the buffer.
func (lx *Lexer) Next() Item {
	if lx.look != nil {
		it := *lx.look
		lx.look = nil
		return it
	}
	for {
		it, ok := lx.pull()
		if !ok {
			return lx.eof()
		}
		if lx.KeepTrivia || !IsTrivia(it.Token.Kind) {
			return it
		}
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() Item {
	it := lx.Next()
	lx.look = &it
	return it
}

// Err returns the reader error that ended tokenizing early, if any.
func (lx *Lexer) Err() error {
	return lx.err
}

func (lx *Lexer) pull() (Item, bool) {
	for !lx.done && !lx.cursor.EOF() {
		pos, ch, err := lx.cursor.Bump()
		if err != nil {
			lx.err = err
			lx.done = true
			break
		}
		if tok, rng, ok := lx.tz.Feed(pos, ch); ok {
			return Item{Token: tok, Range: rng}, true
		}
	}
	if lx.done {
		return Item{}, false
	}
	lx.done = true
	if tok, rng, ok := lx.tz.Finish(); ok {
		return Item{Token: tok, Range: rng}, true
	}
	return Item{}, false
}

func (lx *Lexer) eof() Item {
	return Item{
		Token: token.Token{Kind: EOF},
		Range: source.NewRange(lx.cursor.Pos, 0),
	}
}
