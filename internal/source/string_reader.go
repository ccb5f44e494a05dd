package source

import (
	"crypto/sha256"
	"fmt"
	"unicode/utf8"
)

// StringReader is a Reader over in-memory text (tests, stdin, generated code).
type StringReader struct {
	name  string
	buf   *Buffer
	hash  [32]byte
	flags FileFlags
}

// NewStringReader wraps text under the given logical name. The options
// are those of Open; without any the text is kept as given.
func NewStringReader(name, text string, opts ...Option) (*StringReader, error) {
	cfg := newOpenConfig(opts)
	content := []byte(text)
	if cfg.strict && !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
	}
	content, flags := normalizeContent(content, cfg)
	buf, err := NewBuffer(content)
	if err != nil {
		return nil, err
	}
	return &StringReader{name: name, buf: buf, hash: sha256.Sum256(content), flags: flags | FileVirtual}, nil
}

// MustStringReader is NewStringReader for text known to fit.
func MustStringReader(name, text string, opts ...Option) *StringReader {
	r, err := NewStringReader(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (s *StringReader) Path() string { return s.name }

func (s *StringReader) Len() int { return s.buf.Len() }

func (s *StringReader) CharAt(pos Pos) (rune, error) {
	return s.buf.charAt(s.name, pos.Offset)
}

func (s *StringReader) PieceAt(r Range) (string, error) {
	return s.buf.pieceAt(s.name, r)
}

func (s *StringReader) Buffer() *Buffer { return s.buf }

func (s *StringReader) Hash() [32]byte { return s.hash }

func (s *StringReader) Flags() FileFlags { return s.flags }
