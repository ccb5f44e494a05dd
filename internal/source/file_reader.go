package source

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"os"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is the cause of an *IOError when strict decoding is on.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Option tweaks how a reader loads its text. Without options the text is
// kept byte for byte.
type Option func(*openConfig)

type openConfig struct {
	nfc      bool
	strict   bool
	newlines bool
}

// WithNormalizeNewlines drops a leading UTF-8 BOM and turns every CRLF
// into LF. A lone CR is kept.
func WithNormalizeNewlines(on bool) Option {
	return func(c *openConfig) { c.newlines = on }
}

// WithNFC normalizes the text to Unicode NFC before indexing.
func WithNFC(on bool) Option {
	return func(c *openConfig) { c.nfc = on }
}

// WithStrictUTF8 makes Open fail on invalid UTF-8 instead of decoding
// bad bytes as U+FFFD.
func WithStrictUTF8(on bool) Option {
	return func(c *openConfig) { c.strict = on }
}

// FileReader is a Reader over a file that was read into memory once.
type FileReader struct {
	path  string
	buf   *Buffer
	hash  [32]byte
	flags FileFlags
}

// Open reads the whole file at path. The file is closed before Open
// returns; every later lookup works on the in-memory copy.
func Open(path string, opts ...Option) (*FileReader, error) {
	cfg := newOpenConfig(opts)

	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if cfg.strict && !utf8.Valid(content) {
		return nil, &IOError{Path: path, Err: ErrInvalidUTF8}
	}

	content, flags := normalizeContent(content, cfg)
	buf, err := NewBuffer(content)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return &FileReader{
		path:  normalizePath(path),
		buf:   buf,
		hash:  sha256.Sum256(content),
		flags: flags,
	}, nil
}

func newOpenConfig(opts []Option) openConfig {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func normalizeContent(content []byte, cfg openConfig) ([]byte, FileFlags) {
	flags := FileFlags(0)
	if cfg.newlines {
		var hadBOM, hadCRLF bool
		content, hadBOM = removeBOM(content)
		content, hadCRLF = normalizeCRLF(content)
		if hadBOM {
			flags |= FileHadBOM
		}
		if hadCRLF {
			flags |= FileNormalizedCRLF
		}
	}
	if cfg.nfc && !norm.NFC.IsNormal(content) {
		normalized := norm.NFC.Bytes(content)
		if !bytes.Equal(normalized, content) {
			content = normalized
			flags |= FileNormalizedNFC
		}
	}
	return content, flags
}

func (f *FileReader) Path() string { return f.path }

func (f *FileReader) Len() int { return f.buf.Len() }

func (f *FileReader) CharAt(pos Pos) (rune, error) {
	return f.buf.charAt(f.path, pos.Offset)
}

func (f *FileReader) PieceAt(r Range) (string, error) {
	return f.buf.pieceAt(f.path, r)
}

// Buffer exposes the shared immutable text.
func (f *FileReader) Buffer() *Buffer { return f.buf }

// Hash is the SHA-256 of the normalized content.
func (f *FileReader) Hash() [32]byte { return f.hash }

func (f *FileReader) Flags() FileFlags { return f.flags }
