package lexer

import (
	"fmt"

	"wl/internal/diag"
	"wl/internal/source"
	"wl/internal/token"
)

type state uint8

const (
	stNone state = iota
	stSpace
	stNewline
	stIdent
	stNumber
	stString
	stOperator
	stLineComment
	stBlockComment
	stUnknown
)

type numPhase uint8

const (
	numInt      numPhase = iota // 12_3
	numRadix                    // 0x1f, 0o17, 0b101
	numDot                      // 12.
	numFrac                     // 12.5
	numExpStart                 // 12e
	numExpSign                  // 12e-
	numExp                      // 12e-3
)

// Basic is the reference Tokenizer.
//
// A token is emitted on the first character that cannot extend it: the
// emitted range stops right before that character, and the character
// starts the next pending token. Whitespace, newlines and comments are
// emitted too, so the emitted ranges tile the input exactly.
//
// End of input: Finish emits whatever is pending. An unterminated string
// becomes Invalid, an unterminated block comment stays BlockComment; both
// are reported.
type Basic struct {
	opts     Options
	keywords map[string]token.Kind
	maxLen   int

	st       state
	start    source.Pos
	last     source.Pos // position of the newest pending character
	n        int
	text     []rune
	overflow bool

	num     numPhase
	radix   rune
	escaped bool
	closed  bool
	depth   int
	prev    rune
	doc     bool
}

// NewBasic returns a Basic tokenizer in its initial state.
func NewBasic(opts Options) *Basic {
	return &Basic{
		opts:     opts,
		keywords: opts.keywordSet(),
		maxLen:   opts.maxTokenLength(),
		text:     make([]rune, 0, 32),
	}
}

// Feed implements token.Tokenizer.
func (b *Basic) Feed(pos source.Pos, ch rune) (token.Token, source.Range, bool) {
	if b.st == stNone {
		b.begin(pos, ch)
		return token.Token{}, source.Range{}, false
	}
	if b.extend(pos, ch) {
		return token.Token{}, source.Range{}, false
	}
	if b.st == stNumber && b.num == numDot && ch == '.' {
		// "1..": the dot belongs to a range operator, not to the number
		tok, rng := b.splitBeforeDot(pos, ch)
		return tok, rng, true
	}
	tok, rng := b.emit(false)
	b.begin(pos, ch)
	return tok, rng, true
}

// Finish implements token.Finisher.
func (b *Basic) Finish() (token.Token, source.Range, bool) {
	if b.st == stNone {
		return token.Token{}, source.Range{}, false
	}
	tok, rng := b.emit(true)
	return tok, rng, true
}

// Reset implements token.Resetter.
func (b *Basic) Reset() {
	b.clear()
}

func (b *Basic) clear() {
	b.st = stNone
	b.start = source.Pos{}
	b.last = source.Pos{}
	b.n = 0
	b.text = b.text[:0]
	b.overflow = false
	b.num = numInt
	b.radix = 0
	b.escaped = false
	b.closed = false
	b.depth = 0
	b.prev = 0
	b.doc = false
}

func (b *Basic) push(pos source.Pos, ch rune) {
	b.n++
	b.last = pos
	if b.n > b.maxLen {
		b.overflow = true
		return
	}
	b.text = append(b.text, ch)
}

func (b *Basic) begin(pos source.Pos, ch rune) {
	b.clear()
	b.start = pos
	switch {
	case ch == '\n':
		b.st = stNewline
	case isSpace(ch):
		b.st = stSpace
	case isIdentStart(ch):
		b.st = stIdent
	case isDec(ch):
		b.st = stNumber
	case ch == '"':
		b.st = stString
	default:
		if _, ok := operators[string(ch)]; ok {
			b.st = stOperator
		} else {
			b.st = stUnknown
		}
	}
	b.push(pos, ch)
}

func (b *Basic) extend(pos source.Pos, ch rune) bool {
	switch b.st {
	case stSpace:
		if !isSpace(ch) {
			return false
		}
	case stNewline:
		if ch != '\n' {
			return false
		}
	case stIdent:
		if !isIdentContinue(ch) {
			return false
		}
	case stNumber:
		if !b.extendNumber(ch) {
			return false
		}
	case stString:
		if !b.extendString(ch) {
			return false
		}
	case stOperator:
		return b.extendOperator(pos, ch)
	case stLineComment:
		if ch == '\n' {
			return false
		}
		if b.n == 2 && ch == '/' {
			b.doc = true
		}
	case stBlockComment:
		if b.depth == 0 {
			return false
		}
		switch {
		case b.prev == '/' && ch == '*':
			b.depth++
			b.prev = 0
		case b.prev == '*' && ch == '/':
			b.depth--
			b.prev = 0
		default:
			b.prev = ch
		}
	default:
		return false
	}
	b.push(pos, ch)
	return true
}

func (b *Basic) extendNumber(ch rune) bool {
	switch b.num {
	case numInt:
		switch {
		case b.n == 1 && b.text[0] == '0' && (ch == 'x' || ch == 'X' || ch == 'o' || ch == 'O' || ch == 'b' || ch == 'B'):
			b.num = numRadix
			b.radix = ch | 0x20
		case isDec(ch) || ch == '_':
		case ch == '.':
			b.num = numDot
		case ch == 'e' || ch == 'E':
			b.num = numExpStart
		default:
			return false
		}
	case numRadix:
		switch b.radix {
		case 'x':
			return isHex(ch) || ch == '_'
		case 'o':
			return isOct(ch) || ch == '_'
		default:
			return isBin(ch) || ch == '_'
		}
	case numDot, numFrac:
		switch {
		case isDec(ch) || (b.num == numFrac && ch == '_'):
			b.num = numFrac
		case ch == 'e' || ch == 'E':
			b.num = numExpStart
		default:
			return false
		}
	case numExpStart:
		switch {
		case ch == '+' || ch == '-':
			b.num = numExpSign
		case isDec(ch):
			b.num = numExp
		default:
			return false
		}
	case numExpSign:
		if !isDec(ch) {
			return false
		}
		b.num = numExp
	case numExp:
		return isDec(ch) || ch == '_'
	}
	return true
}

func (b *Basic) extendString(ch rune) bool {
	if b.closed {
		return false
	}
	if b.escaped {
		b.escaped = false
		return true
	}
	switch ch {
	case '\\':
		b.escaped = true
	case '"':
		b.closed = true
	case '\n':
		return false
	}
	return true
}

func (b *Basic) extendOperator(pos source.Pos, ch rune) bool {
	pending := string(b.text)
	switch {
	case pending == "/" && ch == '/':
		b.st = stLineComment
	case pending == "/" && ch == '*':
		b.st = stBlockComment
		b.depth = 1
		b.prev = 0
	case pending == "." && isDec(ch):
		// ".5"
		b.st = stNumber
		b.num = numFrac
	default:
		if _, ok := operators[pending+string(ch)]; !ok {
			return false
		}
	}
	b.push(pos, ch)
	return true
}

// splitBeforeDot emits the integer part of a pending "N." and restarts
// with ".." made of the held dot and ch.
func (b *Basic) splitBeforeDot(pos source.Pos, ch rune) (token.Token, source.Range) {
	dotPos := b.last
	if b.n <= len(b.text) {
		b.text = b.text[:b.n-1]
	}
	b.n--
	b.overflow = b.n > b.maxLen
	b.num = numInt

	tok, rng := b.emit(false)
	b.begin(dotPos, '.')
	b.extend(pos, ch)
	return tok, rng
}

func (b *Basic) emit(atEOF bool) (token.Token, source.Range) {
	rng := source.NewRange(b.start, b.n)
	text := string(b.text)
	kind := Invalid

	switch b.st {
	case stSpace:
		kind = Space
	case stNewline:
		kind = Newline
	case stIdent:
		kind = Ident
		if k, ok := b.keywords[text]; ok {
			kind = k
		}
	case stNumber:
		kind = b.numberKind(rng)
	case stString:
		if b.closed {
			kind = StringLit
			break
		}
		msg := "newline in string literal"
		if atEOF {
			msg = "unterminated string literal"
		}
		b.reportWithNote(diag.LexUnterminatedString, rng, msg,
			source.NewRange(b.start, 1), "string starts here")
	case stOperator:
		kind = operators[text]
	case stLineComment:
		kind = LineComment
		if b.doc {
			kind = DocComment
		}
	case stBlockComment:
		kind = BlockComment
		if b.depth > 0 {
			b.report(diag.LexUnterminatedBlockComment, rng, "unterminated block comment")
		}
	case stUnknown:
		b.report(diag.LexUnknownChar, rng, fmt.Sprintf("unknown character %q", text))
	}

	if b.overflow {
		b.report(diag.LexTokenTooLong, rng, fmt.Sprintf("token exceeds %d characters", b.maxLen))
		kind = Invalid
		text = ""
	}

	b.clear()
	return token.Token{Kind: kind, Tag: text}, rng
}

func (b *Basic) numberKind(rng source.Range) token.Kind {
	switch b.num {
	case numInt:
		return IntLit
	case numRadix:
		if b.n == 2 {
			b.report(diag.LexBadNumber, rng, "expected digits after base prefix")
			return Invalid
		}
		return IntLit
	case numExpStart, numExpSign:
		b.report(diag.LexBadNumber, rng, "expected digit after exponent")
		return Invalid
	default:
		return FloatLit
	}
}

func (b *Basic) report(code diag.Code, rng source.Range, msg string) {
	if b.opts.Reporter != nil {
		diag.ReportError(b.opts.Reporter, code, rng, msg).Emit()
	}
}

func (b *Basic) reportWithNote(code diag.Code, rng source.Range, msg string, noteRng source.Range, note string) {
	if b.opts.Reporter != nil {
		diag.ReportError(b.opts.Reporter, code, rng, msg).WithNote(noteRng, note).Emit()
	}
}
