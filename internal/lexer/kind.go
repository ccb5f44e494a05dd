package lexer

import "wl/internal/token"

// Kinds produced by Basic.
const (
	// Invalid marks malformed input; a diagnostic is reported for it.
	Invalid token.Kind = iota
	// EOF is returned by Lexer.Next once input is exhausted. Basic never emits it.
	EOF

	Space        // run of ' ', '\t', '\r', '\v', '\f'
	Newline      // run of '\n'
	LineComment  // //...
	DocComment   // ///...
	BlockComment // /* ... */, nests

	Ident
	Keyword
	IntLit
	FloatLit
	StringLit

	Plus             // +
	PlusAssign       // +=
	Minus            // -
	MinusAssign      // -=
	Arrow            // ->
	Star             // *
	StarAssign       // *=
	Slash            // /
	SlashAssign      // /=
	Percent          // %
	PercentAssign    // %=
	Assign           // =
	EqEq             // ==
	FatArrow         // =>
	Bang             // !
	BangEq           // !=
	Lt               // <
	LtEq             // <=
	Shl              // <<
	ShlAssign        // <<=
	Gt               // >
	GtEq             // >=
	Shr              // >>
	ShrAssign        // >>=
	Amp              // &
	AndAnd           // &&
	AmpAssign        // &=
	Pipe             // |
	OrOr             // ||
	PipeAssign       // |=
	Caret            // ^
	CaretAssign      // ^=
	Question         // ?
	QuestionQuestion // ??
	Colon            // :
	ColonColon       // ::
	ColonAssign      // :=
	Semicolon        // ;
	Comma            // ,
	Dot              // .
	DotDot           // ..
	DotDotDot        // ...
	DotDotEq         // ..=
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]
	At               // @

	kindCount
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Space:        "Space",
	Newline:      "Newline",
	LineComment:  "LineComment",
	DocComment:   "DocComment",
	BlockComment: "BlockComment",
	Ident:        "Ident",
	Keyword:      "Keyword",
	IntLit:       "IntLit",
	FloatLit:     "FloatLit",
	StringLit:    "StringLit",

	Plus: "Plus", PlusAssign: "PlusAssign", Minus: "Minus", MinusAssign: "MinusAssign",
	Arrow: "Arrow", Star: "Star", StarAssign: "StarAssign", Slash: "Slash",
	SlashAssign: "SlashAssign", Percent: "Percent", PercentAssign: "PercentAssign",
	Assign: "Assign", EqEq: "EqEq", FatArrow: "FatArrow", Bang: "Bang", BangEq: "BangEq",
	Lt: "Lt", LtEq: "LtEq", Shl: "Shl", ShlAssign: "ShlAssign", Gt: "Gt", GtEq: "GtEq",
	Shr: "Shr", ShrAssign: "ShrAssign", Amp: "Amp", AndAnd: "AndAnd", AmpAssign: "AmpAssign",
	Pipe: "Pipe", OrOr: "OrOr", PipeAssign: "PipeAssign", Caret: "Caret",
	CaretAssign: "CaretAssign", Question: "Question", QuestionQuestion: "QuestionQuestion",
	Colon: "Colon", ColonColon: "ColonColon", ColonAssign: "ColonAssign",
	Semicolon: "Semicolon", Comma: "Comma", Dot: "Dot", DotDot: "DotDot",
	DotDotDot: "DotDotDot", DotDotEq: "DotDotEq", LParen: "LParen", RParen: "RParen",
	LBrace: "LBrace", RBrace: "RBrace", LBracket: "LBracket", RBracket: "RBracket", At: "At",
}

// KindName names a kind produced by this package.
func KindName(k token.Kind) string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return k.String()
}

// ParseKind is the inverse of KindName.
func ParseKind(name string) (token.Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return token.Kind(k), true
		}
	}
	return token.Unknown, false
}

// IsTrivia reports whether k carries no meaning for a parser.
func IsTrivia(k token.Kind) bool {
	switch k {
	case Space, Newline, LineComment, DocComment, BlockComment:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether k is a numeric or string literal.
func IsLiteral(k token.Kind) bool {
	switch k {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsOperator reports whether k is a punctuation or operator kind.
func IsOperator(k token.Kind) bool {
	return k >= Plus && k <= At
}

// operators maps every operator spelling to its kind. Every proper prefix of
// an operator is itself an operator, which lets Basic match greedily while
// looking at one character at a time.
var operators = map[string]token.Kind{
	"+": Plus, "+=": PlusAssign,
	"-": Minus, "-=": MinusAssign, "->": Arrow,
	"*": Star, "*=": StarAssign,
	"/": Slash, "/=": SlashAssign,
	"%": Percent, "%=": PercentAssign,
	"=": Assign, "==": EqEq, "=>": FatArrow,
	"!": Bang, "!=": BangEq,
	"<": Lt, "<=": LtEq, "<<": Shl, "<<=": ShlAssign,
	">": Gt, ">=": GtEq, ">>": Shr, ">>=": ShrAssign,
	"&": Amp, "&&": AndAnd, "&=": AmpAssign,
	"|": Pipe, "||": OrOr, "|=": PipeAssign,
	"^": Caret, "^=": CaretAssign,
	"?": Question, "??": QuestionQuestion,
	":": Colon, "::": ColonColon, ":=": ColonAssign,
	";": Semicolon, ",": Comma,
	".": Dot, "..": DotDot, "...": DotDotDot, "..=": DotDotEq,
	"(": LParen, ")": RParen, "{": LBrace, "}": RBrace, "[": LBracket, "]": RBracket,
	"@": At,
}

// DefaultKeywords is the keyword set used when Options.Keywords is nil.
// Keywords are case-sensitive.
var DefaultKeywords = []string{
	"fn", "let", "const", "mut", "if", "else", "while", "for", "in",
	"break", "continue", "return", "import", "as", "type", "pub",
	"true", "false", "nothing",
}
