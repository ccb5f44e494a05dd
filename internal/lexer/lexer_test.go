package lexer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"wl/internal/diag"
	"wl/internal/lexer"
	"wl/internal/source"
	"wl/internal/testkit"
	"wl/internal/token"
)

// testReporter collects every diagnostic the tokenizer reports.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Range, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return out
}

// collectAll feeds input through a fresh Basic and returns every emission.
func collectAll(t *testing.T, input string) ([]lexer.Item, *testReporter) {
	t.Helper()
	r := source.MustStringReader("test.wl", input)
	reporter := &testReporter{}
	items, err := lexer.Collect(r, lexer.NewBasic(lexer.Options{Reporter: reporter}))
	if err != nil {
		t.Fatalf("Collect(%q): %v", input, err)
	}
	return items, reporter
}

func significant(items []lexer.Item) []lexer.Item {
	out := items[:0:0]
	for _, it := range items {
		if !lexer.IsTrivia(it.Token.Kind) {
			out = append(out, it)
		}
	}
	return out
}

func itemsToString(items []lexer.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%q)", lexer.KindName(it.Token.Kind), it.Token.Tag)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// expectTokens checks the significant token kinds produced for input.
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	all, reporter := collectAll(t, input)
	items := significant(all)

	if len(items) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(items), input, itemsToString(items), reporter.messages())
	}
	for i, it := range items {
		if it.Token.Kind != expected[i] {
			t.Errorf("Token %d: expected %s, got %s (tag: %q)",
				i, lexer.KindName(expected[i]), lexer.KindName(it.Token.Kind), it.Token.Tag)
		}
	}
}

// expectSingleToken checks that input yields exactly one token.
func expectSingleToken(t *testing.T, input string, kind token.Kind, tag string) {
	t.Helper()
	items, reporter := collectAll(t, input)
	if len(items) != 1 {
		t.Fatalf("expected 1 token for %q, got %v (errors: %v)", input, itemsToString(items), reporter.messages())
	}
	if items[0].Token.Kind != kind {
		t.Errorf("Expected kind %s, got %s", lexer.KindName(kind), lexer.KindName(items[0].Token.Kind))
	}
	if items[0].Token.Tag != tag {
		t.Errorf("Expected tag %q, got %q", tag, items[0].Token.Tag)
	}
}

// checkTiling asserts that emitted ranges cover [0, len) with no gap or overlap
// and that every tag matches the text under its range.
func checkTiling(t *testing.T, input string, items []lexer.Item) {
	t.Helper()
	r := source.MustStringReader("tile.wl", input)
	if err := testkit.CheckTiling(r, items); err != nil {
		t.Fatalf("%v (%v)", err, itemsToString(items))
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"foo", "foo"},
		{"_bar", "_bar"},
		{"__test", "__test"},
		{"x123", "x123"},
		{"camelCase", "camelCase"},
		{"переменная", "переменная"},
		{"变量", "变量"},
		{"Let", "Let"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, lexer.Ident, tt.text)
		})
	}
}

func TestKeywords(t *testing.T) {
	for _, kw := range lexer.DefaultKeywords {
		t.Run(kw, func(t *testing.T) {
			expectSingleToken(t, kw, lexer.Keyword, kw)
		})
	}
}

func TestCustomKeywords(t *testing.T) {
	r := source.MustStringReader("kw.wl", "let proc")
	items, err := lexer.Collect(r, lexer.NewBasic(lexer.Options{Keywords: []string{"proc"}}))
	if err != nil {
		t.Fatal(err)
	}
	items = significant(items)
	if items[0].Token.Kind != lexer.Ident || items[1].Token.Kind != lexer.Keyword {
		t.Fatalf("custom keyword set not honoured: %v", itemsToString(items))
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", lexer.IntLit},
		{"123", lexer.IntLit},
		{"1_000", lexer.IntLit},
		{"0x1F", lexer.IntLit},
		{"0o17", lexer.IntLit},
		{"0b1010", lexer.IntLit},
		{"1.5", lexer.FloatLit},
		{"1.", lexer.FloatLit},
		{".5", lexer.FloatLit},
		{"1e10", lexer.FloatLit},
		{"1.0e-3", lexer.FloatLit},
		{"2E+8", lexer.FloatLit},
		{"1.e5", lexer.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumberBeforeRange(t *testing.T) {
	expectTokens(t, "1..2", []token.Kind{lexer.IntLit, lexer.DotDot, lexer.IntLit})
	expectTokens(t, "0..=9", []token.Kind{lexer.IntLit, lexer.DotDotEq, lexer.IntLit})
	expectTokens(t, "1...", []token.Kind{lexer.IntLit, lexer.DotDotDot})
	items, _ := collectAll(t, "1..2")
	checkTiling(t, "1..2", items)
}

func TestBadNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"1e", []token.Kind{lexer.Invalid}},
		{"1e+x", []token.Kind{lexer.Invalid, lexer.Ident}},
		{"0x", []token.Kind{lexer.Invalid}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want)
			_, reporter := collectAll(t, tt.input)
			if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexBadNumber {
				t.Fatalf("expected one LexBadNumber, got %v", reporter.messages())
			}
		})
	}
}

func TestStrings(t *testing.T) {
	expectSingleToken(t, `"hello"`, lexer.StringLit, `"hello"`)
	expectSingleToken(t, `"a\"b"`, lexer.StringLit, `"a\"b"`)
	expectSingleToken(t, `"tab\tend\\"`, lexer.StringLit, `"tab\tend\\"`)
	expectTokens(t, `"a""b"`, []token.Kind{lexer.StringLit, lexer.StringLit})
}

func TestUnterminatedString(t *testing.T) {
	t.Run("eof", func(t *testing.T) {
		items, reporter := collectAll(t, `"abc`)
		if len(items) != 1 || items[0].Token.Kind != lexer.Invalid {
			t.Fatalf("unexpected tokens %v", itemsToString(items))
		}
		if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnterminatedString {
			t.Fatalf("unexpected diagnostics %v", reporter.messages())
		}
		d := reporter.diagnostics[0]
		if d.Message != "unterminated string literal" || len(d.Notes) != 1 || d.Notes[0].Range.Len != 1 {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
	})
	t.Run("newline", func(t *testing.T) {
		input := "\"abc\nx"
		items, reporter := collectAll(t, input)
		checkTiling(t, input, items)
		want := []token.Kind{lexer.Invalid, lexer.Newline, lexer.Ident}
		if len(items) != len(want) {
			t.Fatalf("unexpected tokens %v", itemsToString(items))
		}
		for i := range want {
			if items[i].Token.Kind != want[i] {
				t.Fatalf("unexpected tokens %v", itemsToString(items))
			}
		}
		if reporter.diagnostics[0].Message != "newline in string literal" {
			t.Fatalf("unexpected diagnostics %v", reporter.messages())
		}
	})
}

func TestOperatorsGreedy(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"+", []token.Kind{lexer.Plus}},
		{"+=", []token.Kind{lexer.PlusAssign}},
		{"->", []token.Kind{lexer.Arrow}},
		{"=>", []token.Kind{lexer.FatArrow}},
		{"<<=", []token.Kind{lexer.ShlAssign}},
		{">>=", []token.Kind{lexer.ShrAssign}},
		{"::", []token.Kind{lexer.ColonColon}},
		{":=", []token.Kind{lexer.ColonAssign}},
		{"??", []token.Kind{lexer.QuestionQuestion}},
		{"..=", []token.Kind{lexer.DotDotEq}},
		{"===", []token.Kind{lexer.EqEq, lexer.Assign}},
		{"<<<", []token.Kind{lexer.Shl, lexer.Lt}},
		{"a->b", []token.Kind{lexer.Ident, lexer.Arrow, lexer.Ident}},
		{"f(x, y)", []token.Kind{lexer.Ident, lexer.LParen, lexer.Ident, lexer.Comma, lexer.Ident, lexer.RParen}},
		{"@attr", []token.Kind{lexer.At, lexer.Ident}},
		{"x / y", []token.Kind{lexer.Ident, lexer.Slash, lexer.Ident}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want)
		})
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"// line", lexer.LineComment},
		{"/// doc", lexer.DocComment},
		{"/* block */", lexer.BlockComment},
		{"/* outer /* inner */ still */", lexer.BlockComment},
		{"/**/", lexer.BlockComment},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}

	items, _ := collectAll(t, "a // c\nb")
	kinds := make([]token.Kind, len(items))
	for i, it := range items {
		kinds[i] = it.Token.Kind
	}
	want := []token.Kind{lexer.Ident, lexer.Space, lexer.LineComment, lexer.Newline, lexer.Ident}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("line comment must stop before the newline: %v", itemsToString(items))
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	items, reporter := collectAll(t, "/* never /* closed */")
	if len(items) != 1 || items[0].Token.Kind != lexer.BlockComment {
		t.Fatalf("unexpected tokens %v", itemsToString(items))
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnterminatedBlockComment {
		t.Fatalf("unexpected diagnostics %v", reporter.messages())
	}
}

func TestUnknownCharacter(t *testing.T) {
	items, reporter := collectAll(t, "a $ b")
	if items[2].Token.Kind != lexer.Invalid || items[2].Token.Tag != "$" {
		t.Fatalf("unexpected tokens %v", itemsToString(items))
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnknownChar {
		t.Fatalf("unexpected diagnostics %v", reporter.messages())
	}
	if got := reporter.diagnostics[0].Primary; got.Start.Offset != 2 || got.Len != 1 {
		t.Fatalf("diagnostic range %v", got)
	}
}

func TestWhitespaceCoalesces(t *testing.T) {
	items, _ := collectAll(t, "a \t b\n\n\nc")
	want := []struct {
		kind token.Kind
		tag  string
	}{
		{lexer.Ident, "a"}, {lexer.Space, " \t "}, {lexer.Ident, "b"},
		{lexer.Newline, "\n\n\n"}, {lexer.Ident, "c"},
	}
	if len(items) != len(want) {
		t.Fatalf("unexpected tokens %v", itemsToString(items))
	}
	for i, w := range want {
		if items[i].Token.Kind != w.kind || items[i].Token.Tag != w.tag {
			t.Fatalf("item %d = %v", i, itemsToString(items[i:i+1]))
		}
	}
	if c := items[4].Range.Start; c.Line != 4 || c.Col != 1 {
		t.Fatalf("position of c = %v", c)
	}
}

func TestTilingProperty(t *testing.T) {
	inputs := []string{
		"",
		"ab",
		"fn main() {\n\tlet x := 1..10 // range\n\treturn x * 2.5e3\n}\n",
		"/* a /* b */ c */x\"str\\\"ing\"$%=",
		"0x1F+.5-1.e+3;",
		"\"open\nstring",
		"ünï cødé → ok",
		"1e+",
	}
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			items, _ := collectAll(t, input)
			checkTiling(t, input, items)
		})
	}
}

func TestDeterminism(t *testing.T) {
	input := "let a = \"x\" + 0b101 /* c */ ..= b\n"
	first, _ := collectAll(t, input)
	second, _ := collectAll(t, input)
	if len(first) != len(second) {
		t.Fatalf("different lengths: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("item %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestResetReusesTokenizer(t *testing.T) {
	tz := lexer.NewBasic(lexer.Options{})
	r := source.MustStringReader("r.wl", "abc")
	// feed part of the input, then abandon it
	tz.Feed(source.StartPos(), 'x')
	tz.Reset()
	items, err := lexer.Collect(r, tz)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Token.Tag != "abc" || items[0].Range.Start.Offset != 0 {
		t.Fatalf("reset tokenizer leaked state: %v", itemsToString(items))
	}
}

func TestTokensIterator(t *testing.T) {
	r := source.MustStringReader("it.wl", "a b c d")
	var tags []string
	for tok := range lexer.Tokens(r, lexer.NewBasic(lexer.Options{})) {
		if tok.Kind == lexer.Space {
			continue
		}
		tags = append(tags, tok.Tag)
		if len(tags) == 2 {
			break
		}
	}
	if strings.Join(tags, ",") != "a,b" {
		t.Fatalf("iterator yielded %v", tags)
	}
}

// shortReader claims more characters than it holds.
type shortReader struct {
	source.Reader
	extra int
}

func (r shortReader) Len() int { return r.Reader.Len() + r.extra }

func TestTokensErrReportsReaderFailure(t *testing.T) {
	r := shortReader{Reader: source.MustStringReader("short.wl", "ab"), extra: 2}
	seq, errf := lexer.TokensErr(r, lexer.NewBasic(lexer.Options{}))
	var tags []string
	for tok := range seq {
		tags = append(tags, tok.Tag)
	}
	if len(tags) != 0 {
		t.Fatalf("tokens before the failure: %v", tags)
	}
	err := errf()
	if !errors.Is(err, source.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}

	seq, errf = lexer.TokensErr(source.MustStringReader("ok.wl", "a b"), lexer.NewBasic(lexer.Options{}))
	for range seq {
		break
	}
	if err := errf(); err != nil {
		t.Fatalf("early stop reported %v", err)
	}
}

func TestLexerNextSkipsTrivia(t *testing.T) {
	r := source.MustStringReader("n.wl", "let x = 1 // done\n")
	lx := lexer.New(r, lexer.Options{})

	if p := lx.Peek(); p.Token.Tag != "let" {
		t.Fatalf("Peek = %v", p.Token)
	}
	var got []string
	for {
		it := lx.Next()
		if it.Token.Kind == lexer.EOF {
			if it.Range.Start.Offset != r.Len() || !it.Range.Empty() {
				t.Fatalf("EOF range %v", it.Range)
			}
			break
		}
		got = append(got, it.Token.Tag)
	}
	if strings.Join(got, " ") != "let x = 1" {
		t.Fatalf("tokens = %q", got)
	}
	if again := lx.Next(); again.Token.Kind != lexer.EOF {
		t.Fatalf("expected EOF after EOF, got %v", again.Token)
	}
	if lx.Err() != nil {
		t.Fatalf("unexpected error %v", lx.Err())
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range []token.Kind{lexer.Invalid, lexer.Ident, lexer.DotDotEq, lexer.At} {
		name := lexer.KindName(k)
		back, ok := lexer.ParseKind(name)
		if !ok || back != k {
			t.Fatalf("ParseKind(%q) = %v, %v", name, back, ok)
		}
	}
	if lexer.KindName(token.Unknown) != "Unknown" {
		t.Fatalf("Unknown kind name = %q", lexer.KindName(token.Unknown))
	}
	if !lexer.IsOperator(lexer.Plus) || lexer.IsOperator(lexer.Ident) || !lexer.IsLiteral(lexer.FloatLit) {
		t.Fatalf("kind classification broken")
	}
}
