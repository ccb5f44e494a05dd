package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wl/internal/diag"
	"wl/internal/lexer"
	"wl/internal/source"
	"wl/internal/testkit"
	"wl/internal/trace"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func kinds(items []lexer.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if lexer.IsTrivia(it.Token.Kind) {
			continue
		}
		out = append(out, lexer.KindName(it.Token.Kind))
	}
	return out
}

func TestTokenize(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.wl", "let x = 42\n")

	res, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10})
	require.NoError(t, err)
	require.NotNil(t, res.Reader)
	assert.False(t, res.Cached)
	assert.Equal(t, 0, res.Bag.Len())
	assert.Equal(t, []string{"Keyword", "Ident", "Assign", "IntLit"}, kinds(res.Items))

	assert.NoError(t, testkit.CheckTiling(res.Reader, res.Items))

	require.NotEmpty(t, res.Timing.Phases)
	assert.Equal(t, "load", res.Timing.Phases[0].Name)
}

func TestTokenizeReportsDiagnostics(t *testing.T) {
	path := writeSource(t, t.TempDir(), "bad.wl", "x = \"open\n")

	res, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10})
	require.NoError(t, err)
	require.Equal(t, 1, res.Bag.Len())

	d := res.Bag.Items()[0]
	assert.Equal(t, diag.LexUnterminatedString, d.Code)
	assert.Equal(t, res.Path, d.Path)
	assert.Equal(t, 1, d.Primary.Start.Line)
	assert.Equal(t, 5, d.Primary.Start.Col)
}

func TestTokenizeMissingFile(t *testing.T) {
	_, err := Tokenize(context.Background(), filepath.Join(t.TempDir(), "nope.wl"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTokenizeCanceled(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.wl", "a b c")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Tokenize(ctx, path, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenizeCustomKeywords(t *testing.T) {
	path := writeSource(t, t.TempDir(), "k.wl", "let def")

	res, err := Tokenize(context.Background(), path, Options{
		Lexer: lexer.Options{Keywords: []string{"def"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ident", "Keyword"}, kinds(res.Items))
}

func TestTokenizeString(t *testing.T) {
	res, err := TokenizeString(context.Background(), "<stdin>", "ab", Options{MaxDiagnostics: 4})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ab", res.Items[0].Token.Tag)
	assert.Equal(t, source.NewRange(source.StartPos(), 2), res.Items[0].Range)
	assert.Equal(t, 0, res.Bag.Len())
	assert.Equal(t, 2, res.Reader.Len())

	res, err = TokenizeString(context.Background(), "<stdin>", "", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestTokenizeTrace(t *testing.T) {
	path := writeSource(t, t.TempDir(), "t.wl", "a")
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	_, err := Tokenize(ctx, path, Options{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "file:"+path)
	assert.Contains(t, out, "• Ident")
	assert.Contains(t, out, "tokens=1")
}

func TestTokenizeObserver(t *testing.T) {
	path := writeSource(t, t.TempDir(), "o.wl", "a")
	var events []string
	_, err := Tokenize(context.Background(), path, Options{
		Observer: func(ev PhaseEvent) {
			status := "start"
			if ev.Status == PhaseEnd {
				status = "end"
			}
			events = append(events, ev.Name+":"+status)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"load:start", "load:end", "tokenize:start", "tokenize:end"}, events)
}

func TestTokenizeDir(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.wl", "b")
	writeSource(t, dir, "a.wl", "a")
	writeSource(t, dir, "sub/c.wl", "$")
	writeSource(t, dir, "notes.txt", "ignored")
	writeSource(t, dir, ".hidden/d.wl", "d")

	var mu sync.Mutex
	seen := 0
	results, err := TokenizeDir(context.Background(), dir, Options{
		Jobs:           2,
		MaxDiagnostics: 10,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			seen++
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = filepath.Base(r.Path)
	}
	assert.Equal(t, []string{"a.wl", "b.wl", "c.wl"}, names)
	assert.Equal(t, 0, results[0].Bag.Len())
	assert.True(t, results[2].Bag.HasErrors())
	assert.Equal(t, diag.LexUnknownChar, results[2].Bag.Items()[0].Code)
	assert.Equal(t, 12, seen)
}

func TestTokenizeDirExtensions(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.wl", "a")
	writeSource(t, dir, "b.wlx", "b")

	files, err := ListSourceFiles(dir, []string{".wlx"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], "b.wlx"))
}

func TestTokenizeDirLoadError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	writeSource(t, dir, "ok.wl", "a")
	locked := writeSource(t, dir, "locked.wl", "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o600) })

	results, err := TokenizeDir(context.Background(), dir, Options{MaxDiagnostics: 4})
	require.NoError(t, err)
	require.Len(t, results, 2)

	failed := results[0]
	assert.Nil(t, failed.Reader)
	require.Equal(t, 1, failed.Bag.Len())
	assert.Equal(t, diag.IOLoadFileError, failed.Bag.Items()[0].Code)
	assert.NotNil(t, results[1].Reader)
}

func TestTokenizeDirEmpty(t *testing.T) {
	results, err := TokenizeDir(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTokenizeTestdata(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "lexer")
	results, err := TokenizeDir(context.Background(), dir, Options{
		MaxDiagnostics: 50,
		Extensions:     []string{".wl"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := make(map[string]TokenizeResult, len(results))
	for _, r := range results {
		require.NotNil(t, r.Reader, r.Path)
		assert.NoError(t, testkit.CheckTiling(r.Reader, r.Items), r.Path)
		byName[filepath.Base(r.Path)] = r
	}
	assert.Equal(t, 0, byName["basics.wl"].Bag.Len())

	codes := map[diag.Code]bool{}
	for _, d := range byName["errors.wl"].Bag.Items() {
		codes[d.Code] = true
	}
	for _, want := range []diag.Code{diag.LexBadNumber, diag.LexUnknownChar, diag.LexUnterminatedString, diag.LexUnterminatedBlockComment} {
		assert.True(t, codes[want], "missing %s", want.ID())
	}
}

func TestListSourceFilesHonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, ".gitignore", "skip.wl\n*.gen.wl\n")
	writeSource(t, dir, "keep.wl", "a")
	writeSource(t, dir, "skip.wl", "b")
	writeSource(t, dir, "sub/parser.gen.wl", "c")
	writeSource(t, dir, "sub/lexer.wl", "d")

	files, err := ListSourceFiles(dir, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"keep.wl", "sub/lexer.wl"}, names)
}
