package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wl/internal/diagfmt"
	"wl/internal/project"
)

// runCLI executes the root command with args and captures its output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := setupRoot()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(args)
	err := root.Execute()
	finishRun()
	return out.String(), errOut.String(), err
}

// tokenizeArgs pins every tokenize flag; cobra keeps flag values between
// executions of the same command tree.
func tokenizeArgs(extra ...string) []string {
	args := []string{
		"tokenize",
		"--format=pretty", "--diag-format=pretty", "--path-mode=basename",
		"--keep-trivia=false", "--cache=off", "--ui=off", "--jobs=0",
		"--color=off", "--quiet=false", "--timings=false", "--normalize-newlines=false",
		"--trace=", "--trace-level=off",
	}
	return append(args, extra...)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTokenizeFileJSON(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.wl"), "let x = 1\n")

	stdout, stderr, err := runCLI(t, tokenizeArgs("--format=json", path)...)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var out diagfmt.TokensOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	kinds := make([]string, 0, len(out.Tokens))
	for _, tok := range out.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []string{"Keyword", "Ident", "Assign", "IntLit"}, kinds)
}

func TestTokenizeKeepTrivia(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.wl"), "ab\n")

	stdout, _, err := runCLI(t, tokenizeArgs("--keep-trivia", path)...)
	require.NoError(t, err)
	assert.Equal(t,
		"  1: Ident          \"ab\" at 1:1-1:3\n"+
			"  2: Newline        \"\\n\" at 1:3-2:1\n",
		stdout)
}

func TestTokenizeReportsErrors(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.wl"), "a $ b")

	stdout, stderr, err := runCLI(t, tokenizeArgs(path)...)
	require.ErrorIs(t, err, errLexical)
	assert.Contains(t, stdout, "Invalid")
	assert.Contains(t, stderr, "bad.wl:1:3: ERROR LEX1001")
	assert.Contains(t, stderr, "1 diagnostic\n")
}

func TestTokenizeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.wl"), "b")
	writeFile(t, filepath.Join(dir, "a.wl"), "a")

	stdout, _, err := runCLI(t, tokenizeArgs("--format=json", "--jobs=2", dir)...)
	require.NoError(t, err)

	var out []diagfmt.TokensOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	require.Len(t, out, 2)
	assert.Equal(t, "a.wl", filepath.Base(out[0].File))
	assert.Equal(t, "b.wl", filepath.Base(out[1].File))
}

func TestTokenizeStdin(t *testing.T) {
	root := setupRoot()
	root.SetIn(bytes.NewBufferString("x"))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(tokenizeArgs("-"))
	require.NoError(t, root.Execute())
	assert.Equal(t, "  1: Ident          \"x\" at 1:1-1:2\n", out.String())
}

func TestTokenizeMissingFile(t *testing.T) {
	_, _, err := runCLI(t, tokenizeArgs(filepath.Join(t.TempDir(), "nope.wl"))...)
	require.Error(t, err)
}

func TestInitAndCleanProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")

	stdout, _, err := runCLI(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Initialized wl project")
	assert.FileExists(t, filepath.Join(dir, project.ManifestName))
	assert.FileExists(t, filepath.Join(dir, "main.wl"))

	_, _, err = runCLI(t, "init", dir)
	require.Error(t, err)

	// the sample source lexes cleanly and fills the project cache
	_, stderr, err := runCLI(t, tokenizeArgs("--cache=on", "--format=none", filepath.Join(dir, "main.wl"))...)
	require.NoError(t, err, stderr)
	entries, err := os.ReadDir(filepath.Join(dir, ".wl-cache", "tokens"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	stdout, _, err = runCLI(t, "clean", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed")
	_, err = os.Stat(filepath.Join(dir, ".wl-cache", "tokens"))
	assert.True(t, os.IsNotExist(err))
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "--format=json", "--full")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "wl", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.Equal(t, "unknown", payload.GitCommit)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("sometimes")
	assert.Error(t, err)
	assert.True(t, shouldUseTUI(uiModeOn))
	assert.False(t, shouldUseTUI(uiModeOff))
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "mem.out")

	_, _, err := runCLI(t, "version", "--format=pretty", "--cpu-profile="+cpu, "--mem-profile="+mem)
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)

	// persistent flags keep their values between executions
	_, _, err = runCLI(t, "version", "--cpu-profile=", "--mem-profile=")
	require.NoError(t, err)
}

func TestTokenizeShortDiagnostics(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.wl"), "$\n\"open")

	_, stderr, err := runCLI(t, tokenizeArgs("--format=none", "--diag-format=short", path)...)
	require.ErrorIs(t, err, errLexical)
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "bad.wl:1:1: ERROR LEX1001 ")
	assert.Contains(t, lines[1], "bad.wl:2:1: ERROR LEX1002 ")
}

func TestTokenizeStdinKeepsCRLF(t *testing.T) {
	root := setupRoot()
	root.SetIn(bytes.NewBufferString("a\r\nb"))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(tokenizeArgs("--keep-trivia", "--format=json", "-"))
	require.NoError(t, root.Execute())

	var doc diagfmt.TokensOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())
	var text strings.Builder
	for _, tok := range doc.Tokens {
		text.WriteString(tok.Text)
	}
	assert.Equal(t, "a\r\nb", text.String())
}
