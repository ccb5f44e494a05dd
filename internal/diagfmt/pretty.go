package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wl/internal/diag"
	"wl/internal/source"
)

type styles struct {
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	code    *color.Color
	gutter  *color.Color
	caret   *color.Color
	noteTag *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		err:     color.New(color.Bold, color.FgHiRed),
		warn:    color.New(color.Bold, color.FgHiYellow),
		info:    color.New(color.Bold, color.FgHiBlue),
		code:    color.New(color.Bold),
		gutter:  color.New(color.FgHiBlue),
		caret:   color.New(color.Bold, color.FgHiGreen),
		noteTag: color.New(color.Bold, color.FgCyan),
	}
	for _, c := range []*color.Color{s.err, s.warn, s.info, s.code, s.gutter, s.caret, s.noteTag} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s styles) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return s.err
	case diag.SevWarning:
		return s.warn
	default:
		return s.info
	}
}

// Pretty renders diagnostics for humans. Items are printed in bag order,
// call bag.Sort() first for stable output. Each diagnostic looks like:
//
//	path:line:col: ERROR LEX1002: message
//	   1 | let s = "abc
//	     |         ^~~~
//
// followed by its notes when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, srcs Sources, opts PrettyOpts) {
	st := newStyles(opts.Color)
	for _, d := range bag.Items() {
		path := formatPath(d.Path, opts.PathMode, opts.BaseDir)
		start := d.Primary.Start
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			path, start.Line, start.Col,
			st.severity(d.Severity).Sprint(d.Severity.String()),
			st.code.Sprint(d.Code.ID()),
			d.Message)

		if buf := srcs[d.Path]; buf != nil {
			writeSnippet(w, st, buf, d.Primary, opts)
		}

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				st.noteTag.Sprint("note:"),
				path, n.Range.Start.Line, n.Range.Start.Col, n.Msg)
		}
	}
}

func writeSnippet(w io.Writer, st styles, buf *source.Buffer, rng source.Range, opts PrettyOpts) {
	line := rng.Start.Line
	if line < 1 || line > buf.LineCount() {
		return
	}
	first := max(line-int(opts.Context), 1)
	gw := len(strconv.Itoa(line))

	for n := first; n <= line; n++ {
		text := clip(expandTabs(lineAt(buf, n)), opts.Width)
		fmt.Fprintf(w, " %s %s\n", st.gutter.Sprintf("%*d |", gw, n), text)
	}

	lineText := []rune(lineAt(buf, line))
	col := min(max(rng.Start.Col-1, 0), len(lineText))
	pad := runewidth.StringWidth(expandTabs(string(lineText[:col])))

	// the underline stops at the end of the primary line
	endCol := min(col+rng.Len, len(lineText))
	width := max(runewidth.StringWidth(expandTabs(string(lineText[col:endCol]))), 1)
	if opts.Width > 0 {
		limit := int(opts.Width)
		if pad >= limit {
			return
		}
		width = min(width, limit-pad)
	}

	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n",
		st.gutter.Sprintf("%*s |", gw, ""),
		strings.Repeat(" ", pad),
		st.caret.Sprint(marker))
}

// lineAt is buf.Line without the CR of a CRLF ending.
func lineAt(buf *source.Buffer, n int) string {
	return strings.TrimSuffix(buf.Line(n), "\r")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
