package diagfmt

import (
	"encoding/json"
	"io"

	"wl/internal/diag"
	"wl/internal/source"
)

// LocationJSON is a range in a file. Offsets count characters.
type LocationJSON struct {
	File        string `json:"file"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	StartLine   int    `json:"start_line"`
	StartCol    int    `json:"start_col"`
	EndLine     int    `json:"end_line,omitempty"`
	EndCol      int    `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON report.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(path string, rng source.Range, srcs Sources, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:        formatPath(path, opts.PathMode, opts.BaseDir),
		StartOffset: rng.Start.Offset,
		EndOffset:   rng.End(),
		StartLine:   rng.Start.Line,
		StartCol:    rng.Start.Col,
	}
	if opts.IncludePositions {
		if end, ok := srcs.endPos(path, rng); ok {
			loc.EndLine = end.Line
			loc.EndCol = end.Col
		}
	}
	return loc
}

// BuildDiagnosticsOutput assembles the JSON report without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, srcs Sources, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, n)
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Path, d.Primary, srcs, opts),
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(d.Path, note.Range, srcs, opts),
				}
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON writes the diagnostics report as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, srcs Sources, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, srcs, opts))
}
