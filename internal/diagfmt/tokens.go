package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"wl/internal/lexer"
	"wl/internal/source"
)

type PosJSON struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Col    int `json:"col"`
}

type TokenOutput struct {
	Kind   string   `json:"kind"`
	KindID int32    `json:"kind_id"`
	Text   string   `json:"text,omitempty"`
	Start  PosJSON  `json:"start"`
	Len    int      `json:"len"`
	End    *PosJSON `json:"end,omitempty"`
}

// TokensOutput groups the tokens of one file.
type TokensOutput struct {
	File   string        `json:"file"`
	Tokens []TokenOutput `json:"tokens"`
}

func toPosJSON(p source.Pos) PosJSON {
	return PosJSON{Offset: p.Offset, Line: p.Line, Col: p.Col}
}

// BuildTokensOutput converts items to their JSON shape. buf may be nil,
// in which case end positions are omitted.
func BuildTokensOutput(path string, items []lexer.Item, buf *source.Buffer) TokensOutput {
	out := TokensOutput{File: path, Tokens: make([]TokenOutput, 0, len(items))}
	for _, it := range items {
		to := TokenOutput{
			Kind:   lexer.KindName(it.Token.Kind),
			KindID: int32(it.Token.Kind),
			Text:   it.Token.Tag,
			Start:  toPosJSON(it.Range.Start),
			Len:    it.Range.Len,
		}
		if buf != nil {
			if end, err := buf.PosAt(it.Range.End()); err == nil {
				pj := toPosJSON(end)
				to.End = &pj
			}
		}
		out.Tokens = append(out.Tokens, to)
	}
	return out
}

// FormatTokensPretty prints one token per line:
//
//	1: Ident          "ab" at 1:1-1:3
func FormatTokensPretty(w io.Writer, items []lexer.Item, buf *source.Buffer) error {
	for i, it := range items {
		start := it.Range.Start
		if _, err := fmt.Fprintf(w, "%3d: %-14s", i+1, lexer.KindName(it.Token.Kind)); err != nil {
			return err
		}
		if it.Token.Tag != "" {
			fmt.Fprintf(w, " %q", it.Token.Tag)
		}
		if buf != nil {
			if end, err := buf.PosAt(it.Range.End()); err == nil {
				fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)
				continue
			}
		}
		fmt.Fprintf(w, " at %d:%d+%d\n", start.Line, start.Col, it.Range.Len)
	}
	return nil
}

// FormatTokensJSON writes the tokens of one file as indented JSON.
func FormatTokensJSON(w io.Writer, path string, items []lexer.Item, buf *source.Buffer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(path, items, buf))
}
