package diag

import "wl/internal/source"

func New(sev Severity, code Code, path string, primary source.Range, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
	}
}

func NewError(code Code, path string, primary source.Range, msg string) Diagnostic {
	return New(SevError, code, path, primary, msg)
}

func (d Diagnostic) WithNote(rng source.Range, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Range: rng, Msg: msg})
	return d
}
