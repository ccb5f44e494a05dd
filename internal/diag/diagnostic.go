package diag

import (
	"wl/internal/source"
)

type Note struct {
	Range source.Range
	Msg   string
}

// Diagnostic is a single finding. Primary addresses the buffer of the
// source named by Path.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Primary  source.Range
	Notes    []Note
}
