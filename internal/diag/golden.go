package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatShortDiagnostics renders one stable line per diagnostic:
//
//	path:line:col: SEVERITY ID message
//
// Entries are sorted so the result can be compared against golden files.
func FormatShortDiagnostics(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i], sorted[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Primary.Start.Offset != dj.Primary.Start.Offset {
			return di.Primary.Start.Offset < dj.Primary.Start.Offset
		}
		return di.Code < dj.Code
	})

	var sb strings.Builder
	for _, d := range sorted {
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s %s\n",
			d.Path, d.Primary.Start.Line, d.Primary.Start.Col,
			d.Severity, d.Code.ID(), d.Message)
	}
	return sb.String()
}
