package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// normalizeCRLF replaces every \r\n with \n and leaves lone \r alone.
// The flag reports whether anything was replaced.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineIndex records the offset of every '\n' in text.
func buildLineIndex(text []rune) ([]uint32, error) {
	out := make([]uint32, 0, len(text)/32+1)
	for i, r := range text {
		if r != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			return nil, fmt.Errorf("line index overflow: %w", err)
		}
		out = append(out, off)
	}
	return out, nil
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// no newlines: the whole buffer is one line
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: int(off) + 1}
	}

	// binary search for the last lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi // 0-based index of the newline that precedes off

	if line < 0 {
		return LineCol{Line: 1, Col: int(off) + 1}
	}

	startOff := lineIdx[line] + 1
	return LineCol{Line: line + 2, Col: int(off-startOff) + 1}
}
