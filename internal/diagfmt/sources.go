package diagfmt

import "wl/internal/source"

// Buffered is a reader that exposes its immutable text.
type Buffered interface {
	Path() string
	Buffer() *source.Buffer
}

// Sources maps diagnostic paths to the text they address.
type Sources map[string]*source.Buffer

// NewSources indexes the given readers by path.
func NewSources(rs ...Buffered) Sources {
	s := make(Sources, len(rs))
	for _, r := range rs {
		s.Add(r)
	}
	return s
}

// Add registers r. A nil reader is ignored.
func (s Sources) Add(r Buffered) {
	if r == nil {
		return
	}
	s[r.Path()] = r.Buffer()
}

// endPos resolves the position right after rng; ok is false when the
// text is unknown or rng does not fit it.
func (s Sources) endPos(path string, rng source.Range) (source.Pos, bool) {
	buf := s[path]
	if buf == nil {
		return source.Pos{}, false
	}
	pos, err := buf.PosAt(rng.End())
	if err != nil {
		return source.Pos{}, false
	}
	return pos, true
}

func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "<unknown>"
	}
	return source.FormatPath(path, mode.String(), baseDir)
}
