package source

type (
	// FileFlags encodes what happened to a source while it was loaded.
	FileFlags uint8
)

const (
	// FileVirtual marks a source that was not read from disk (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// Has reports whether every bit of f2 is set in f.
func (f FileFlags) Has(f2 FileFlags) bool {
	return f&f2 == f2
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line int // 1-based
	Col  int // 1-based
}
