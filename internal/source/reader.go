package source

// Reader resolves positions and ranges against one loaded source.
// Lookups never perform I/O and fail only with a *BoundsError.
type Reader interface {
	// Path is the logical name of the source.
	Path() string
	// Len is the number of characters in the source.
	Len() int
	// CharAt returns the character at pos.Offset.
	CharAt(pos Pos) (rune, error)
	// PieceAt returns exactly r.Len characters starting at r.Start.Offset.
	PieceAt(r Range) (string, error)
}

// Whole returns the range covering every character of r.
func Whole(r Reader) Range {
	return Range{Start: StartPos(), Len: r.Len()}
}
