package source

import (
	"errors"
	"fmt"
)

var (
	// ErrIO matches every *IOError.
	ErrIO = errors.New("source i/o error")
	// ErrOutOfBounds matches every *BoundsError.
	ErrOutOfBounds = errors.New("source offset out of bounds")
)

// IOError is returned when a source could not be opened or fully read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// BoundsError reports an address outside [0, Limit].
// Len is -1 for single-character lookups.
type BoundsError struct {
	Path   string
	Offset int
	Len    int
	Limit  int
}

func (e *BoundsError) Error() string {
	if e.Len < 0 {
		return fmt.Sprintf("%s: offset %d out of bounds [0, %d)", e.Path, e.Offset, e.Limit)
	}
	return fmt.Sprintf("%s: range %d+%d out of bounds [0, %d]", e.Path, e.Offset, e.Len, e.Limit)
}

func (e *BoundsError) Is(target error) bool { return target == ErrOutOfBounds }
