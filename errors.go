package hexpic

import "fmt"

// Error is the kind of a conversion failure. Call sites wrap it with detail,
// so match with errors.Is.
type Error int

const (
	// ErrInvalidDimensions means a requested or source size is zero or
	// negative, or the aspect ratio cannot be computed.
	ErrInvalidDimensions Error = iota + 1
	// ErrEmptyCharset means the charset has no glyphs.
	ErrEmptyCharset
	// ErrDimensionMismatch means the pixel buffer does not have the planned
	// size. It indicates a bug in the caller, not bad input.
	ErrDimensionMismatch
)

func (e Error) Error() string {
	var d string
	switch e {
	case ErrInvalidDimensions:
		d = "invalid dimensions"
	case ErrEmptyCharset:
		d = "empty charset"
	case ErrDimensionMismatch:
		d = "dimension mismatch"
	default:
		d = fmt.Sprintf("%d", int(e))
	}
	return fmt.Sprintf("hexpic: %s", d)
}
