// Package pnm parses the headers of the binary NetPBM formats produced by the
// decoders under test: P5 (8-bit grayscale) and P6 (8-bit interleaved RGB).
package pnm

import (
	"fmt"
)

type Header struct {
	Width    int
	Height   int
	MaxValue int
}

type Gray struct {
	Header Header
	Pix    []byte
}

// Color keeps the three header lines verbatim. Nothing in them is validated.
type Color struct {
	Magic      string
	Dimensions string
	MaxValue   string
	Pix        []byte
}

// Size parses the dimensions line. ok is false when it is not "<w> <h>".
func (c *Color) Size() (width int, height int, ok bool) {
	if _, err := fmt.Sscanf(c.Dimensions, "%d %d", &width, &height); err != nil {
		return 0, 0, false
	}
	if width < 0 || height < 0 {
		return 0, 0, false
	}
	return width, height, true
}

type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

func formatErrorf(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
