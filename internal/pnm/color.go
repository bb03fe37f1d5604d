package pnm

import (
	"bytes"
	"io"

	"golang.org/x/xerrors"
)

const colorHeaderLines = 3

// ParseColor splits a binary PPM (P6) image into its header lines and the raw
// RGB payload. Lines starting with '#' are skipped; everything after the third
// remaining line is payload.
func ParseColor(data []byte) (*Color, error) {
	var lines [colorHeaderLines]string
	count := 0
	rest := data
	for count < colorHeaderLines {
		if len(rest) == 0 {
			return nil, xerrors.Errorf("failed to read PPM header after %d lines: %w", count, io.ErrUnexpectedEOF)
		}

		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i+1], rest[i+1:]
		} else {
			rest = nil
		}

		if line[0] == '#' {
			continue
		}
		lines[count] = string(bytes.TrimSpace(line))
		count++
	}

	return &Color{
		Magic:      lines[0],
		Dimensions: lines[1],
		MaxValue:   lines[2],
		Pix:        rest,
	}, nil
}
