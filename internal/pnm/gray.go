package pnm

import (
	"bytes"
	"strconv"
)

const maxGrayValue = 255

var grayMagic = []byte("P5")

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// readToken skips whitespace and '#' comments starting at idx and returns the
// next run of non-whitespace bytes together with the offset just past it.
func readToken(data []byte, idx int) ([]byte, int, error) {
	size := len(data)
	for idx < size {
		b := data[idx]
		if b == '#' {
			idx++
			for idx < size && data[idx] != '\n' && data[idx] != '\r' {
				idx++
			}
		} else if isSpace(b) {
			idx++
		} else {
			break
		}
	}

	start := idx
	for idx < size && !isSpace(data[idx]) {
		idx++
	}
	if start == idx {
		return nil, idx, formatErrorf("invalid PNM header")
	}

	return data[start:idx], idx, nil
}

func parseHeaderValue(token []byte, field string) (int, error) {
	value, err := strconv.Atoi(string(token))
	if err != nil || value < 0 {
		return 0, formatErrorf("invalid %s %q in PNM header", field, token)
	}
	return value, nil
}

// ParseGray decodes a binary PGM (P5) image with at most 8 bits per sample.
func ParseGray(data []byte) (*Gray, error) {
	if !bytes.HasPrefix(data, grayMagic) {
		return nil, formatErrorf("not a binary PGM (P5) file")
	}

	idx := len(grayMagic)
	var values [3]int
	for i, field := range []string{"width", "height", "maxval"} {
		token, next, err := readToken(data, idx)
		if err != nil {
			return nil, err
		}
		value, err := parseHeaderValue(token, field)
		if err != nil {
			return nil, err
		}
		values[i] = value
		idx = next
	}

	header := Header{
		Width:    values[0],
		Height:   values[1],
		MaxValue: values[2],
	}
	if header.MaxValue > maxGrayValue {
		return nil, formatErrorf("only 8-bit PGM files supported")
	}

	for idx < len(data) && isSpace(data[idx]) {
		idx++
	}

	payload := data[idx:]
	if header.Height != 0 && header.Width > len(data)/header.Height+1 {
		return nil, formatErrorf("unexpected payload size (%d vs %dx%d)", len(payload), header.Width, header.Height)
	}
	if expected := header.Width * header.Height; len(payload) != expected {
		return nil, formatErrorf("unexpected payload size (%d vs %d)", len(payload), expected)
	}

	return &Gray{
		Header: header,
		Pix:    payload,
	}, nil
}
