package pnm_test

import (
	"decoder-diff/internal/pnm"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseGray(t *testing.T) {
	type in struct {
		first []byte
	}

	type want struct {
		first *pnm.Gray
	}

	tests := []struct {
		name string
		in   in
		want want
	}{
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				[]byte("P5\n2 2\n255\n\x0b\x14\x1e\xff"),
			},
			want{
				&pnm.Gray{
					Header: pnm.Header{Width: 2, Height: 2, MaxValue: 255},
					Pix:    []byte{11, 20, 30, 255},
				},
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				[]byte("P5 # produced by decoder\n# width follows\n  2\t\t2 # rows\r\n# depth\n255 \x0b\x14\x1e\xff"),
			},
			want{
				&pnm.Gray{
					Header: pnm.Header{Width: 2, Height: 2, MaxValue: 255},
					Pix:    []byte{11, 20, 30, 255},
				},
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				[]byte("P5 3 1 15\r\n \x01\x02\x03"),
			},
			want{
				&pnm.Gray{
					Header: pnm.Header{Width: 3, Height: 1, MaxValue: 15},
					Pix:    []byte{1, 2, 3},
				},
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				[]byte("P5\n0 0\n255\n"),
			},
			want{
				&pnm.Gray{
					Header: pnm.Header{Width: 0, Height: 0, MaxValue: 255},
					Pix:    []byte{},
				},
			},
		},
	}
	for _, tt := range tests {
		name := tt.name
		in := tt.in
		want := tt.want
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := pnm.ParseGray(in.first)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(want.first, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseGrayFormatError(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"BadMagic", []byte("P6\n2 2\n255\n\x00\x00\x00\x00")},
		{"Empty", []byte{}},
		{"MissingMaxValue", []byte("P5\n2 2")},
		{"MissingHeightInComment", []byte("P5\n2 # 2 255")},
		{"NonNumericWidth", []byte("P5\nw 2\n255\n\x00\x00")},
		{"NegativeHeight", []byte("P5\n2 -1\n255\n")},
		{"SixteenBit", []byte("P5\n1 1\n65535\n\x00\x00")},
		{"ShortPayload", []byte("P5\n2 2\n255\n\x00\x00\x00")},
		{"LongPayload", []byte("P5\n1 1\n255\n\x01\x02")},
		{"HugeDimensions", []byte("P5\n9223372036854775807 2\n255\n\x00")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := pnm.ParseGray(tt.in)
			var formatErr *pnm.FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("Expected FormatError, got %v", err)
			}
		})
	}
}

func TestParseGrayDecorationInvariance(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 4, 5}
	plain, err := pnm.ParseGray(append([]byte("P5 3 2 200\n"), payload...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decorated, err := pnm.ParseGray(append([]byte("P5\n# comment one\n\n3   # trailing\n\t2\r\n#\n200\n\n\t"), payload...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(plain, decorated); diff != "" {
		t.Errorf("(-plain +decorated):\n%s", diff)
	}
}

func TestParseGrayPayloadStartingWithWhitespaceByte(t *testing.T) {
	// The whitespace run after maxval is consumed greedily, so a payload whose
	// first sample is a whitespace byte no longer matches the declared size.
	_, err := pnm.ParseGray([]byte("P5\n2 1\n255\n\x20\x41"))
	var formatErr *pnm.FormatError
	if !errors.As(err, &formatErr) {
		t.Errorf("Expected FormatError, got %v", err)
	}
}
