package raster

import (
	"image"
	"image/png"
	"io"

	gopnm "github.com/jbuchbinder/gopnm"
	"golang.org/x/xerrors"
)

const (
	FormatPNG = "png"
	FormatPPM = "ppm"
)

// Encode writes a rendered heat map as PNG or binary PPM.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return xerrors.Errorf("failed to encode png: %w", err)
		}
	case FormatPPM:
		if err := gopnm.Encode(w, img, gopnm.PPM); err != nil {
			return xerrors.Errorf("failed to encode ppm: %w", err)
		}
	default:
		return xerrors.Errorf("unknown image format: %s", format)
	}
	return nil
}
