package raster

import (
	"decoder-diff/internal/pnm"
	"image"

	"golang.org/x/xerrors"
)

// Heatmap renders where two decoded images diverge. Pixels that got brighter
// beyond the threshold are painted red, darker ones blue, all others keep the
// first image's color. Samples missing from either payload are white.
type Heatmap struct {
	threshold float64
}

func NewHeatmap(threshold float64) *Heatmap {
	return &Heatmap{
		threshold,
	}
}

func (h *Heatmap) Gray(a *pnm.Gray, b *pnm.Gray) (*image.RGBA, error) {
	if a.Header.Width != b.Header.Width || a.Header.Height != b.Header.Height {
		return nil, &pnm.FormatError{
			Reason: "image dimensions mismatch",
		}
	}

	return h.render(a.Header.Width, a.Header.Height, 1, a.Pix, b.Pix), nil
}

// Color needs both dimension lines to parse and agree; the payloads are not
// trusted to match them.
func (h *Heatmap) Color(a *pnm.Color, b *pnm.Color) (*image.RGBA, error) {
	aw, ah, aok := a.Size()
	bw, bh, bok := b.Size()
	if !aok || !bok {
		return nil, xerrors.Errorf("failed to read dimensions from %q and %q", a.Dimensions, b.Dimensions)
	}
	if aw != bw || ah != bh {
		return nil, xerrors.Errorf("image dimensions mismatch (%dx%d vs %dx%d)", aw, ah, bw, bh)
	}
	if aw > 0 && ah > max(len(a.Pix), len(b.Pix))/3/aw {
		return nil, xerrors.Errorf("declared dimensions %dx%d exceed payload", aw, ah)
	}

	return h.render(aw, ah, 3, a.Pix, b.Pix), nil
}

func (h *Heatmap) render(width int, height int, channels int, a []byte, b []byte) *image.RGBA {
	diff := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return diff
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * channels
			dst := diff.PixOffset(x, y)

			if src+channels > len(a) || src+channels > len(b) {
				diff.Pix[dst] = 255
				diff.Pix[dst+1] = 255
				diff.Pix[dst+2] = 255
				diff.Pix[dst+3] = 255
				continue
			}

			ar, ag, ab := rgbAt(a, src, channels)
			br, bg, bb := rgbAt(b, src, channels)
			dr, dg, db := h.getDiffColor(ar, ag, ab, br, bg, bb)

			diff.Pix[dst] = dr
			diff.Pix[dst+1] = dg
			diff.Pix[dst+2] = db
			diff.Pix[dst+3] = 255
		}
	}

	return diff
}

func rgbAt(pix []byte, offset int, channels int) (uint8, uint8, uint8) {
	if channels == 1 {
		return pix[offset], pix[offset], pix[offset]
	}
	return pix[offset], pix[offset+1], pix[offset+2]
}

func (h *Heatmap) getDiffColor(ar uint8, ag uint8, ab uint8, br uint8, bg uint8, bb uint8) (uint8, uint8, uint8) {
	if ar == br && ag == bg && ab == bb {
		return ar, ag, ab
	}

	brightnessA := int(ar) + int(ag) + int(ab)
	brightnessB := int(br) + int(bg) + int(bb)
	normalizedDiff := float64(brightnessB-brightnessA) / (255.0 * 3.0)

	if normalizedDiff > h.threshold {
		return 255, 0, 0
	} else if normalizedDiff < -h.threshold {
		return 0, 0, 255
	}
	return ar, ag, ab
}
