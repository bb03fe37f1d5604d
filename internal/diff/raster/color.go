package raster

import (
	"decoder-diff/internal/pnm"
)

type ColorDiff struct {
	thresholds Thresholds
}

func NewColorDiff(thresholds Thresholds) *ColorDiff {
	return &ColorDiff{
		thresholds,
	}
}

// Calculate compares interleaved RGB payloads pixel by pixel using the largest
// channel difference of each pixel. Declared dimensions are not checked: the
// shorter payload bounds the comparison and trailing partial pixels are ignored.
func (c *ColorDiff) Calculate(a *pnm.Color, b *pnm.Color) *ColorResult {
	n := min(len(a.Pix), len(b.Pix))
	result := &ColorResult{
		TotalPixels: n / 3,
		Truncated:   len(a.Pix) != len(b.Pix),
	}

	sum := 0
	for i := 0; i+3 <= n; i += 3 {
		diff := max(
			absDiff(a.Pix[i], b.Pix[i]),
			absDiff(a.Pix[i+1], b.Pix[i+1]),
			absDiff(a.Pix[i+2], b.Pix[i+2]),
		)
		if diff == 0 {
			continue
		}

		result.Differences++
		result.MaxDiff = max(result.MaxDiff, diff)
		sum += diff
	}

	if result.TotalPixels > 0 {
		result.DiffPercent = float64(result.Differences) * 100.0 / float64(result.TotalPixels)
	}
	if result.Differences > 0 {
		result.AvgDiff = float64(sum) / float64(result.Differences)
	}
	result.Passed = result.DiffPercent <= c.thresholds.MaxDiffPercent && result.MaxDiff <= c.thresholds.MaxChannelDiff

	return result
}
