package raster

import (
	"decoder-diff/internal/pnm"
)

type GrayDiff struct {
	maxExamples int
}

func NewGrayDiff(maxExamples int) *GrayDiff {
	return &GrayDiff{
		maxExamples,
	}
}

// Calculate compares two grayscale images sample by sample. Differing maxval
// is reported but the raw bytes are compared without rescaling.
func (g *GrayDiff) Calculate(a *pnm.Gray, b *pnm.Gray) (*GrayReport, error) {
	if a.Header.Width != b.Header.Width || a.Header.Height != b.Header.Height {
		return nil, &pnm.FormatError{
			Reason: "image dimensions mismatch",
		}
	}

	report := &GrayReport{
		Examples:         []Example{},
		MaxValueMismatch: a.Header.MaxValue != b.Header.MaxValue,
	}

	total := 0
	minDiff := 255
	n := min(len(a.Pix), len(b.Pix))
	for i := 0; i < n; i++ {
		diff := absDiff(a.Pix[i], b.Pix[i])
		total += diff
		if diff > report.MaxDiff {
			report.MaxDiff = diff
		}
		if diff < minDiff {
			minDiff = diff
		}
		if diff == 0 {
			continue
		}
		if len(report.Examples) < g.maxExamples {
			report.Examples = append(report.Examples, Example{
				Index: i,
				Diff:  diff,
				A:     a.Pix[i],
				B:     b.Pix[i],
			})
		}
		report.Mismatched++
	}

	// 255 means no sample was seen below the initial bound.
	if minDiff == 255 {
		minDiff = 0
	}
	report.MinDiff = minDiff

	if len(a.Pix) > 0 {
		report.AvgDiff = float64(total) / float64(len(a.Pix))
	}

	return report, nil
}
