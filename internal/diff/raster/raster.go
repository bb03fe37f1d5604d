package raster

import (
	"golang.org/x/exp/constraints"
)

// DefaultMaxExamples is how many divergent samples a GrayReport keeps.
const DefaultMaxExamples = 10

type Example struct {
	Index int  `json:"index"`
	Diff  int  `json:"diff"`
	A     byte `json:"valA"`
	B     byte `json:"valB"`
}

type GrayReport struct {
	MaxDiff          int       `json:"maxDiff"`
	MinDiff          int       `json:"minDiff"`
	AvgDiff          float64   `json:"avgDiff"`
	Mismatched       int       `json:"mismatchedSamples"`
	Examples         []Example `json:"examples"`
	MaxValueMismatch bool      `json:"maxValueMismatch"`
}

type ColorResult struct {
	TotalPixels int     `json:"totalPixels"`
	Differences int     `json:"differences"`
	DiffPercent float64 `json:"diffPercent"`
	MaxDiff     int     `json:"maxDiff"`
	AvgDiff     float64 `json:"avgDiff"`
	Passed      bool    `json:"pass"`
	// Truncated is set when the payloads differ in length and only the
	// common prefix was compared.
	Truncated bool `json:"truncated"`
}

type Thresholds struct {
	MaxDiffPercent float64
	MaxChannelDiff int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDiffPercent: 50,
		MaxChannelDiff: 5,
	}
}

func absDiff[T constraints.Integer](a T, b T) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
