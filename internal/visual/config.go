// Package visual runs the color comparator over a list of visual test cases,
// each a pair of images decoded by two decoders from the same source.
package visual

import (
	"decoder-diff/internal/diff/raster"
	"path"
)

const (
	DefaultDirectory      = "test_images/visual_tests"
	DefaultBaselineSuffix = "_dart_decoded.ppm"
	DefaultTargetSuffix   = "_openjpeg_decoded.ppm"
)

// DefaultCaseNames lists the generated test images in report order.
var DefaultCaseNames = []string{
	"gradient_32", "gradient_64",
	"rainbow_32", "rainbow_64",
	"checkerboard_32", "checkerboard_64",
	"circles_32", "circles_64",
	"text_32", "text_64",
	"stripes_32", "stripes_64",
}

// Case is one pair of images. Baseline and Target are storage keys.
type Case struct {
	Name     string
	Baseline string
	Target   string
}

type Config struct {
	Directory  string
	Cases      []Case
	Thresholds raster.Thresholds
	// DiffFormat enables heat map output ("png" or "ppm") when non-empty.
	DiffFormat string
}

// NewCases builds cases named <name><suffix> inside directory.
func NewCases(directory string, names []string, baselineSuffix string, targetSuffix string) []Case {
	cases := make([]Case, 0, len(names))
	for _, name := range names {
		cases = append(cases, Case{
			Name:     name,
			Baseline: path.Join(directory, name+baselineSuffix),
			Target:   path.Join(directory, name+targetSuffix),
		})
	}
	return cases
}

func DefaultConfig() Config {
	return Config{
		Directory:  DefaultDirectory,
		Cases:      NewCases(DefaultDirectory, DefaultCaseNames, DefaultBaselineSuffix, DefaultTargetSuffix),
		Thresholds: raster.DefaultThresholds(),
	}
}
