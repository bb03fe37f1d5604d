package visual

import (
	"fmt"
	"io"
	"path"
	"strings"
)

const Title = "VISUAL COMPARISON: Dart vs OpenJPEG Decoder"

var banner = strings.Repeat("=", 80)

func WriteHeader(w io.Writer) {
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, Title)
	fmt.Fprintln(w, banner)
}

// WriteOutcome prints one case block. Skipped and errored cases are a single
// line.
func WriteOutcome(w io.Writer, o Outcome) {
	switch o.Kind {
	case Skipped:
		fmt.Fprintf(w, "\n%s: SKIP (files not found)\n", o.Case.Name)
	case Errored:
		fmt.Fprintf(w, "\n%s: ERROR - %v\n", o.Case.Name, o.Err)
	case Compared:
		status := "✗ FAIL"
		if o.Result.Passed {
			status = "✓ PASS"
		}

		fmt.Fprintf(w, "\n%s:\n", o.Case.Name)
		fmt.Fprintf(w, "  Total pixels: %d\n", o.Result.TotalPixels)
		fmt.Fprintf(w, "  Differences: %d (%.2f%%)\n", o.Result.Differences, o.Result.DiffPercent)
		fmt.Fprintf(w, "  Max diff: %d\n", o.Result.MaxDiff)
		fmt.Fprintf(w, "  Avg diff: %.2f\n", o.Result.AvgDiff)
		fmt.Fprintf(w, "  Status: %s\n", status)
		if o.DiffURL != "" {
			fmt.Fprintf(w, "  Diff image: %s\n", o.DiffURL)
		}
	}
}

func WriteFooter(w io.Writer, directory string, s *Summary) {
	fmt.Fprintln(w, "\n"+banner)
	fmt.Fprintf(w, "SUMMARY: %d/%d tests passed\n", s.Passed, s.Total)
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "\nHTML comparison available at: %s\n", path.Join(directory, "comparison.html"))
	fmt.Fprintln(w, "Open this file in your browser to visually compare all images side-by-side.")
}

func WriteReport(w io.Writer, directory string, s *Summary) {
	WriteHeader(w)
	for _, o := range s.Outcomes {
		WriteOutcome(w, o)
	}
	WriteFooter(w, directory, s)
}
