package visual

import (
	"context"
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/storage"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writePPM(t *testing.T, path string, dimensions string, pix ...byte) {
	t.Helper()
	data := append([]byte("P6\n# test image\n"+dimensions+"\n255\n"), pix...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func newTestRunner(t *testing.T, root string) *Runner {
	t.Helper()
	s, err := storage.NewFileStorage(context.Background(), storage.FileConfig{Directory: root})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return &Runner{
		Storage: s,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunner_Run(t *testing.T) {
	root := t.TempDir()
	directory := "visual"

	writePPM(t, filepath.Join(root, directory, "same_dart_decoded.ppm"), "3 1", 1, 1, 1, 2, 2, 2, 3, 3, 3)
	writePPM(t, filepath.Join(root, directory, "same_openjpeg_decoded.ppm"), "3 1", 1, 1, 1, 2, 2, 2, 3, 3, 3)
	writePPM(t, filepath.Join(root, directory, "far_dart_decoded.ppm"), "1 1", 0, 0, 0)
	writePPM(t, filepath.Join(root, directory, "far_openjpeg_decoded.ppm"), "1 1", 0, 200, 0)
	writePPM(t, filepath.Join(root, directory, "onlydart_dart_decoded.ppm"), "1 1", 0, 0, 0)
	writePPM(t, filepath.Join(root, directory, "short_dart_decoded.ppm"), "2 1", 9, 9, 9, 9, 9, 9)
	writePPM(t, filepath.Join(root, directory, "short_openjpeg_decoded.ppm"), "2 1", 9, 9, 9, 9)
	if err := os.WriteFile(filepath.Join(root, directory, "broken_dart_decoded.ppm"), []byte("P6\n"), 0644); err != nil {
		t.Fatalf("failed to write broken image: %v", err)
	}
	writePPM(t, filepath.Join(root, directory, "broken_openjpeg_decoded.ppm"), "1 1", 0, 0, 0)

	config := Config{
		Directory:  directory,
		Cases:      NewCases(directory, []string{"same", "missing", "far", "onlydart", "broken", "short"}, DefaultBaselineSuffix, DefaultTargetSuffix),
		Thresholds: raster.DefaultThresholds(),
	}

	summary, err := newTestRunner(t, root).Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kinds []Kind
	for _, o := range summary.Outcomes {
		kinds = append(kinds, o.Kind)
	}
	if diff := cmp.Diff([]Kind{Compared, Skipped, Compared, Skipped, Errored, Compared}, kinds); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if summary.Total != 3 {
		t.Errorf("Expected 3 compared cases, got %d", summary.Total)
	}
	if summary.Passed != 2 {
		t.Errorf("Expected 2 passed cases, got %d", summary.Passed)
	}

	want := []*raster.ColorResult{
		{TotalPixels: 3, Passed: true},
		{TotalPixels: 1, Differences: 1, DiffPercent: 100, MaxDiff: 200, AvgDiff: 200},
		{TotalPixels: 1, Passed: true, Truncated: true},
	}
	var got []*raster.ColorResult
	for _, o := range summary.Outcomes {
		if o.Kind == Compared {
			got = append(got, o.Result)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if broken := summary.Outcomes[4]; broken.Err == nil {
		t.Errorf("Expected error for broken case")
	}
}

func TestRunner_RunDirectoryNotFound(t *testing.T) {
	_, err := newTestRunner(t, t.TempDir()).Run(context.Background(), DefaultConfig())
	if !errors.Is(err, ErrDirectoryNotFound) {
		t.Errorf("Expected ErrDirectoryNotFound, got %v", err)
	}
}

func TestRunner_RunAllMissing(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DefaultDirectory), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	summary, err := newTestRunner(t, root).Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Outcomes) != len(DefaultCaseNames) {
		t.Fatalf("Expected %d outcomes, got %d", len(DefaultCaseNames), len(summary.Outcomes))
	}
	for _, o := range summary.Outcomes {
		if o.Kind != Skipped {
			t.Errorf("Expected %s to be skipped, got %s", o.Case.Name, o.Kind)
		}
	}
	if summary.Total != 0 || summary.Passed != 0 {
		t.Errorf("Expected skipped cases not to be counted, got %d/%d", summary.Passed, summary.Total)
	}
}

func TestRunner_RunWritesHeatmap(t *testing.T) {
	root := t.TempDir()
	writePPM(t, filepath.Join(root, "cases", "pair_dart_decoded.ppm"), "1 1", 10, 10, 10)
	writePPM(t, filepath.Join(root, "cases", "pair_openjpeg_decoded.ppm"), "1 1", 90, 90, 90)

	config := Config{
		Directory:  "cases",
		Cases:      NewCases("cases", []string{"pair"}, DefaultBaselineSuffix, DefaultTargetSuffix),
		Thresholds: raster.DefaultThresholds(),
		DiffFormat: raster.FormatPNG,
	}

	summary, err := newTestRunner(t, root).Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(root, "cases", "diff", "pair.png")
	if got := summary.Outcomes[0].DiffURL; got != want {
		t.Errorf("Expected diff image at %s, got %s", want, got)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Expected diff image to exist: %v", err)
	}
}

func TestRunner_RunAbsoluteDirectory(t *testing.T) {
	directory := filepath.ToSlash(t.TempDir())
	writePPM(t, filepath.Join(directory, "pair_dart_decoded.ppm"), "1 1", 10, 10, 10)
	writePPM(t, filepath.Join(directory, "pair_openjpeg_decoded.ppm"), "1 1", 10, 10, 12)

	config := Config{
		Directory:  directory,
		Cases:      NewCases(directory, []string{"pair"}, DefaultBaselineSuffix, DefaultTargetSuffix),
		Thresholds: raster.DefaultThresholds(),
		DiffFormat: raster.FormatPPM,
	}

	summary, err := newTestRunner(t, ".").Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Outcomes[0].Kind != Compared {
		t.Fatalf("Expected pair to be compared, got %s", summary.Outcomes[0].Kind)
	}
	want := &raster.ColorResult{TotalPixels: 1, Differences: 1, DiffPercent: 100, MaxDiff: 2, AvgDiff: 2}
	if diff := cmp.Diff(want, summary.Outcomes[0].Result); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if want := filepath.Join(directory, "diff", "pair.ppm"); summary.Outcomes[0].DiffURL != want {
		t.Errorf("Expected diff image at %s, got %s", want, summary.Outcomes[0].DiffURL)
	}
}

func TestNewCases(t *testing.T) {
	got := NewCases("dir", []string{"text_32"}, "_a.ppm", "_b.ppm")
	want := []Case{{Name: "text_32", Baseline: "dir/text_32_a.ppm", Target: "dir/text_32_b.ppm"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
