package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/env"
	"decoder-diff/internal/pnm"
	"decoder-diff/internal/storage"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/xerrors"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	var diffOutput string
	var diffFormat string
	flag.StringVar(&diffOutput, "diff-output", env.OrDefault("DIFF_OUTPUT", ""), "Directory to write a diff heat map to (disabled when empty)")
	flag.StringVar(&diffFormat, "diff-format", env.OrDefault("DIFF_FORMAT", raster.FormatPNG), "Diff heat map format (png or ppm)")

	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Println("Usage: compare-pgm <image_a.pgm> <image_b.pgm>")
		os.Exit(1)
	}

	pathA := args[0]
	pathB := args[1]

	a, err := loadGray(pathA)
	if err != nil {
		log.Fatalf("Failed to load image a: %v", err)
	}

	b, err := loadGray(pathB)
	if err != nil {
		log.Fatalf("Failed to load image b: %v", err)
	}

	report, err := raster.NewGrayDiff(raster.DefaultMaxExamples).Calculate(a, b)
	if err != nil {
		log.Fatalf("Failed to compare images: %v", err)
	}

	writeReport(os.Stdout, report)

	if diffOutput != "" {
		path, err := putHeatmap(context.Background(), diffOutput, diffFormat, pathA, pathB, a, b)
		if err != nil {
			log.Fatalf("Failed to save diff image: %v", err)
		}
		fmt.Printf("diff image: %s\n", path)
	}
}

func loadGray(path string) (*pnm.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	image, err := pnm.ParseGray(data)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", path, err)
	}
	return image, nil
}

func writeReport(w io.Writer, report *raster.GrayReport) {
	if report.MaxValueMismatch {
		fmt.Fprintln(w, "Warning: maxval differs, continuing comparison")
	}
	fmt.Fprintf(w, "max diff %d, min diff %d, avg diff %.4f, mismatched samples %d\n", report.MaxDiff, report.MinDiff, report.AvgDiff, report.Mismatched)
	for i, example := range report.Examples {
		fmt.Fprintf(w, "  example %d: idx=%d valA=%d valB=%d diff=%d\n", i, example.Index, example.A, example.B, example.Diff)
	}
}

func putHeatmap(ctx context.Context, directory string, format string, pathA string, pathB string, a *pnm.Gray, b *pnm.Gray) (string, error) {
	s, err := storage.NewFileStorage(ctx, storage.FileConfig{
		Directory: directory,
	})
	if err != nil {
		return "", xerrors.Errorf("failed to create storage backend: %w", err)
	}

	img, err := raster.NewHeatmap(0).Gray(a, b)
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	if err := raster.Encode(&buffer, img, format); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102150405")
	h := sha256.New()
	h.Write([]byte(pathA + pathB))
	hash := fmt.Sprintf("%x", h.Sum(nil))[:16]

	return s.Put(ctx, fmt.Sprintf("diff/%s/%s.%s", hash, timestamp, format), buffer.Bytes())
}
