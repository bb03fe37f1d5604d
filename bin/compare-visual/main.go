package main

import (
	"bytes"
	"context"
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/env"
	"decoder-diff/internal/logging"
	"decoder-diff/internal/retry"
	"decoder-diff/internal/storage"
	"decoder-diff/internal/visual"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

type CaseOutput struct {
	Name    string              `json:"name"`
	Status  string              `json:"status"`
	Result  *raster.ColorResult `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
	DiffURL string              `json:"diffURL,omitempty"`
}

type SummaryOutput struct {
	Passed int          `json:"passed"`
	Total  int          `json:"total"`
	Cases  []CaseOutput `json:"cases"`
}

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	var directory string
	var storageBackend string
	var cases string
	var baselineSuffix string
	var targetSuffix string
	var maxDiffPercent float64
	var maxChannelDiff int
	var diffFormat string
	var callbackURL string
	flag.StringVar(&directory, "directory", env.OrDefault("DIRECTORY", visual.DefaultDirectory), "Directory holding the decoded test images")
	flag.StringVar(&storageBackend, "storage-backend", env.OrDefault("STORAGE_BACKEND", "file"), "Storage backend (file or s3)")
	flag.StringVar(&cases, "cases", env.OrDefault("CASES", strings.Join(visual.DefaultCaseNames, ",")), "Comma separated test case names")
	flag.StringVar(&baselineSuffix, "baseline-suffix", env.OrDefault("BASELINE_SUFFIX", visual.DefaultBaselineSuffix), "File name suffix of the baseline decoder output")
	flag.StringVar(&targetSuffix, "target-suffix", env.OrDefault("TARGET_SUFFIX", visual.DefaultTargetSuffix), "File name suffix of the reference decoder output")
	flag.Float64Var(&maxDiffPercent, "max-diff-percent", env.OrDefault("MAX_DIFF_PERCENT", raster.DefaultThresholds().MaxDiffPercent), "Largest share of differing pixels that still passes")
	flag.IntVar(&maxChannelDiff, "max-channel-diff", env.OrDefault("MAX_CHANNEL_DIFF", raster.DefaultThresholds().MaxChannelDiff), "Largest channel difference that still passes")
	flag.StringVar(&diffFormat, "diff-format", env.OrDefault("DIFF_FORMAT", ""), "Write diff heat maps in this format (png or ppm, disabled when empty)")
	flag.StringVar(&callbackURL, "callback-url", env.OrDefault("CALLBACK_URL", ""), "Callback URL to send the JSON summary to")

	flag.Parse()

	logger, err := logging.New(os.Stderr, true)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	ctx := context.Background()

	var s storage.Storage
	switch storageBackend {
	case "file":
		s, err = storage.NewFileStorage(ctx, storage.FileConfig{
			Directory: ".",
		})
		if err != nil {
			log.Fatalf("failed to create file storage backend: %v", err)
		}
	case "s3":
		s, err = storage.NewS3Storage(ctx, storage.S3Config{
			Bucket: os.Getenv("S3_BUCKET"),
		})
		if err != nil {
			log.Fatalf("failed to create S3 storage backend: %v", err)
		}
	default:
		log.Fatalf("unknown storage backend: %s", storageBackend)
	}

	config := visual.Config{
		Directory: directory,
		Cases:     visual.NewCases(directory, splitNames(cases), baselineSuffix, targetSuffix),
		Thresholds: raster.Thresholds{
			MaxDiffPercent: maxDiffPercent,
			MaxChannelDiff: maxChannelDiff,
		},
		DiffFormat: diffFormat,
	}

	runner := &visual.Runner{
		Storage: s,
		Logger:  logger,
	}

	summary, err := runner.Run(ctx, config)
	if errors.Is(err, visual.ErrDirectoryNotFound) {
		fmt.Printf("Directory not found: %s\n", directory)
		return
	}
	if err != nil {
		log.Fatalf("failed to run visual comparison: %v", err)
	}

	visual.WriteReport(os.Stdout, directory, summary)

	if callbackURL != "" {
		j, err := json.Marshal(newSummaryOutput(summary))
		if err != nil {
			log.Fatalf("failed to marshal summary: %v", err)
		}
		if err := callback(ctx, callbackURL, j); err != nil {
			log.Fatalf("failed to send callback: %v", err)
		}
	}
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func newSummaryOutput(summary *visual.Summary) *SummaryOutput {
	output := &SummaryOutput{
		Passed: summary.Passed,
		Total:  summary.Total,
		Cases:  make([]CaseOutput, 0, len(summary.Outcomes)),
	}
	for _, o := range summary.Outcomes {
		c := CaseOutput{
			Name:    o.Case.Name,
			Status:  o.Kind.String(),
			Result:  o.Result,
			DiffURL: o.DiffURL,
		}
		if o.Err != nil {
			c.Error = o.Err.Error()
		}
		output.Cases = append(output.Cases, c)
	}
	return output
}

func callback(ctx context.Context, callbackURL string, data []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPatch, callbackURL, bytes.NewReader(data))
	if err != nil {
		return xerrors.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &retry.Transport{
			Base:    http.DefaultTransport,
			Backoff: retry.NewExponentialBackoff(10*time.Millisecond, 1*time.Second, 3, nil),
			Policy:  retry.DefaultPolicy(),
		},
	}

	response, err := client.Do(request)
	if err != nil {
		return xerrors.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return xerrors.Errorf("unexpected callback status: %s", response.Status)
	}
	return nil
}
