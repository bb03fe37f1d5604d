package visual

import (
	"bytes"
	"context"
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/pnm"
	"decoder-diff/internal/storage"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

var ErrDirectoryNotFound = errors.New("directory not found")

type Kind int

const (
	Compared Kind = iota
	Skipped
	Errored
)

func (k Kind) String() string {
	switch k {
	case Compared:
		return "compared"
	case Skipped:
		return "skipped"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Outcome is the result of one case. Result is set for Compared, Err for
// Errored.
type Outcome struct {
	Case    Case
	Kind    Kind
	Result  *raster.ColorResult
	Err     error
	DiffURL string
}

type Summary struct {
	Outcomes []Outcome
	Passed   int
	// Total counts compared cases only.
	Total int
}

type Runner struct {
	Storage storage.Storage
	Logger  *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) Run(ctx context.Context, config Config) (*Summary, error) {
	exists, err := r.Storage.Exists(ctx, config.Directory)
	if err != nil {
		return nil, xerrors.Errorf("failed to check directory %s: %w", config.Directory, err)
	}
	if !exists {
		return nil, xerrors.Errorf("%s: %w", config.Directory, ErrDirectoryNotFound)
	}

	differ := raster.NewColorDiff(config.Thresholds)
	summary := &Summary{}
	for _, c := range config.Cases {
		outcome := r.runCase(ctx, differ, config, c)
		switch outcome.Kind {
		case Compared:
			summary.Total++
			if outcome.Result.Passed {
				summary.Passed++
			}
		case Errored:
			r.logger().Error("failed to compare case", "case", c.Name, "error", outcome.Err)
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	return summary, nil
}

func (r *Runner) runCase(ctx context.Context, differ *raster.ColorDiff, config Config, c Case) Outcome {
	for _, key := range []string{c.Baseline, c.Target} {
		exists, err := r.Storage.Exists(ctx, key)
		if err != nil {
			return Outcome{Case: c, Kind: Errored, Err: err}
		}
		if !exists {
			return Outcome{Case: c, Kind: Skipped}
		}
	}

	baseline, target, err := r.load(ctx, c)
	if err != nil {
		return Outcome{Case: c, Kind: Errored, Err: err}
	}

	result := differ.Calculate(baseline, target)
	if result.Truncated {
		r.logger().Warn("payload lengths differ, compared common prefix only",
			"case", c.Name,
			"baselineDimensions", baseline.Dimensions,
			"targetDimensions", target.Dimensions,
			"baselineBytes", len(baseline.Pix),
			"targetBytes", len(target.Pix),
		)
	}

	outcome := Outcome{Case: c, Kind: Compared, Result: result}
	if config.DiffFormat != "" {
		url, err := r.putHeatmap(ctx, config.Directory, c, baseline, target, config.DiffFormat)
		if err != nil {
			r.logger().Warn("failed to write diff image", "case", c.Name, "error", err)
		} else {
			outcome.DiffURL = url
		}
	}
	return outcome
}

func (r *Runner) load(ctx context.Context, c Case) (*pnm.Color, *pnm.Color, error) {
	var baseline *pnm.Color
	var target *pnm.Color

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		image, err := r.loadColor(ctx, c.Baseline)
		if err != nil {
			return err
		}
		baseline = image
		return nil
	})

	eg.Go(func() error {
		image, err := r.loadColor(ctx, c.Target)
		if err != nil {
			return err
		}
		target = image
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return baseline, target, nil
}

func (r *Runner) loadColor(ctx context.Context, key string) (*pnm.Color, error) {
	data, err := r.Storage.Get(ctx, key)
	if err != nil {
		return nil, xerrors.Errorf("failed to load %s: %w", key, err)
	}
	image, err := pnm.ParseColor(data)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse %s: %w", key, err)
	}
	return image, nil
}

func (r *Runner) putHeatmap(ctx context.Context, directory string, c Case, baseline *pnm.Color, target *pnm.Color, format string) (string, error) {
	img, err := raster.NewHeatmap(0).Color(baseline, target)
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	if err := raster.Encode(&buffer, img, format); err != nil {
		return "", err
	}

	key := path.Join(directory, "diff", fmt.Sprintf("%s.%s", c.Name, format))
	url, err := r.Storage.Put(ctx, key, buffer.Bytes())
	if err != nil {
		return "", xerrors.Errorf("failed to upload diff image: %w", err)
	}
	return url, nil
}
