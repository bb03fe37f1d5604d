package main

import (
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/myhttp"
	"decoder-diff/internal/pnm"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/xerrors"
)

const (
	FormatPGM = "pgm"
	FormatPPM = "ppm"
)

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	logger := myhttp.LoggerFrom(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = FormatPGM
	}

	baselineData, err := readFormFile(r, "baseline")
	if err != nil {
		logger.Debug("failed to read baseline", "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	targetData, err := readFormFile(r, "target")
	if err != nil {
		logger.Debug("failed to read target", "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var response any
	switch format {
	case FormatPGM:
		baseline, err := pnm.ParseGray(baselineData)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target, err := pnm.ParseGray(targetData)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		report, err := raster.NewGrayDiff(raster.DefaultMaxExamples).Calculate(baseline, target)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if report.MaxValueMismatch {
			logger.Warn("maximum values differ", "baseline", baseline.Header.MaxValue, "target", target.Header.MaxValue)
		}
		response = report

	case FormatPPM:
		baseline, err := pnm.ParseColor(baselineData)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target, err := pnm.ParseColor(targetData)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result := raster.NewColorDiff(s.thresholds).Calculate(baseline, target)
		if result.Truncated {
			logger.Warn("payload sizes differ, compared the common prefix", "baseline", len(baseline.Pix), "target", len(target.Pix))
		}
		response = result

	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func readFormFile(r *http.Request, key string) ([]byte, error) {
	file, _, err := r.FormFile(key)
	if err != nil {
		return nil, xerrors.Errorf("failed to get form file %s: %w", key, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, xerrors.Errorf("failed to read form file %s: %w", key, err)
	}
	return data, nil
}
