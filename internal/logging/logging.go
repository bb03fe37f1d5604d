package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/xerrors"
)

// New builds the process logger. Records are JSON with OpenTelemetry log data
// model keys unless text is set. GO_LOG overrides the level.
func New(w io.Writer, text bool) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("GO_LOG"); ok {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, xerrors.Errorf("failed to parse log level: %w", err)
		}
	}

	handlerOpts := &slog.HandlerOptions{
		Level: logLevel,
		// https://opentelemetry.io/docs/specs/otel/logs/data-model/
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				a.Key = "severitytext"
			case slog.MessageKey:
				a.Key = "body"
			}
			return a
		},
	}

	if text {
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
}
