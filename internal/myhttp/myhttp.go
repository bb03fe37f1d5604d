package myhttp

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
)

func NewServerMux(logger *slog.Logger, httpRequestsDurationMicroSeconds metric.Int64Histogram) *Router {
	return &Router{
		ServeMux:                         http.NewServeMux(),
		logger:                           logger,
		httpRequestsDurationMicroSeconds: httpRequestsDurationMicroSeconds,
	}
}
