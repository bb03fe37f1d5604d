package main

import (
	"context"
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/env"
	"decoder-diff/internal/logging"
	"decoder-diff/internal/myhttp"
	"errors"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	pyroscopepprof "github.com/grafana/pyroscope-go/http/pprof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/net/netutil"
	"golang.org/x/xerrors"
)

type Server struct {
	address                string
	terminationGracePeriod time.Duration
	lameduck               time.Duration
	keepAlive              bool
	maxConnections         int
	thresholds             raster.Thresholds
}

func NewServer() *Server {
	return &Server{
		address:                env.OrDefault("ADDRESS", "0.0.0.0:8383"),
		terminationGracePeriod: env.OrDefault("TERMINATION_GRACE_PERIOD", 10*time.Second),
		lameduck:               env.OrDefault("LAMEDUCK", 1*time.Second),
		keepAlive:              env.OrDefault("HTTP_KEEPALIVE", true),
		maxConnections:         env.OrDefault("MAX_CONNECTIONS", 65532),
		thresholds: raster.Thresholds{
			MaxDiffPercent: env.OrDefault("MAX_DIFF_PERCENT", raster.DefaultThresholds().MaxDiffPercent),
			MaxChannelDiff: env.OrDefault("MAX_CHANNEL_DIFF", raster.DefaultThresholds().MaxChannelDiff),
		},
	}
}

var Debug = false

func (s *Server) Start(ctx context.Context) error {
	runtime.SetMutexProfileFraction(1)
	runtime.SetBlockProfileRate(1)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "diff-server",
		ServerAddress:   os.Getenv("PYROSCOPE_ENDPOINT"),
		UploadRate:      60 * time.Second,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return xerrors.Errorf("failed to create profiler: %w", err)
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})

	r, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName("diff-server")),
	)
	if err != nil {
		return xerrors.Errorf("failed to create resource: %w", err)
	}
	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return xerrors.Errorf("failed to create trace exporter: %w", err)
	}
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(r),
		sdktrace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(traceProvider))

	exporter, err := otelprometheus.New()
	if err != nil {
		return xerrors.Errorf("failed to create exporter: %w", err)
	}
	// NOTE: Gauge(UpDownCounter), Summary or Untyped does not support exemplars
	// https://github.com/prometheus/client_golang/blob/v1.20.4/prometheus/metric.go#L200
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)).Meter("diff-server")
	httpRequestsDurationMicroSeconds, err := meter.Int64Histogram("http_requests_duration_micro_seconds")
	if err != nil {
		return xerrors.Errorf("failed to create histogram: %w", err)
	}

	logger, err := logging.New(os.Stderr, Debug)
	if err != nil {
		return xerrors.Errorf("failed to create logger: %w", err)
	}

	mux := myhttp.NewServerMux(logger, httpRequestsDurationMicroSeconds)

	mux.HandleFuncWithMiddleware("POST /compare", s.handleCompare)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
	})

	mux.Handle("GET /metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}),
	))

	if Debug {
		mux.HandleFunc("GET /debug/pprof/", pprof.Index)
		mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
		mux.HandleFunc("GET /debug/pprof/profile", pyroscopepprof.Profile)
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return xerrors.Errorf("failed to listen on address %s: %w", s.address, err)
	}

	server := &http.Server{
		Handler: mux,
	}
	server.SetKeepAlivesEnabled(s.keepAlive)

	go func() {
		if err := server.Serve(netutil.LimitListener(listener, s.maxConnections)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to serve HTTP", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM)
	<-quit
	time.Sleep(s.lameduck)

	ctx, cancel := context.WithTimeout(ctx, s.terminationGracePeriod)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return xerrors.Errorf("failed to shutdown server: %w", err)
	}

	if err := traceProvider.Shutdown(ctx); err != nil {
		return xerrors.Errorf("failed to shutdown trace provider: %w", err)
	}

	if err := profiler.Stop(); err != nil {
		return xerrors.Errorf("failed to shutdown profiler: %w", err)
	}

	return nil
}

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	ctx := context.Background()

	server := NewServer()
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
