// Package api exposes the metrics, health and profiling endpoints of a
// monitoring session.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediatrace/pkg/controller"
)

// Options holds configuration for the HTTP server.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. "127.0.0.1:9464".
	Addr string
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// Pprof mounts net/http/pprof under /debug/pprof/.
	Pprof bool
	// Gatherer is the registry scraped at MetricsPath. Nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NewServer wires up the metrics endpoint, /healthz and optionally pprof,
// wrapped in the logging middleware.
func NewServer(opts Options) *http.Server {
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", controller.Health(time.Now()))
	if opts.Pprof {
		mux.Handle("/debug/pprof/", controller.PprofMux())
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           controller.WithLogger(mux),
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
}
