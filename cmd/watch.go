package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mediatrace/internal/api"
	"mediatrace/internal/browser"
	"mediatrace/internal/classifier"
	"mediatrace/internal/config"
	"mediatrace/internal/keyboard"
	"mediatrace/internal/monitor"
	"mediatrace/internal/registry"
	"mediatrace/internal/tracker"
	"mediatrace/internal/worker"
	"mediatrace/pkg/domain"
	"mediatrace/pkg/logger"
	"mediatrace/pkg/metrics"
)

func setupServer(ctx context.Context, cfg *config.Config, gatherer prometheus.Gatherer) func(ctx context.Context) {
	if !cfg.Metrics.Enabled {
		return func(context.Context) {}
	}

	server := api.NewServer(api.Options{
		Addr:              cfg.Metrics.Addr,
		ReadHeaderTimeout: cfg.Metrics.ReadHeaderTimeout,
		MetricsPath:       cfg.Metrics.Path,
		Pprof:             cfg.Metrics.Pprof,
		Gatherer:          gatherer,
	})

	go func() {
		logger.Info(ctx, "starting metrics webserver...", zap.String("addr", cfg.Metrics.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start metrics webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping metrics webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop metrics webserver", zap.Error(err))
		}
	}
}

func setupMetrics(ctx context.Context) (*metrics.Metrics, *prometheus.Registry, func(ctx context.Context)) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewProvider(reg)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}
	m, err := metrics.New(mp)
	if err != nil {
		logger.Fatal(ctx, "could not create metrics", zap.Error(err))
	}

	return m, reg, func(ctx context.Context) {
		if err := mp.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not shut down meter provider", zap.Error(err))
		}
	}
}

func orDefault(list, def []string) []string {
	if len(list) == 0 {
		return def
	}

	return list
}

// newMonitor seeds the registry from storage and assembles the classification
// pipeline described by cfg.
func newMonitor(
	ctx context.Context,
	cfg *config.Config,
	reg *registry.Registry,
	persister monitor.Persister,
	m *metrics.Metrics,
	out io.Writer,
) (*monitor.Monitor, error) {
	filter, err := classifier.NewFilter(reg, classifier.FilterOptions{
		Mode:              cfg.Filter.Mode,
		SkipHosts:         cfg.Filter.SkipHosts,
		RejectExtensions:  cfg.Filter.RejectExtensions,
		ReferencePatterns: cfg.Filter.ReferencePatterns,
		RequiredSegments:  cfg.Filter.RequiredSegments,
		VideoExtensions:   cfg.Filter.VideoExtensions,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create request filter: %w", err)
	}

	policy, err := classifier.NewPolicy(cfg.Classifier.Policy, cfg.Classifier.SizeThreshold)
	if err != nil {
		return nil, fmt.Errorf("could not create classification policy: %w", err)
	}

	tr := tracker.New(tracker.Options{
		TTL:        cfg.Tracker.TTL,
		MaxEntries: cfg.Tracker.MaxEntries,
	})

	logger.Debug(ctx, "classification pipeline ready",
		zap.String("mode", cfg.Filter.Mode), zap.String("policy", policy.Name()))

	return monitor.New(reg, tr, filter, persister, monitor.Options{
		Classifier: classifier.Options{
			MIMETypes: cfg.Classifier.MIMETypes,
			Policy:    policy,
		},
		SweepInterval: cfg.Tracker.SweepInterval,
		ExportDir:     cfg.Export.Dir,
		ExportFormat:  cfg.Export.Format,
		Out:           out,
		Metrics:       m,
	}), nil
}

func watchCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Opens a monitored browser session and learns video domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithFields(ctx, zap.String("session", uuid.NewString()))

			m, gatherer, stopMetrics := setupMetrics(ctx)
			stopWebserver := setupServer(ctx, cfg, gatherer)

			strg, closeStrg := getStorage(ctx, cfg)
			defer closeStrg()

			reg := registry.New(orDefault(cfg.Filter.IgnoreHosts, classifier.DefaultIgnoreHosts))
			reg.Seed(
				loadDomains(ctx, strg, domain.KindVideo),
				loadDomains(ctx, strg, domain.KindAudio),
				orDefault(cfg.Classifier.ReferenceVideoHosts, classifier.DefaultReferenceVideoHosts),
			)

			writer := worker.NewWriter(ctx, strg, worker.WriterOptions{
				QueueSize:    cfg.Storage.QueueSize,
				WriteTimeout: cfg.Storage.WriteTimeout,
				Metrics:      m,
			})

			var (
				out  io.Writer = os.Stdout
				keys <-chan rune
			)
			kb, err := keyboard.Open(os.Stdin, monitor.KeyQuit)
			if err != nil {
				logger.Warn(ctx, "keyboard commands unavailable", zap.Error(err))
			} else {
				defer func() {
					if err := kb.Close(); err != nil {
						logger.Warn(ctx, "could not restore terminal", zap.Error(err))
					}
				}()
				keys = kb.Keys()
				if kb.Raw() {
					out = keyboard.CRLF(os.Stdout)
				}
			}

			mon, err := newMonitor(ctx, cfg, reg, writer, m, out)
			if err != nil {
				_ = writer.Close(ctx)

				return err
			}

			session, err := browser.Launch(ctx, browser.Options{
				Bin:          cfg.Browser.Bin,
				Headless:     cfg.Browser.Headless,
				UserDataDir:  cfg.Browser.UserDataDir,
				NoSandbox:    cfg.Browser.NoSandbox,
				StartURL:     cfg.Browser.StartURL,
				CookiesPath:  cfg.Browser.CookiesPath,
				ReplyTimeout: cfg.Browser.ReplyTimeout,
			})
			if err != nil {
				_ = writer.Close(ctx)

				return fmt.Errorf("could not start browser session: %w", err)
			}

			fmt.Fprintln(out, "Monitoring. Press h for help, q to quit.")
			runErr := mon.Run(ctx, session, keys)

			// bounded shutdown of the browser, pending writes and the webserver
			shutdownCtx, cancel := context.WithTimeout(logger.WithLogger(context.Background(), logger.Get(ctx)),
				cfg.GracefulShutdownTimeout)
			defer cancel()

			if err := session.Close(shutdownCtx); err != nil {
				logger.Error(ctx, "could not close browser", zap.Error(err))
			}
			if err := writer.Close(shutdownCtx); err != nil {
				logger.Error(ctx, "could not flush domain writes", zap.Error(err))
			}
			stopWebserver(shutdownCtx)
			stopMetrics(shutdownCtx)

			video, audio := reg.Len()
			logger.Info(ctx, "session finished", zap.Int("videoDomains", video), zap.Int("audioDomains", audio))

			return runErr
		},
	}

	return cmd
}
