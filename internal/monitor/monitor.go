// Package monitor runs a classification session: a single event loop that
// feeds intercepted traffic through the request filter, the candidate tracker
// and the response classifier, and serves keyboard commands.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"mediatrace/internal/classifier"
	"mediatrace/internal/registry"
	"mediatrace/internal/report"
	"mediatrace/internal/tracker"
	"mediatrace/pkg/domain"
	"mediatrace/pkg/logger"
	"mediatrace/pkg/metrics"
	"mediatrace/pkg/serrors"
)

const DefaultSweepInterval = 30 * time.Second

// Keyboard commands.
const (
	KeyReport = 'r'
	KeyExport = 'e'
	KeyQuit   = 'q'
	KeyHelp   = 'h'
)

const helpText = `Commands:
  r  print confirmed video domains
  e  export confirmed video domains
  q  quit
  h  show this help
`

// Source is the browser side of a session.
type Source interface {
	Requests() <-chan domain.Intercepted
	Responses() <-chan domain.Response
	Failures() <-chan domain.Failure
	Navigations() <-chan domain.Navigation
	// Fatal yields an error when the browser crashed or disconnected.
	Fatal() <-chan error
}

// Persister queues domain list snapshots for storage.
type Persister interface {
	Enqueue(ctx context.Context, kind domain.Kind, domains []string) error
}

type Options struct {
	Classifier    classifier.Options
	SweepInterval time.Duration
	// ExportDir and ExportFormat select where the export key writes.
	ExportDir    string
	ExportFormat string
	// Out receives console output. Defaults to io.Discard.
	Out     io.Writer
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Monitor owns the registry and the tracker of a session. All of its state is
// touched from the goroutine running Run only.
type Monitor struct {
	registry   *registry.Registry
	tracker    *tracker.Tracker
	filter     classifier.Filter
	classifier *classifier.Classifier
	persister  Persister

	metrics       *metrics.Metrics
	out           io.Writer
	sweepInterval time.Duration
	exportDir     string
	exportFormat  string
	now           func() time.Time

	candidates int
}

// New assembles a monitor. The classifier is created internally and reports
// promotions back to the monitor.
func New(reg *registry.Registry, tr *tracker.Tracker, filter classifier.Filter, persister Persister, options Options) *Monitor {
	m := &Monitor{
		registry:      reg,
		tracker:       tr,
		filter:        filter,
		persister:     persister,
		metrics:       options.Metrics,
		out:           options.Out,
		sweepInterval: options.SweepInterval,
		exportDir:     options.ExportDir,
		exportFormat:  options.ExportFormat,
		now:           options.Now,
	}
	if m.metrics == nil {
		m.metrics = metrics.Noop()
	}
	if m.out == nil {
		m.out = io.Discard
	}
	if m.sweepInterval <= 0 {
		m.sweepInterval = DefaultSweepInterval
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.classifier = classifier.New(reg, tr, m, options.Classifier)

	return m
}

// Run processes events until ctx is done, the quit key is pressed or the
// source reports a fatal error. Intercepted requests are always resolved.
func (m *Monitor) Run(ctx context.Context, source Source, keys <-chan rune) error {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	requests, responses := source.Requests(), source.Responses()
	failures, navigations := source.Failures(), source.Navigations()
	fatal := source.Fatal()

	video, audio := m.registry.Len()
	logger.Info(ctx, "monitoring started",
		zap.Int("videoDomains", video), zap.Int("audioDomains", audio),
		zap.String("policy", m.classifier.Policy().Name()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-fatal:
			return serrors.Wrap(serrors.ErrUnavailable, err, "browser session ended")
		case req, ok := <-requests:
			if !ok {
				requests = nil

				continue
			}
			m.safely(ctx, "request", func() { m.onRequest(ctx, req) })
		case resp, ok := <-responses:
			if !ok {
				responses = nil

				continue
			}
			m.safely(ctx, "response", func() { m.onResponse(ctx, resp) })
		case f, ok := <-failures:
			if !ok {
				failures = nil

				continue
			}
			m.safely(ctx, "failure", func() { m.onFailure(ctx, f) })
		case nav, ok := <-navigations:
			if !ok {
				navigations = nil

				continue
			}
			m.safely(ctx, "navigation", func() { m.onNavigation(ctx, nav) })
		case <-ticker.C:
			m.safely(ctx, "sweep", func() { m.sweep(ctx) })
		case key, ok := <-keys:
			if !ok {
				keys = nil

				continue
			}
			quit := false
			m.safely(ctx, "key", func() { quit = m.onKey(ctx, key) })
			if quit {
				logger.Info(ctx, "quit requested")

				return nil
			}
		}
	}
}

// Registry exposes the registry for reporting after Run returns.
func (m *Monitor) Registry() *registry.Registry { return m.registry }

func (m *Monitor) safely(ctx context.Context, event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "event handler panicked",
				zap.String("event", event), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()

	fn()
	m.syncCandidates(ctx)
}

func (m *Monitor) onRequest(ctx context.Context, req domain.Intercepted) {
	// Continue unless the filter says otherwise, also when it panics.
	decision := domain.DecisionReject
	defer func() { req.Resolve(decision) }()

	decision = m.filter.Evaluate(req.URL)
	m.metrics.Decision(ctx, decision)

	if decision == domain.DecisionCandidate && !m.tracker.Mark(req.URL) {
		logger.Warn(ctx, "candidate tracker is full, request not tracked",
			zap.String("url", req.URL), zap.Int("tracked", m.tracker.Len()))
	}
}

func (m *Monitor) onResponse(ctx context.Context, resp domain.Response) {
	res := m.classifier.Classify(ctx, resp)
	if !res.Tracked {
		return
	}
	m.metrics.Verdict(ctx, res.Verdict)

	if logger.IsDebug(ctx) {
		logger.Debug(ctx, "response classified",
			zap.String("url", resp.URL), zap.Int("status", resp.Status),
			zap.String("verdict", string(res.Verdict)), zap.Bool("known", res.Known))
	}
}

func (m *Monitor) onFailure(ctx context.Context, f domain.Failure) {
	if m.tracker.Resolve(f.URL) {
		m.metrics.Evicted(ctx, "failed", 1)
		logger.Debug(ctx, "candidate request failed",
			zap.String("url", f.URL), zap.String("reason", f.Reason), zap.Bool("canceled", f.Canceled))
	}
}

func (m *Monitor) onNavigation(ctx context.Context, nav domain.Navigation) {
	at := nav.At
	if at.IsZero() {
		at = m.now()
	}

	n := m.tracker.EvictBefore(at)
	m.metrics.Evicted(ctx, "navigated", n)
	logger.Debug(ctx, "page navigated", zap.String("url", nav.URL), zap.Int("evicted", n))
}

func (m *Monitor) sweep(ctx context.Context) {
	if n := m.tracker.Sweep(); n > 0 {
		m.metrics.Evicted(ctx, "expired", n)
		logger.Debug(ctx, "expired candidates evicted", zap.Int("evicted", n))
	}
}

func (m *Monitor) onKey(ctx context.Context, key rune) bool {
	switch key {
	case KeyReport, 'R':
		if err := report.Console(m.out, m.registry.Snapshot()); err != nil {
			logger.Error(ctx, "could not print report", zap.Error(err))
		}
	case KeyExport, 'E':
		m.export(ctx)
	case KeyQuit, 'Q':
		return true
	case KeyHelp, 'H', '?':
		fmt.Fprint(m.out, helpText)
	}

	return false
}

func (m *Monitor) export(ctx context.Context) {
	path := report.FileName(m.exportDir, m.exportFormat, m.now())

	err := report.Export(path, m.registry.Snapshot())
	switch {
	case errors.Is(err, serrors.ErrEmpty):
		fmt.Fprintln(m.out, "Nothing to export.")
	case err != nil:
		logger.Error(ctx, "could not export domains", zap.String("path", path), zap.Error(err))
		fmt.Fprintln(m.out, "Export failed, see log.")
	default:
		fmt.Fprintf(m.out, "Exported to %s\n", path)
	}
}

// Promoted persists the new snapshot and announces new video domains.
func (m *Monitor) Promoted(ctx context.Context, host string, kind domain.Kind, snapshot []string) {
	logger.Info(ctx, "domain promoted", zap.String("host", host), zap.String("kind", string(kind)))
	if kind == domain.KindVideo {
		fmt.Fprintf(m.out, "New video domain: %s (%d total)\n", host, len(snapshot))
	}

	if m.persister == nil {
		return
	}
	if err := m.persister.Enqueue(ctx, kind, snapshot); err != nil {
		logger.Error(ctx, "could not queue domain write", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (m *Monitor) syncCandidates(ctx context.Context) {
	n := m.tracker.Len()
	m.metrics.Candidates(ctx, n-m.candidates)
	m.candidates = n
}
