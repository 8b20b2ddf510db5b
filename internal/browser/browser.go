// Package browser drives a Chrome session through go-rod and turns its
// network traffic into the events consumed by the monitor.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/logger"
	"mediatrace/pkg/serrors"
)

const (
	DefaultReplyTimeout = 5 * time.Second
	DefaultBufferSize   = 256
)

// ErrDisconnected is reported on Fatal when the browser goes away.
var ErrDisconnected = errors.New("browser disconnected")

type Options struct {
	// Bin is the browser executable. Empty lets go-rod find or download one.
	Bin      string
	Headless bool
	// UserDataDir keeps the browser profile between runs when set.
	UserDataDir string
	NoSandbox   bool
	// StartURL is opened once interception is in place.
	StartURL string
	// CookiesPath is loaded on launch and written on Close when set.
	CookiesPath string
	// ReplyTimeout bounds how long a paused request waits for a decision
	// before it is continued.
	ReplyTimeout time.Duration
	BufferSize   int
}

// Session is a launched browser with one monitored page. It implements the
// event source of the monitor.
type Session struct {
	options  Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter

	requests    chan domain.Intercepted
	responses   chan domain.Response
	failures    chan domain.Failure
	navigations chan domain.Navigation
	fatal       chan error

	// ids maps a network request ID to its URL until the request settles.
	mu  sync.Mutex
	ids map[proto.NetworkRequestID]string

	closing atomic.Bool
	// done is closed by Close and unblocks pending event sends.
	done      chan struct{}
	closeOnce sync.Once
}

// Launch starts the browser, installs request interception and opens the
// start page.
func Launch(ctx context.Context, options Options) (*Session, error) {
	if options.ReplyTimeout <= 0 {
		options.ReplyTimeout = DefaultReplyTimeout
	}
	if options.BufferSize <= 0 {
		options.BufferSize = DefaultBufferSize
	}

	s := &Session{
		options:     options,
		requests:    make(chan domain.Intercepted, options.BufferSize),
		responses:   make(chan domain.Response, options.BufferSize),
		failures:    make(chan domain.Failure, options.BufferSize),
		navigations: make(chan domain.Navigation, options.BufferSize),
		fatal:       make(chan error, 1),
		ids:         make(map[proto.NetworkRequestID]string),
		done:        make(chan struct{}),
	}

	l := launcher.New().
		Headless(options.Headless).
		Set("autoplay-policy", "no-user-gesture-required").
		Logger(logger.Std(ctx, slog.LevelDebug).Writer())
	if options.Bin != "" {
		l = l.Bin(options.Bin)
	}
	if options.UserDataDir != "" {
		l = l.UserDataDir(options.UserDataDir)
	}
	if options.NoSandbox {
		l = l.Set("no-sandbox")
	}
	s.launcher = l

	controlURL, err := l.Launch()
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not launch browser")
	}

	s.browser = rod.New().
		ControlURL(controlURL).
		Logger(logger.Std(ctx, slog.LevelDebug))
	if err := s.browser.Connect(); err != nil {
		l.Kill()

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "could not connect to browser")
	}

	if err := s.setup(ctx); err != nil {
		_ = s.browser.Close()
		l.Kill()

		return nil, err
	}

	return s, nil
}

func (s *Session) setup(ctx context.Context) error {
	if s.options.CookiesPath != "" {
		cookies, err := LoadCookies(s.options.CookiesPath)
		if err != nil {
			logger.Warn(ctx, "could not load cookies, starting without them", zap.Error(err))
		} else if len(cookies) > 0 {
			if err := s.browser.SetCookies(proto.CookiesToParams(cookies)); err != nil {
				logger.Warn(ctx, "could not restore cookies", zap.Error(err))
			} else {
				logger.Info(ctx, "cookies restored", zap.Int("count", len(cookies)))
			}
		}
	}

	s.router = s.browser.HijackRequests()
	if err := s.router.Add("*", "", func(h *rod.Hijack) { s.intercept(ctx, h) }); err != nil {
		return fmt.Errorf("could not install request interception: %w", err)
	}
	go s.router.Run()

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not open page")
	}
	s.page = page

	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return fmt.Errorf("could not enable network events: %w", err)
	}

	wait := page.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) { s.remember(e.RequestID, e.Request.URL) },
		func(e *proto.NetworkResponseReceived) { s.onResponse(e) },
		func(e *proto.NetworkLoadingFinished) { s.forget(e.RequestID) },
		func(e *proto.NetworkLoadingFailed) { s.onFailure(e) },
		func(e *proto.PageFrameNavigated) { s.onNavigation(e) },
		func(e *proto.InspectorTargetCrashed) bool {
			s.reportFatal(errors.New("page crashed"))

			return true
		},
	)
	go func() {
		wait()
		s.reportFatal(ErrDisconnected)
	}()

	if s.options.StartURL != "" {
		if err := page.Navigate(s.options.StartURL); err != nil {
			return fmt.Errorf("could not open %s: %w", s.options.StartURL, err)
		}
	}

	return nil
}

func (s *Session) Requests() <-chan domain.Intercepted   { return s.requests }
func (s *Session) Responses() <-chan domain.Response     { return s.responses }
func (s *Session) Failures() <-chan domain.Failure       { return s.failures }
func (s *Session) Navigations() <-chan domain.Navigation { return s.navigations }
func (s *Session) Fatal() <-chan error                   { return s.fatal }

// intercept hands a paused request to the monitor and applies its decision.
// Every request is continued unless the decision is to ignore it.
func (s *Session) intercept(ctx context.Context, h *rod.Hijack) {
	req, reply := domain.NewIntercepted(domain.Request{
		URL:          canonicalURL(h.Request.URL().String()),
		Method:       h.Request.Method(),
		ResourceType: string(h.Request.Type()),
	})

	decision := domain.DecisionReject
	if send(s.done, s.requests, req) {
		decision = Await(reply, s.options.ReplyTimeout)
	}

	if decision == domain.DecisionIgnore {
		h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)

		return
	}
	h.ContinueRequest(&proto.FetchContinueRequest{})

	if logger.IsDebug(ctx) && decision == domain.DecisionCandidate {
		logger.Debug(ctx, "candidate request", zap.String("url", req.URL))
	}
}

func (s *Session) remember(id proto.NetworkRequestID, rawURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = canonicalURL(rawURL)
}

func (s *Session) forget(id proto.NetworkRequestID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ids[id]
	delete(s.ids, id)

	return u
}

func (s *Session) lookup(id proto.NetworkRequestID) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ids[id]
}

func (s *Session) onResponse(e *proto.NetworkResponseReceived) {
	if e.Response == nil {
		return
	}

	u := s.lookup(e.RequestID)
	if u == "" {
		u = canonicalURL(e.Response.URL)
	}
	send(s.done, s.responses, domain.Response{
		URL:    u,
		Status: e.Response.Status,
		Header: Header(e.Response.Headers),
	})
}

func (s *Session) onFailure(e *proto.NetworkLoadingFailed) {
	u := s.forget(e.RequestID)
	if u == "" {
		return
	}
	send(s.done, s.failures, domain.Failure{URL: u, Reason: e.ErrorText, Canceled: e.Canceled})
}

func (s *Session) onNavigation(e *proto.PageFrameNavigated) {
	if e.Frame == nil || e.Frame.ParentID != "" {
		return
	}
	send(s.done, s.navigations, domain.Navigation{URL: e.Frame.URL, At: time.Now()})
}

func (s *Session) reportFatal(err error) {
	if s.closing.Load() {
		return
	}
	select {
	case s.fatal <- err:
	default:
	}
}

// Close saves cookies and shuts the browser down. It gives up when ctx ends
// and kills the browser process.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		close(s.done)

		finished := make(chan error, 1)
		go func() { finished <- s.shutdown(ctx) }()

		select {
		case err = <-finished:
		case <-ctx.Done():
			err = serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "browser did not close in time")
		}
		s.launcher.Kill()
	})

	return err
}

func (s *Session) shutdown(ctx context.Context) error {
	if s.options.CookiesPath != "" {
		cookies, err := s.browser.GetCookies()
		if err != nil {
			logger.Warn(ctx, "could not read cookies", zap.Error(err))
		} else if err := SaveCookies(s.options.CookiesPath, cookies); err != nil {
			logger.Warn(ctx, "could not save cookies", zap.Error(err))
		}
	}

	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			logger.Debug(ctx, "could not stop request interception", zap.Error(err))
		}
	}
	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("could not close browser: %w", err)
	}

	return nil
}

// Await waits for a decision on reply. A missing decision continues the request.
func Await(reply <-chan domain.Decision, timeout time.Duration) domain.Decision {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case d := <-reply:
		return d
	case <-timer.C:
		return domain.DecisionReject
	}
}

// Header converts CDP headers to an http.Header.
func Header(headers proto.NetworkHeaders) http.Header {
	h := make(http.Header, len(headers))
	for k, v := range headers {
		h.Set(k, v.Str())
	}

	return h
}

// canonicalURL renders rawURL the way net/url does so the hijack and the
// network events agree on the tracker key.
func canonicalURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return u.String()
}

// send delivers v unless done is closed.
func send[T any](done <-chan struct{}, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-done:
		return false
	}
}
