package classifier

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mediatrace/internal/registry"
	"mediatrace/internal/tracker"
	"mediatrace/pkg/domain"
	"mediatrace/pkg/logger"
)

// Result is the outcome of classifying one response.
type Result struct {
	// Verdict is the classification of the response.
	Verdict domain.Verdict
	// Host is the response host, empty when the URL could not be parsed.
	Host string
	// Tracked is false when the response URL was not an active candidate.
	Tracked bool
	// Known is set when the verdict came from the registry without inspecting the response.
	Known bool
	// Promoted is set when the registry changed.
	Promoted bool
}

// Options configure a Classifier.
type Options struct {
	// MIMETypes are accepted content-type fragments. Empty means DefaultVideoMIMETypes.
	MIMETypes []string
	// Policy settles verdicts for unknown hosts. Nil means SizePolicy with the default threshold.
	Policy Policy
}

// Classifier confirms candidates at response time and promotes their hosts
// in the registry.
type Classifier struct {
	registry  *registry.Registry
	tracker   *tracker.Tracker
	sink      Sink
	mimeTypes []string
	policy    Policy
}

// New creates a classifier over the given registry and tracker. sink may be nil.
func New(reg *registry.Registry, tr *tracker.Tracker, sink Sink, options Options) *Classifier {
	policy := options.Policy
	if policy == nil {
		policy = SizePolicy{Threshold: DefaultSizeThreshold}
	}

	return &Classifier{
		registry:  reg,
		tracker:   tr,
		sink:      sink,
		mimeTypes: lower(orDefault(options.MIMETypes, DefaultVideoMIMETypes)),
		policy:    policy,
	}
}

// Classify settles a response. Responses whose URL is not an active candidate
// are inconclusive and leave every state untouched; for all others the
// candidate is resolved whatever the verdict.
//
// Audio hosts stay audio: a host in the audio set is never reclassified.
func (c *Classifier) Classify(ctx context.Context, resp domain.Response) Result {
	if !c.tracker.Resolve(resp.URL) {
		return Result{Verdict: domain.VerdictInconclusive}
	}

	res := Result{Verdict: domain.VerdictInconclusive, Host: HostOf(resp.URL), Tracked: true}
	if res.Host == "" {
		return res
	}

	if c.registry.IsAudio(res.Host) {
		return res
	}
	if c.registry.IsVideo(res.Host) {
		res.Verdict, res.Known = domain.VerdictVideo, true
		if c.registry.FirstLog(res.Host) {
			logger.Info(ctx, "known video domain seen", zap.String("host", res.Host))
		}

		return res
	}

	if resp.Status != http.StatusOK && resp.Status != http.StatusPartialContent {
		return res
	}
	if !c.acceptsMIME(resp.Header.Get("Content-Type")) {
		return res
	}

	res.Verdict = c.policy.Decide(resp)

	var kind domain.Kind
	switch res.Verdict {
	case domain.VerdictVideo:
		kind = domain.KindVideo
	case domain.VerdictAudio:
		kind = domain.KindAudio
	default:
		return res
	}

	res.Promoted = c.registry.Promote(res.Host, kind)
	if res.Promoted {
		c.registry.FirstLog(res.Host)
		if c.sink != nil {
			c.sink.Promoted(ctx, res.Host, kind, c.registry.SnapshotOf(kind))
		}
	}

	return res
}

// Policy returns the active policy.
func (c *Classifier) Policy() Policy { return c.policy }

func (c *Classifier) acceptsMIME(contentType string) bool {
	if contentType == "" {
		return false
	}

	return containsAny(strings.ToLower(contentType), c.mimeTypes)
}
