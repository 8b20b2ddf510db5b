package domain

import (
	"net/http"
	"time"
)

// Decision is the outcome of the request-time filter.
type Decision string

const (
	// DecisionIgnore means the request targets an analytics/ads host and is aborted.
	DecisionIgnore Decision = "IGNORE"
	// DecisionReject means the request is allowed on the network but not tracked.
	DecisionReject Decision = "REJECT"
	// DecisionCandidate means the request is tracked until its response is classified.
	DecisionCandidate Decision = "CANDIDATE"
)

// Verdict is the outcome of the response-time classifier.
type Verdict string

const (
	// VerdictVideo means the response host serves video.
	VerdictVideo Verdict = "CONFIRMED_VIDEO"
	// VerdictAudio means the response host serves audio fragments.
	VerdictAudio Verdict = "CONFIRMED_AUDIO"
	// VerdictInconclusive means the response gave no usable evidence.
	VerdictInconclusive Verdict = "INCONCLUSIVE"
)

// Kind names a set of the domain registry.
type Kind string

const (
	// KindVideo is the confirmed video domain set.
	KindVideo Kind = "video"
	// KindAudio is the confirmed audio domain set.
	KindAudio Kind = "audio"
)

// Request is an outgoing network request paused by the browser.
type Request struct {
	// URL is the full request URL.
	URL string
	// Method is the HTTP method.
	Method string
	// ResourceType is the browser resource type (Media, XHR, Fetch, ...), may be empty.
	ResourceType string
}

// Response is a completed response observed for a request.
type Response struct {
	// URL is the URL of the originating request.
	URL string
	// Status is the HTTP status code.
	Status int
	// Header holds the response headers. Lookups are case-insensitive.
	Header http.Header
}

// Failure is a request that ended without a usable response.
type Failure struct {
	// URL is the URL of the failed request.
	URL string
	// Reason is the browser-reported error text.
	Reason string
	// Canceled is set when the request was aborted rather than failed.
	Canceled bool
}

// Navigation is a main-frame navigation of the monitored page.
type Navigation struct {
	// URL is the new document URL.
	URL string
	// At is the time the navigation was observed.
	At time.Time
}

// Intercepted is a paused request waiting for a filter decision. The browser
// side holds the channel returned by NewIntercepted and continues or aborts
// the request once a decision arrives.
type Intercepted struct {
	Request

	reply chan Decision
}

// NewIntercepted wraps req and returns the channel its decision is delivered on.
func NewIntercepted(req Request) (Intercepted, <-chan Decision) {
	reply := make(chan Decision, 1)

	return Intercepted{Request: req, reply: reply}, reply
}

// Resolve delivers d. Only the first call has an effect.
func (i Intercepted) Resolve(d Decision) bool {
	if i.reply == nil {
		return false
	}

	select {
	case i.reply <- d:
		return true
	default:
		return false
	}
}
