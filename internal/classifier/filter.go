package classifier

import (
	"fmt"
	"net/url"
	"strings"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/serrors"
)

// Filter modes.
const (
	// ModeDiscover tracks every request that is not ignored or rejected. It is
	// the only mode that can find previously unknown CDN hosts.
	ModeDiscover = "discover"
	// ModeStrict only tracks requests to reference CDN hosts with a media path
	// and a video extension. Fewer false positives, no discovery.
	ModeStrict = "strict"
)

// IgnoreChecker reports whether a host matches the ignore list.
type IgnoreChecker interface {
	IsIgnored(host string) bool
}

// FilterOptions configure the request filter. Empty lists fall back to the
// package defaults.
type FilterOptions struct {
	// Mode is ModeDiscover or ModeStrict. Empty means ModeDiscover.
	Mode string
	// SkipHosts are host fragments of API/auth endpoints.
	SkipHosts []string
	// RejectExtensions are non-media path suffixes.
	RejectExtensions []string
	// ReferencePatterns are CDN host fragments required by the strict mode.
	ReferencePatterns []string
	// RequiredSegments are path fragments required by the strict mode.
	RequiredSegments []string
	// VideoExtensions are path suffixes required by the strict mode.
	VideoExtensions []string
}

type filter struct {
	ignore           IgnoreChecker
	skipHosts        []string
	rejectExtensions []string
	// strict is nil in discovery mode.
	strict *strictRules
}

type strictRules struct {
	referencePatterns []string
	requiredSegments  []string
	videoExtensions   []string
}

// NewFilter creates the request filter for the configured mode.
func NewFilter(ignore IgnoreChecker, options FilterOptions) (Filter, error) {
	f := &filter{
		ignore:           ignore,
		skipHosts:        orDefault(options.SkipHosts, DefaultSkipHosts),
		rejectExtensions: lower(orDefault(options.RejectExtensions, DefaultRejectExtensions)),
	}

	switch options.Mode {
	case "", ModeDiscover:
	case ModeStrict:
		f.strict = &strictRules{
			referencePatterns: orDefault(options.ReferencePatterns, DefaultReferencePatterns),
			requiredSegments:  lower(orDefault(options.RequiredSegments, DefaultRequiredSegments)),
			videoExtensions:   lower(orDefault(options.VideoExtensions, DefaultVideoExtensions)),
		}
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown filter mode %q", options.Mode)
	}

	return f, nil
}

// Evaluate implements Filter. A URL that cannot be parsed matches no list and
// is rejected.
func (f *filter) Evaluate(rawURL string) domain.Decision {
	u, err := parseHTTPURL(rawURL)
	if err != nil {
		return domain.DecisionReject
	}
	host := u.Hostname()
	p := strings.ToLower(u.Path)

	if f.ignore != nil && f.ignore.IsIgnored(host) {
		return domain.DecisionIgnore
	}
	if containsAny(host, f.skipHosts) || hasAnySuffix(p, f.rejectExtensions) {
		return domain.DecisionReject
	}

	if f.strict != nil {
		if !containsAny(host, f.strict.referencePatterns) ||
			!containsAny(p, f.strict.requiredSegments) ||
			!hasAnySuffix(p, f.strict.videoExtensions) {
			return domain.DecisionReject
		}
	}

	return domain.DecisionCandidate
}

// HostOf returns the host name of rawURL, or "" when it cannot be parsed.
func HostOf(rawURL string) string {
	u, err := parseHTTPURL(rawURL)
	if err != nil {
		return ""
	}

	return u.Hostname()
}

func parseHTTPURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse URL: %w", err)
	}
	if u.Hostname() == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "URL %q has no host", rawURL)
	}

	return u, nil
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(s, f) {
			return true
		}
	}

	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(s, suffix) {
			return true
		}
	}

	return false
}

func lower(list []string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = strings.ToLower(v)
	}

	return out
}
