package classifier

import (
	"net/http"
	"strconv"
	"strings"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/serrors"
)

// Policy names.
const (
	// PolicySize splits video-typed responses into video and audio by size.
	PolicySize = "size"
	// PolicyPattern trusts the content type alone.
	PolicyPattern = "pattern"
)

// NewPolicy returns the policy registered under name. Empty means PolicySize.
func NewPolicy(name string, threshold int64) (Policy, error) {
	switch name {
	case "", PolicySize:
		if threshold <= 0 {
			threshold = DefaultSizeThreshold
		}

		return SizePolicy{Threshold: threshold}, nil
	case PolicyPattern:
		return PatternPolicy{}, nil
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown classification policy %q", name)
	}
}

// SizePolicy confirms video when the resource is larger than Threshold bytes
// and audio otherwise. Servers label short audio fragments with video types,
// size is what tells them apart. Responses with no usable size are
// inconclusive.
type SizePolicy struct {
	Threshold int64
}

// Name implements Policy.
func (p SizePolicy) Name() string { return PolicySize }

// Decide implements Policy.
func (p SizePolicy) Decide(resp domain.Response) domain.Verdict {
	if isPlaylist(resp.Header.Get("Content-Type")) {
		return domain.VerdictVideo
	}

	size, ok := ResourceSize(resp.Header)
	if !ok {
		return domain.VerdictInconclusive
	}
	if size > p.Threshold {
		return domain.VerdictVideo
	}

	return domain.VerdictAudio
}

// PatternPolicy confirms video for every accepted content type.
type PatternPolicy struct{}

// Name implements Policy.
func (PatternPolicy) Name() string { return PolicyPattern }

// Decide implements Policy.
func (PatternPolicy) Decide(domain.Response) domain.Verdict { return domain.VerdictVideo }

// ResourceSize returns the full size of the resource a response belongs to.
// For partial content the total from Content-Range ("bytes 0-1023/80000000")
// is preferred over Content-Length, which only covers the returned range.
func ResourceSize(h http.Header) (int64, bool) {
	if cr := h.Get("Content-Range"); cr != "" {
		if i := strings.LastIndexByte(cr, '/'); i >= 0 {
			if total, err := strconv.ParseInt(strings.TrimSpace(cr[i+1:]), 10, 64); err == nil && total >= 0 {
				return total, true
			}
		}
	}

	cl := strings.TrimSpace(h.Get("Content-Length"))
	if cl == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(cl, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

func isPlaylist(contentType string) bool {
	return containsAny(strings.ToLower(contentType), PlaylistMIMETypes)
}
