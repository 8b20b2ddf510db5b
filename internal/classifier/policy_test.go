package classifier_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"mediatrace/internal/classifier"
	"mediatrace/pkg/domain"
)

func header(kv ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}

	return h
}

func TestResourceSize(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		size   int64
		ok     bool
	}{
		{"content length", header("content-length", "1234"), 1234, true},
		{"range total wins", header("Content-Length", "1024", "Content-Range", "bytes 0-1023/80000000"), 80000000, true},
		{"unknown range total falls back", header("Content-Length", "1024", "Content-Range", "bytes 0-1023/*"), 1024, true},
		{"missing", header(), 0, false},
		{"garbage", header("Content-Length", "lots"), 0, false},
		{"negative", header("Content-Length", "-5"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, ok := classifier.ResourceSize(tt.header)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.size, size)
		})
	}
}

func TestSizePolicy(t *testing.T) {
	p := classifier.SizePolicy{Threshold: 1000}

	decide := func(h http.Header) domain.Verdict {
		return p.Decide(domain.Response{Status: http.StatusOK, Header: h})
	}

	require.Equal(t, domain.VerdictVideo, decide(header("Content-Type", "video/mp4", "Content-Length", "1001")))
	require.Equal(t, domain.VerdictAudio, decide(header("Content-Type", "video/mp4", "Content-Length", "1000")))
	require.Equal(t, domain.VerdictInconclusive, decide(header("Content-Type", "video/mp4")))
	require.Equal(t, domain.VerdictVideo, decide(header("Content-Type", "application/vnd.apple.mpegurl", "Content-Length", "300")))
}

func TestNewPolicy(t *testing.T) {
	p, err := classifier.NewPolicy("", 0)
	require.NoError(t, err)
	require.Equal(t, classifier.SizePolicy{Threshold: classifier.DefaultSizeThreshold}, p)

	p, err = classifier.NewPolicy(classifier.PolicyPattern, 0)
	require.NoError(t, err)
	require.Equal(t, classifier.PolicyPattern, p.Name())
	require.Equal(t, domain.VerdictVideo, p.Decide(domain.Response{Header: header("Content-Length", "1")}))

	_, err = classifier.NewPolicy("bayes", 0)
	require.Error(t, err)
}
