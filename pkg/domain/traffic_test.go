package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mediatrace/pkg/domain"
)

func TestIntercepted_ResolveOnce(t *testing.T) {
	req, reply := domain.NewIntercepted(domain.Request{URL: "https://cdn.example/a.mp4"})

	require.True(t, req.Resolve(domain.DecisionCandidate))
	require.False(t, req.Resolve(domain.DecisionIgnore))
	require.Equal(t, domain.DecisionCandidate, <-reply)
	require.Equal(t, "https://cdn.example/a.mp4", req.URL)
}

func TestIntercepted_ZeroValue(t *testing.T) {
	require.False(t, domain.Intercepted{}.Resolve(domain.DecisionReject))
}
