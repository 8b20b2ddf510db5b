package browser_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"

	"mediatrace/internal/browser"
	"mediatrace/pkg/domain"
)

func TestHeader(t *testing.T) {
	h := browser.Header(proto.NetworkHeaders{
		"content-type":   gson.New("video/mp4"),
		"Content-Length": gson.New("80000000"),
	})

	require.Equal(t, "video/mp4", h.Get("Content-Type"))
	require.Equal(t, "80000000", h.Get("content-length"))
}

func TestAwait(t *testing.T) {
	req, reply := domain.NewIntercepted(domain.Request{URL: "https://cdn.example/a.mp4"})
	req.Resolve(domain.DecisionIgnore)
	require.Equal(t, domain.DecisionIgnore, browser.Await(reply, time.Second))

	_, silent := domain.NewIntercepted(domain.Request{URL: "https://cdn.example/b.mp4"})
	require.Equal(t, domain.DecisionReject, browser.Await(silent, 10*time.Millisecond))
}

func TestCookies_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cookies.json")

	cookies := []*proto.NetworkCookie{
		{Name: "session", Value: "abc", Domain: ".app.example", Path: "/", HTTPOnly: true, Secure: true},
		{Name: "lang", Value: "en", Domain: "app.example", Path: "/"},
	}
	require.NoError(t, browser.SaveCookies(path, cookies))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := browser.LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "session", got[0].Name)
	require.Equal(t, "abc", got[0].Value)
	require.True(t, got[0].HTTPOnly)
	require.Equal(t, "app.example", got[1].Domain)
}

func TestLoadCookies_Missing(t *testing.T) {
	got, err := browser.LoadCookies(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadCookies_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := browser.LoadCookies(path)
	require.Error(t, err)
}
