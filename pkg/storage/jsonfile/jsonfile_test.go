package jsonfile_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/storage/jsonfile"
)

func TestList_LoadMissingFileIsEmpty(t *testing.T) {
	l := jsonfile.NewList(filepath.Join(t.TempDir(), "nope.json"))

	got, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestList_SaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "video_domains.json")
	l := jsonfile.NewList(path)
	ctx := context.Background()

	require.NoError(t, l.Save(ctx, []string{"b.cdn.net", "a.cdn.net", "b.cdn.net"}))
	got, err := l.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.cdn.net", "b.cdn.net"}, got)

	// a later save with one more domain reads back as a superset
	require.NoError(t, l.Save(ctx, append(got, "video.akamaized.net")))
	got2, err := l.Load(ctx)
	require.NoError(t, err)
	require.Subset(t, got2, got)
	require.Contains(t, got2, "video.akamaized.net")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, bytes.Count(raw, []byte("\n")), 3, "file is pretty printed")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestList_LoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"blank", "  \n", []string{}, false},
		{"valid", `["x.net","x.net"]`, []string{"x.net"}, false},
		{"not json", "{{{", nil, true},
		{"object", `{"domains":[]}`, nil, true},
		{"numbers", `[1,2]`, nil, true},
		{"truncated", `["a.net",`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "d.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := jsonfile.NewList(path).Load(context.Background())
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestList_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := jsonfile.NewList(filepath.Join(t.TempDir(), "d.json"))
	require.Error(t, l.Save(ctx, []string{"a"}))
	_, err := l.Load(ctx)
	require.Error(t, err)
}

func TestFiles_Domains(t *testing.T) {
	dir := t.TempDir()
	f := jsonfile.New(jsonfile.Options{VideoPath: filepath.Join(dir, "video.json")})

	require.NotNil(t, f.Domains(domain.KindVideo))
	require.Nil(t, f.Domains(domain.KindAudio))
	require.NoError(t, f.Close())
}

func TestEncodeDecode(t *testing.T) {
	data := jsonfile.Encode([]string{`we"ird`, "plain.net"})

	got, err := jsonfile.Decode(data)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{`we"ird`, "plain.net"}, got)
}

