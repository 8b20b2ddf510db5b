package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mediatrace/pkg/domain"
)

func TestDomainList_SaveLoad(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	video := pg.Domains(domain.KindVideo)
	audio := pg.Domains(domain.KindAudio)

	got, err := video.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, video.Save(ctx, []string{"b.cdn.net", "a.cdn.net", "a.cdn.net"}))
	require.NoError(t, audio.Save(ctx, []string{"snd.cdn.net"}))

	got, err = video.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.cdn.net", "b.cdn.net"}, got)

	// saving again replaces the set of that kind only
	require.NoError(t, video.Save(ctx, []string{"b.cdn.net", "c.cdn.net"}))
	got, err = video.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b.cdn.net", "c.cdn.net"}, got)

	got, err = audio.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"snd.cdn.net"}, got)

	require.NoError(t, video.Save(ctx, nil))
	got, err = video.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
