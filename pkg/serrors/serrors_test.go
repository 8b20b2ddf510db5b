package serrors_test

import (
	"errors"
	"fmt"
	"mediatrace/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrBadRequest,
		serrors.ErrConflict,
		serrors.ErrInternal,
		serrors.ErrTimeout,
		serrors.ErrUnavailable,
		serrors.ErrEmpty,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("disk full")

	e1 := serrors.With(serrors.ErrEmpty, "%d domains to export", 0)
	require.Equal(t, "0 domains to export", e1.Error())

	e2 := serrors.Wrap(serrors.ErrInternal, base, "writing domain list")
	require.Equal(t, "writing domain list: disk full", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrUnavailable)
	require.Equal(t, "UNAVAILABLE", e3.Error())

	var e4 *serrors.Error
	require.Equal(t, "<nil>", e4.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"websocket closed"}
	e := serrors.Wrap(serrors.ErrUnavailable, base, "browser disconnected")

	require.ErrorIs(t, e, serrors.ErrUnavailable)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrTimeout)

	// kinds survive further fmt wrapping
	wrapped := fmt.Errorf("monitor stopped: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrUnavailable)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrNotFound, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrTimeout, base, "flush")
	require.Equal(t, serrors.ErrTimeout, e.Kind())
	require.Equal(t, "flush", e.Message())
	require.Equal(t, base, e.Cause())
}
