package apierr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"gametrade/apierr"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, apierr.KindUnauthorized, apierr.KindOf(apierr.Unauthorized()))
	require.Equal(t, apierr.KindServer, apierr.KindOf(apierr.Server(500, "boom")))
	require.Equal(t, apierr.Kind(-1), apierr.KindOf(errors.New("plain")))

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("fetch licenses: %w", apierr.Server(404, "rien"))
		require.Equal(t, apierr.KindServer, apierr.KindOf(wrapped))
		require.True(t, apierr.IsStatus(wrapped, 404))
	})
}

func TestIsStatus(t *testing.T) {
	require.True(t, apierr.IsStatus(apierr.Server(404, ""), 404))
	require.False(t, apierr.IsStatus(apierr.Server(500, ""), 404))
	require.True(t, apierr.IsStatus(apierr.Unauthorized(), 401))
	require.False(t, apierr.IsStatus(apierr.Network(errors.New("reset")), 404))
	require.False(t, apierr.IsStatus(errors.New("plain"), 404))
}

func TestErrorMessages(t *testing.T) {
	require.Equal(t, "server error 500: boom", apierr.Server(500, "boom").Error())
	require.Contains(t, apierr.Network(errors.New("connection reset")).Error(), "network")
	require.Contains(t, apierr.Decoding(errors.New("bad shape")).Error(), "decoding")
}
