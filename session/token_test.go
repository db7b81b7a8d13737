package session_test

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gametrade/session"
)

func makeToken(t *testing.T, payload any) string {
	t.Helper()
	encode := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	return fmt.Sprintf("%s.%s.%s", header, encode(payload), base64.RawURLEncoding.EncodeToString([]byte("sig")))
}

func TestExpiryFromToken(t *testing.T) {
	t.Run("numeric exp round-trips", func(t *testing.T) {
		exp := time.Now().Add(2 * time.Hour).Unix()
		token := makeToken(t, map[string]any{"sub": "u1", "exp": exp})

		got, ok := session.ExpiryFromToken(token)
		require.True(t, ok)
		require.Equal(t, exp, got.Unix())
	})

	t.Run("missing exp", func(t *testing.T) {
		token := makeToken(t, map[string]any{"sub": "u1"})

		_, ok := session.ExpiryFromToken(token)
		require.False(t, ok)
	})

	t.Run("non-numeric exp", func(t *testing.T) {
		token := makeToken(t, map[string]any{"exp": "tomorrow"})

		_, ok := session.ExpiryFromToken(token)
		require.False(t, ok)
	})

	t.Run("wrong segment count", func(t *testing.T) {
		_, ok := session.ExpiryFromToken("only.two-segments")
		require.False(t, ok)
	})

	t.Run("payload is not JSON", func(t *testing.T) {
		garbage := base64.RawURLEncoding.EncodeToString([]byte("not json"))
		token := fmt.Sprintf("%s.%s.%s", garbage, garbage, garbage)

		_, ok := session.ExpiryFromToken(token)
		require.False(t, ok)
	})

	t.Run("empty string", func(t *testing.T) {
		_, ok := session.ExpiryFromToken("")
		require.False(t, ok)
	})
}
