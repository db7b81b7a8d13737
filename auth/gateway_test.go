package auth_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"gametrade/api"
	"gametrade/auth"
	"gametrade/session"
	"gametrade/session/storagefakes"
	"gametrade/users"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	encode := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	return fmt.Sprintf("%s.%s.%s", header, encode(claims), base64.RawURLEncoding.EncodeToString([]byte("sig")))
}

type gatewayFixture struct {
	storage  *storagefakes.FakeStorage
	store    *session.Store
	client   *api.Client
	gateway  *auth.Gateway
	requests int
}

// newGatewayFixture spins up a fake backend mimicking the marketplace's
// login endpoints: credentials in, accessToken cookie out, no user body.
func newGatewayFixture(t *testing.T, token string) *gatewayFixture {
	t.Helper()
	f := &gatewayFixture{storage: storagefakes.NewFakeStorage()}

	login := func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"motdepasse"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
			http.Error(w, "requete invalide", http.StatusBadRequest)
			return
		}
		switch creds.Password {
		case "wrong":
			http.Error(w, "identifiants invalides", http.StatusUnauthorized)
		case "blocked":
			http.Error(w, "acces refuse", http.StatusForbidden)
		case "no-cookie":
			w.WriteHeader(http.StatusOK)
		default:
			http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: token, Path: "/", HttpOnly: true})
			w.WriteHeader(http.StatusOK)
		}
	}

	r := chi.NewRouter()
	r.Post("/api/administrateurs/login", login)
	r.Post("/api/gestionnaires/login", login)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithCache())
	require.NoError(t, err)
	f.client = client

	f.store = session.NewStore(f.storage, session.WithCacheInvalidator(client))
	client.SetTokenProvider(f.store)

	f.gateway = auth.NewGateway(client, f.store)
	return f
}

func TestGateway_Login(t *testing.T) {
	token := ""

	t.Run("admin login establishes a session", func(t *testing.T) {
		token = makeToken(t, map[string]any{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
		f := newGatewayFixture(t, token)

		user, err := f.gateway.Login(context.Background(), "a@b.com", "x", users.RoleAdmin)
		require.NoError(t, err)

		require.Equal(t, users.RoleAdmin, user.Role)
		require.Equal(t, "a@b.com", user.Email)
		require.NotEmpty(t, user.ID)
		require.True(t, f.store.IsValid())

		rec, present := f.storage.Persisted()
		require.True(t, present)
		require.Equal(t, token, rec.Token)
	})

	t.Run("manager role hits the gestionnaires endpoint", func(t *testing.T) {
		token = makeToken(t, map[string]any{"sub": "2", "exp": time.Now().Add(time.Hour).Unix()})
		f := newGatewayFixture(t, token)

		user, err := f.gateway.Login(context.Background(), "g@b.com", "x", users.RoleManager)
		require.NoError(t, err)
		require.Equal(t, users.RoleManager, user.Role)
		require.True(t, user.Role.IsManager())
		require.False(t, user.Role.IsAdmin())
	})

	t.Run("unknown role fails before any network call", func(t *testing.T) {
		f := newGatewayFixture(t, token)

		_, err := f.gateway.Login(context.Background(), "a@b.com", "x", users.RoleBuyer)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		require.Zero(t, f.requests)
	})

	t.Run("401 maps to invalid credentials", func(t *testing.T) {
		f := newGatewayFixture(t, token)

		_, err := f.gateway.Login(context.Background(), "a@b.com", "wrong", users.RoleAdmin)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		require.False(t, f.store.IsValid())
	})

	t.Run("403 maps to access denied", func(t *testing.T) {
		f := newGatewayFixture(t, token)

		_, err := f.gateway.Login(context.Background(), "a@b.com", "blocked", users.RoleAdmin)
		require.ErrorIs(t, err, auth.ErrAccessDenied)
	})

	t.Run("other statuses keep code and body", func(t *testing.T) {
		f := newGatewayFixture(t, token)

		_, err := f.gateway.Login(context.Background(), "", "x", users.RoleAdmin)
		require.ErrorIs(t, err, auth.ErrServer)
		require.Contains(t, err.Error(), "400")
		require.Contains(t, err.Error(), "requete invalide")
	})

	t.Run("2xx without the cookie is a distinct failure", func(t *testing.T) {
		f := newGatewayFixture(t, token)

		_, err := f.gateway.Login(context.Background(), "a@b.com", "no-cookie", users.RoleAdmin)
		require.ErrorIs(t, err, auth.ErrNoToken)
		require.False(t, f.store.IsValid())
	})

	t.Run("token without exp refuses the session", func(t *testing.T) {
		f := newGatewayFixture(t, makeToken(t, map[string]any{"sub": "1"}))

		_, err := f.gateway.Login(context.Background(), "a@b.com", "x", users.RoleAdmin)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
		require.False(t, f.store.IsValid())
	})
}

func TestGateway_Logout(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
	f := newGatewayFixture(t, token)

	_, err := f.gateway.Login(context.Background(), "a@b.com", "x", users.RoleAdmin)
	require.NoError(t, err)
	require.True(t, f.store.IsValid())

	f.gateway.Logout()
	require.False(t, f.store.IsValid())
	_, present := f.storage.Persisted()
	require.False(t, present)

	// Logging out twice is fine.
	f.gateway.Logout()
	require.False(t, f.store.IsValid())
}
