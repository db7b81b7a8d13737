package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gametrade/api"
	"gametrade/catalog"
	"gametrade/decode"
)

func newCatalogService(t *testing.T, r chi.Router) *catalog.Service {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return catalog.NewService(client, zerolog.Nop())
}

func TestService_List(t *testing.T) {
	t.Run("bare array with numeric ids", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/api/jeux", func(w http.ResponseWriter, req *http.Request) {
			require.Equal(t, "2", req.URL.Query().Get("numPage"))
			require.Equal(t, "silent", req.URL.Query().Get("recherche"))
			w.Write([]byte(`[{"id": 12, "nom": "Silent Hill 2", "prix": 35.5, "statut": "EN_VENTE"}]`))
		})
		svc := newCatalogService(t, r)

		games, err := svc.List(context.Background(), catalog.ListParams{Page: 2, Query: "silent"})
		require.NoError(t, err)
		require.Len(t, games, 1)
		require.Equal(t, decode.ID("12"), games[0].ID)
		require.Equal(t, "Silent Hill 2", games[0].Name)
	})

	t.Run("wrapped payload", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/api/jeux", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"total": 1, "jeux": [{"id": "a1", "nom": "Rez"}]}`))
		})
		svc := newCatalogService(t, r)

		games, err := svc.List(context.Background(), catalog.ListParams{})
		require.NoError(t, err)
		require.Len(t, games, 1)
	})
}

func TestService_GameLicense(t *testing.T) {
	t.Run("404 means no license, not an error", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/api/licences/{id}", func(w http.ResponseWriter, req *http.Request) {
			http.NotFound(w, req)
		})
		svc := newCatalogService(t, r)

		_, ok, err := svc.GameLicense(context.Background(), catalog.Game{ID: "1", LicenseID: "9"})
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("present license decodes", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/api/licences/{id}", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"id": 9, "nom": "Zelda", "editeurId": 3}`))
		})
		svc := newCatalogService(t, r)

		license, ok, err := svc.GameLicense(context.Background(), catalog.Game{ID: "1", LicenseID: "9"})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, decode.ID("9"), license.ID)
		require.Equal(t, decode.ID("3"), license.EditorID)
	})

	t.Run("no license id skips the call", func(t *testing.T) {
		svc := newCatalogService(t, chi.NewRouter())
		_, ok, err := svc.GameLicense(context.Background(), catalog.Game{ID: "1"})
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("server failure still propagates", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/api/licences/{id}", func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		svc := newCatalogService(t, r)

		_, _, err := svc.GameLicense(context.Background(), catalog.Game{ID: "1", LicenseID: "9"})
		require.Error(t, err)
	})
}

func TestService_Deposit(t *testing.T) {
	newGame := catalog.NewGame{Name: "Okami", Price: 20, SellerID: "s1"}

	t.Run("full game in the response", func(t *testing.T) {
		r := chi.NewRouter()
		r.Post("/api/jeux", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"id": 7, "nom": "Okami", "prix": 20, "vendeurId": "s1", "statut": "EN_DEPOT"}`))
		})
		svc := newCatalogService(t, r)

		created, err := svc.Deposit(context.Background(), newGame)
		require.NoError(t, err)
		require.Equal(t, decode.ID("7"), created.ID)
		require.Equal(t, "EN_DEPOT", created.Status)
	})

	t.Run("id-only response fills the rest from the request", func(t *testing.T) {
		r := chi.NewRouter()
		r.Post("/api/jeux", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"id": 8}`))
		})
		svc := newCatalogService(t, r)

		created, err := svc.Deposit(context.Background(), newGame)
		require.NoError(t, err)
		require.Equal(t, decode.ID("8"), created.ID)
		require.Equal(t, "Okami", created.Name)
		require.Equal(t, decode.ID("s1"), created.SellerID)
	})

	t.Run("useless response falls back to the synthesized game", func(t *testing.T) {
		r := chi.NewRouter()
		r.Post("/api/jeux", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`"ok"`))
		})
		svc := newCatalogService(t, r)

		created, err := svc.Deposit(context.Background(), newGame)
		require.NoError(t, err)
		require.Empty(t, created.ID)
		require.Equal(t, "Okami", created.Name)
	})
}
