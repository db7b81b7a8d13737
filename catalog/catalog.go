// Package catalog is the games side of the marketplace: the paginated,
// searchable listing plus the deposit flow. It is a thin consumer of the
// api client and the decode conventions.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"gametrade/api"
	"gametrade/decode"
)

// Game is the domain view of a listing. Identifiers are strings in the
// domain even when the wire sends numbers.
type Game struct {
	ID        decode.ID `json:"id"`
	Name      string    `json:"nom"`
	Price     float64   `json:"prix"`
	SellerID  decode.ID `json:"vendeurId"`
	LicenseID decode.ID `json:"licenceId"`
	Status    string    `json:"statut"`
}

// License is the optional related resource; the backend 404s instead of
// returning null when a game has none.
type License struct {
	ID       decode.ID `json:"id"`
	Name     string    `json:"nom"`
	EditorID decode.ID `json:"editeurId"`
}

// NewGame is the deposit request body.
type NewGame struct {
	Name      string  `json:"nom"`
	Price     float64 `json:"prix"`
	SellerID  string  `json:"vendeurId"`
	LicenseID string  `json:"licenceId,omitempty"`
}

// ListParams drives the paginated, searchable listing.
type ListParams struct {
	Page  int
	Size  int
	Query string
}

type Service struct {
	client *api.Client
	log    zerolog.Logger
}

func NewService(client *api.Client, log zerolog.Logger) *Service {
	return &Service{client: client, log: log}
}

// List fetches a catalog page. The backend answers with either a bare
// array or an object wrapping it under "jeux".
func (s *Service) List(ctx context.Context, params ListParams) ([]Game, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("numPage", strconv.Itoa(params.Page))
	}
	if params.Size > 0 {
		q.Set("taille", strconv.Itoa(params.Size))
	}
	if params.Query != "" {
		q.Set("recherche", params.Query)
	}
	endpoint := "jeux"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	data, err := s.client.JSON(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	games, err := decode.List[Game](data, "jeux", "items")
	if err != nil {
		return nil, fmt.Errorf("decode game list: %w", err)
	}
	return games, nil
}

// Get fetches one listing. Mandatory data: decode failures propagate.
func (s *Service) Get(ctx context.Context, id string) (Game, error) {
	return api.Request[Game](ctx, s.client, http.MethodGet, "jeux/"+url.PathEscape(id), nil)
}

// Deposit creates a listing. The backend's answer to this POST is the
// least consistent payload in the API: sometimes the full game, sometimes
// a bare {id}, sometimes nothing useful. The fallback chain below keeps
// every tier observable and ends in a game synthesized from the request.
func (s *Service) Deposit(ctx context.Context, game NewGame) (Game, error) {
	data, err := s.client.JSON(ctx, http.MethodPost, "jeux", game)
	if err != nil {
		return Game{}, err
	}

	synthesized := Game{
		Name:      game.Name,
		Price:     game.Price,
		SellerID:  decode.ID(game.SellerID),
		LicenseID: decode.ID(game.LicenseID),
	}
	created := decode.Try(s.log, data, []decode.Strategy[Game]{
		{Name: "full_game", Decode: func(b []byte) (Game, error) {
			var g Game
			if err := json.Unmarshal(b, &g); err != nil {
				return Game{}, err
			}
			if g.ID == "" {
				return Game{}, fmt.Errorf("payload carries no id")
			}
			return g, nil
		}},
		{Name: "id_only", Decode: func(b []byte) (Game, error) {
			var partial struct {
				ID decode.ID `json:"id"`
			}
			if err := json.Unmarshal(b, &partial); err != nil {
				return Game{}, err
			}
			if partial.ID == "" {
				return Game{}, fmt.Errorf("payload carries no id")
			}
			g := synthesized
			g.ID = partial.ID
			return g, nil
		}},
	}, synthesized)

	return created, nil
}

// GameLicense fetches the license attached to a game. A 404 means the
// game simply has none and is not an error.
func (s *Service) GameLicense(ctx context.Context, game Game) (License, bool, error) {
	if game.LicenseID == "" {
		return License{}, false, nil
	}
	l, err := api.Request[License](ctx, s.client, http.MethodGet, "licences/"+url.PathEscape(string(game.LicenseID)), nil)
	return decode.Optional(l, err)
}

// Withdraw removes a listing.
func (s *Service) Withdraw(ctx context.Context, id string) error {
	_, err := s.client.JSON(ctx, http.MethodDelete, "jeux/"+url.PathEscape(id), nil)
	return err
}
