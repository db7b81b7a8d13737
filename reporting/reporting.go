// Package reporting aggregates the seller-statistics and financial-summary
// screens. Each summary fans out several independent requests; no ordering
// is guaranteed or needed between them.
package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"gametrade/api"
	"gametrade/decode"
)

// SellerSummary is the per-seller dashboard.
type SellerSummary struct {
	SalesTotal   float64
	DepositTotal float64
	Commission   float64
	AmountDue    float64
	GameCount    int
}

// Balance is the store-wide financial summary (gestion/bilan).
type Balance struct {
	Revenue    float64 `json:"chiffreAffaires"`
	Commission float64 `json:"commissions"`
	Treasury   float64 `json:"tresorerie"`
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Seller issues the five dashboard requests concurrently and assembles the
// summary. Each request writes its own field, so no extra locking is
// needed; the first failure cancels the rest via the group context.
func (s *Service) Seller(ctx context.Context, sellerID string) (SellerSummary, error) {
	base := "vendeurs/" + url.PathEscape(sellerID) + "/stats/"
	var summary SellerSummary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.amount(ctx, base+"ventes")
		summary.SalesTotal = v
		return err
	})
	g.Go(func() error {
		v, err := s.amount(ctx, base+"depots")
		summary.DepositTotal = v
		return err
	})
	g.Go(func() error {
		v, err := s.amount(ctx, base+"commissions")
		summary.Commission = v
		return err
	})
	g.Go(func() error {
		// New sellers have no dues record yet; the endpoint 404s for them.
		v, err := s.amount(ctx, base+"sommedue")
		due, _, err := decode.Optional(v, err)
		summary.AmountDue = due
		return err
	})
	g.Go(func() error {
		n, err := s.count(ctx, base+"jeux")
		summary.GameCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		return SellerSummary{}, err
	}
	return summary, nil
}

// Financial fetches the store-wide summary for managers.
func (s *Service) Financial(ctx context.Context) (Balance, error) {
	return api.Request[Balance](ctx, s.client, http.MethodGet, "gestion/bilan", nil)
}

// amount reads a money endpoint whose payload is either a bare number or
// an object wrapping it under "total" or "montant".
func (s *Service) amount(ctx context.Context, endpoint string) (float64, error) {
	data, err := s.client.JSON(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	var bare float64
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err == nil {
		for _, key := range []string{"total", "montant"} {
			raw, ok := wrapped[key]
			if !ok {
				continue
			}
			var v float64
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("endpoint %s: %w", endpoint, errNotAnAmount)
}

func (s *Service) count(ctx context.Context, endpoint string) (int, error) {
	v, err := s.amount(ctx, endpoint)
	return int(v), err
}

var errNotAnAmount = fmt.Errorf("payload is not a number or wrapped number")
