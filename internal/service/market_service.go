package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// MarketService applies defaults and validation in front of a provider and
// wraps every data source failure in utils.ErrFetch.
type MarketService struct {
	provider MarketDataProvider
}

// NewMarketService constructs a MarketService.
func NewMarketService(provider MarketDataProvider) *MarketService {
	return &MarketService{provider: provider}
}

// Provider returns the underlying data source.
func (s *MarketService) Provider() MarketDataProvider {
	return s.provider
}

// ListPrices returns one page of market prices.
func (s *MarketService) ListPrices(ctx context.Context, criteria models.FilterCriteria) (*models.PriceList, error) {
	criteria = criteria.Normalize()
	list, err := s.provider.ListPrices(ctx, criteria)
	if err != nil {
		return nil, s.fetchError("list prices", err)
	}
	if list.Data == nil {
		list.Data = []models.MarketPriceEntry{}
	}
	return list, nil
}

// ListCommodities returns the commodity names available for filtering.
func (s *MarketService) ListCommodities(ctx context.Context) ([]string, error) {
	names, err := s.provider.ListCommodities(ctx)
	if err != nil {
		return nil, s.fetchError("list commodities", err)
	}
	return names, nil
}

// ListMarkets returns the market names available for filtering.
func (s *MarketService) ListMarkets(ctx context.Context) ([]string, error) {
	names, err := s.provider.ListMarkets(ctx)
	if err != nil {
		return nil, s.fetchError("list markets", err)
	}
	return names, nil
}

// GetHighlights returns the dashboard subset of market prices.
func (s *MarketService) GetHighlights(ctx context.Context) ([]models.MarketPriceEntry, error) {
	entries, err := s.provider.GetHighlights(ctx)
	if err != nil {
		return nil, s.fetchError("get highlights", err)
	}
	return entries, nil
}

// GetTopSellingItems returns the ranked commodities of a county.
func (s *MarketService) GetTopSellingItems(ctx context.Context, county string) ([]models.TopSellingItem, error) {
	county = strings.TrimSpace(county)
	if county == "" {
		return nil, fmt.Errorf("%w: county is required", utils.ErrInvalidCounty)
	}
	items, err := s.provider.GetTopSellingItems(ctx, county)
	if err != nil {
		return nil, s.fetchError("get top selling items", err)
	}
	return items, nil
}

// Ping checks the data source when it supports it.
func (s *MarketService) Ping(ctx context.Context) error {
	if p, ok := s.provider.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *MarketService) fetchError(op string, err error) error {
	log.Error().Err(err).Str("provider", s.provider.Name()).Str("op", op).Msg("Market data fetch failed")
	return fmt.Errorf("%w: %s: %w", utils.ErrFetch, op, err)
}
