package service

import (
	"context"
	"strings"

	"github.com/GTDGit/kilimo_api/internal/models"
)

// MarketPriceStore is the query surface PostgresProvider needs. It is
// implemented by repository.MarketPriceRepository.
type MarketPriceStore interface {
	GetPaged(ctx context.Context, product, market string, limit, offset int) ([]models.MarketPriceEntry, int, error)
	GetFirst(ctx context.Context, n int) ([]models.MarketPriceEntry, error)
	GetCommodityNames(ctx context.Context) ([]string, error)
	GetMarketNames(ctx context.Context) ([]string, error)
	GetByCounty(ctx context.Context, county string) ([]models.MarketPriceEntry, error)
	Ping(ctx context.Context) error
}

// PostgresProvider serves market data from the market_prices tables.
type PostgresProvider struct {
	repo            MarketPriceStore
	highlightsSize  int
	topSellingLimit int
}

// NewPostgresProvider constructs a PostgresProvider.
func NewPostgresProvider(repo MarketPriceStore, highlightsSize, topSellingLimit int) *PostgresProvider {
	return &PostgresProvider{repo: repo, highlightsSize: highlightsSize, topSellingLimit: topSellingLimit}
}

// Name implements MarketDataProvider.
func (p *PostgresProvider) Name() string { return "postgres" }

// ListPrices implements MarketDataProvider.
func (p *PostgresProvider) ListPrices(ctx context.Context, criteria models.FilterCriteria) (*models.PriceList, error) {
	criteria = criteria.Normalize()
	entries, total, err := p.repo.GetPaged(ctx, criteria.ProductFilter(), criteria.MarketFilter(), criteria.Limit, criteria.Offset())
	if err != nil {
		return nil, err
	}
	return &models.PriceList{Data: entries, Total: total, Page: criteria.Page, Limit: criteria.Limit}, nil
}

// ListCommodities implements MarketDataProvider.
func (p *PostgresProvider) ListCommodities(ctx context.Context) ([]string, error) {
	return p.repo.GetCommodityNames(ctx)
}

// ListMarkets implements MarketDataProvider.
func (p *PostgresProvider) ListMarkets(ctx context.Context) ([]string, error) {
	return p.repo.GetMarketNames(ctx)
}

// GetHighlights implements MarketDataProvider.
func (p *PostgresProvider) GetHighlights(ctx context.Context) ([]models.MarketPriceEntry, error) {
	return p.repo.GetFirst(ctx, p.highlightsSize)
}

// GetTopSellingItems implements MarketDataProvider. The county's rows are
// loaded and ranked with RankTopSelling.
func (p *PostgresProvider) GetTopSellingItems(ctx context.Context, county string) ([]models.TopSellingItem, error) {
	county = strings.TrimSpace(county)
	if county == "" {
		return []models.TopSellingItem{}, nil
	}
	entries, err := p.repo.GetByCounty(ctx, county)
	if err != nil {
		return nil, err
	}
	return RankTopSelling(entries, county, p.topSellingLimit), nil
}

// Ping implements Pinger.
func (p *PostgresProvider) Ping(ctx context.Context) error {
	return p.repo.Ping(ctx)
}
