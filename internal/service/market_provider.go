package service

import (
	"context"

	"github.com/GTDGit/kilimo_api/internal/models"
)

// MarketDataProvider is the boundary to a market price data source.
// Implementations must treat the dataset as read-only and return slices the
// caller may keep.
type MarketDataProvider interface {
	// Name identifies the data source in logs and health output.
	Name() string

	// ListPrices filters by product and market (case-insensitive exact
	// match, AND-composed) and returns the requested page plus the total
	// number of matches. County is not filtered on.
	ListPrices(ctx context.Context, criteria models.FilterCriteria) (*models.PriceList, error)

	// ListCommodities returns the known commodity names in a stable order.
	ListCommodities(ctx context.Context) ([]string, error)

	// ListMarkets returns the known market names in a stable order.
	ListMarkets(ctx context.Context) ([]string, error)

	// GetHighlights returns the first N entries in insertion order.
	GetHighlights(ctx context.Context) ([]models.MarketPriceEntry, error)

	// GetTopSellingItems returns the ranked commodities of a county.
	GetTopSellingItems(ctx context.Context, county string) ([]models.TopSellingItem, error)
}

// Pinger is implemented by providers that can check their backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}
