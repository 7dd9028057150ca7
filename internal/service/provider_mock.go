package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/kilimo_api/internal/models"
)

// Dataset is the content served by MockProvider.
type Dataset struct {
	Prices      []models.MarketPriceEntry
	Commodities []string
	Markets     []string
}

// DefaultDataset returns the reference dataset shipped with the app.
func DefaultDataset() Dataset {
	entry := func(commodity, classification, market string, wholesale, retail, volume int64, county string) models.MarketPriceEntry {
		return models.MarketPriceEntry{
			Commodity:      commodity,
			Classification: classification,
			Grade:          "Grade 1",
			Sex:            "-",
			Market:         market,
			Wholesale:      decimal.NewFromInt(wholesale),
			Retail:         decimal.NewFromInt(retail),
			SupplyVolume:   decimal.NewFromInt(volume),
			County:         county,
			Date:           "2024-03-20",
		}
	}
	return Dataset{
		Prices: []models.MarketPriceEntry{
			entry("Dry Maize", "White Maize", "Kitale", 45, 52, 2500, "Trans Nzoia"),
			entry("Beans", "Rose Coco", "Eldoret", 120, 140, 1200, "Uasin Gishu"),
			entry("Rice", "Pishori", "Mwea", 180, 200, 3000, "Kirinyaga"),
			entry("Potatoes", "Irish", "Nakuru", 35, 45, 4000, "Nakuru"),
			entry("Tomatoes", "Fresh", "Karatina", 80, 100, 1500, "Nyeri"),
		},
		Commodities: []string{"Dry Maize", "Beans", "Rice", "Potatoes", "Tomatoes", "Onions", "Cabbage", "Carrots"},
		Markets:     []string{"Kitale", "Eldoret", "Mwea", "Nakuru", "Karatina", "Nairobi", "Mombasa", "Kisumu"},
	}
}

// MockProvider answers queries from a fixed in-memory dataset.
type MockProvider struct {
	data            Dataset
	highlightsSize  int
	topSellingLimit int
}

// NewMockProvider constructs a MockProvider. The dataset is copied.
func NewMockProvider(data Dataset, highlightsSize, topSellingLimit int) *MockProvider {
	return &MockProvider{
		data: Dataset{
			Prices:      append([]models.MarketPriceEntry(nil), data.Prices...),
			Commodities: append([]string(nil), data.Commodities...),
			Markets:     append([]string(nil), data.Markets...),
		},
		highlightsSize:  highlightsSize,
		topSellingLimit: topSellingLimit,
	}
}

// Name implements MarketDataProvider.
func (p *MockProvider) Name() string { return "mock" }

// ListPrices implements MarketDataProvider.
func (p *MockProvider) ListPrices(ctx context.Context, criteria models.FilterCriteria) (*models.PriceList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	criteria = criteria.Normalize()
	filtered := filterEntries(p.data.Prices, criteria.ProductFilter(), criteria.MarketFilter())
	return &models.PriceList{
		Data:  paginate(filtered, criteria.Page, criteria.Limit),
		Total: len(filtered),
		Page:  criteria.Page,
		Limit: criteria.Limit,
	}, nil
}

// ListCommodities implements MarketDataProvider.
func (p *MockProvider) ListCommodities(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string{}, p.data.Commodities...), nil
}

// ListMarkets implements MarketDataProvider.
func (p *MockProvider) ListMarkets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string{}, p.data.Markets...), nil
}

// GetHighlights implements MarketDataProvider.
func (p *MockProvider) GetHighlights(ctx context.Context) ([]models.MarketPriceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := min(p.highlightsSize, len(p.data.Prices))
	return append([]models.MarketPriceEntry{}, p.data.Prices[:n]...), nil
}

// GetTopSellingItems implements MarketDataProvider.
func (p *MockProvider) GetTopSellingItems(ctx context.Context, county string) ([]models.TopSellingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return RankTopSelling(p.data.Prices, county, p.topSellingLimit), nil
}

// filterEntries keeps entries whose commodity and market equal the given
// values case-insensitively. An empty value disables that filter.
func filterEntries(entries []models.MarketPriceEntry, product, market string) []models.MarketPriceEntry {
	out := make([]models.MarketPriceEntry, 0, len(entries))
	for _, e := range entries {
		if product != "" && !strings.EqualFold(e.Commodity, product) {
			continue
		}
		if market != "" && !strings.EqualFold(e.Market, market) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// paginate returns the [start, end) window of a 1-based page.
func paginate(entries []models.MarketPriceEntry, page, limit int) []models.MarketPriceEntry {
	start := models.PageOffset(page, limit)
	if start >= len(entries) {
		return []models.MarketPriceEntry{}
	}
	end := min(start+limit, len(entries))
	return append([]models.MarketPriceEntry{}, entries[start:end]...)
}
