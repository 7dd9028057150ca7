package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/retry"
	"github.com/GTDGit/kilimo_api/pkg/kilimo"
)

// KilimoProvider adapts the Kilimo statistics API to MarketDataProvider.
// Transient failures are retried; client errors (4xx) are not.
type KilimoProvider struct {
	client          *kilimo.Client
	policy          retry.Policy
	highlightsSize  int
	topSellingLimit int
}

// NewKilimoProvider constructs a KilimoProvider.
func NewKilimoProvider(client *kilimo.Client, policy retry.Policy, highlightsSize, topSellingLimit int) *KilimoProvider {
	return &KilimoProvider{client: client, policy: policy, highlightsSize: highlightsSize, topSellingLimit: topSellingLimit}
}

// Name implements MarketDataProvider.
func (p *KilimoProvider) Name() string { return "kilimo" }

// ListPrices implements MarketDataProvider. The county is forwarded so the
// remote backend may apply it.
func (p *KilimoProvider) ListPrices(ctx context.Context, criteria models.FilterCriteria) (*models.PriceList, error) {
	criteria = criteria.Normalize()
	resp, err := retry.Do(ctx, p.policy, func(ctx context.Context) (*kilimo.MarketPricesResponse, error) {
		return classify(p.client.GetMarketPrices(ctx, kilimo.PriceQuery{
			Product: criteria.ProductFilter(),
			Market:  criteria.MarketFilter(),
			County:  strings.TrimSpace(criteria.County),
			Page:    criteria.Page,
			Limit:   criteria.Limit,
		}))
	})
	if err != nil {
		return nil, err
	}

	data := toEntries(resp.Data)
	if len(data) > criteria.Limit {
		log.Warn().Int("returned", len(data)).Int("limit", criteria.Limit).Msg("[KILIMO] page larger than limit, truncating")
		data = data[:criteria.Limit]
	}
	total := resp.Total
	if offset := criteria.Offset(); offset <= math.MaxInt-len(data) {
		total = max(total, offset+len(data))
	}
	return &models.PriceList{Data: data, Total: total, Page: criteria.Page, Limit: criteria.Limit}, nil
}

// ListCommodities implements MarketDataProvider.
func (p *KilimoProvider) ListCommodities(ctx context.Context) ([]string, error) {
	names, err := retry.Do(ctx, p.policy, func(ctx context.Context) ([]string, error) {
		return classify(p.client.GetCommodities(ctx))
	})
	if err != nil {
		return nil, err
	}
	return nonNil(names), nil
}

// ListMarkets implements MarketDataProvider.
func (p *KilimoProvider) ListMarkets(ctx context.Context) ([]string, error) {
	names, err := retry.Do(ctx, p.policy, func(ctx context.Context) ([]string, error) {
		return classify(p.client.GetMarkets(ctx))
	})
	if err != nil {
		return nil, err
	}
	return nonNil(names), nil
}

// GetHighlights implements MarketDataProvider.
func (p *KilimoProvider) GetHighlights(ctx context.Context) ([]models.MarketPriceEntry, error) {
	prices, err := retry.Do(ctx, p.policy, func(ctx context.Context) ([]kilimo.MarketPrice, error) {
		return classify(p.client.GetMarketHighlights(ctx))
	})
	if err != nil {
		return nil, err
	}
	entries := toEntries(prices)
	if len(entries) > p.highlightsSize {
		entries = entries[:p.highlightsSize]
	}
	return entries, nil
}

// GetTopSellingItems implements MarketDataProvider. Items reported for a
// different county are dropped; the rest are ranked and cut like
// RankTopSelling, whatever order the API used.
func (p *KilimoProvider) GetTopSellingItems(ctx context.Context, county string) ([]models.TopSellingItem, error) {
	county = strings.TrimSpace(county)
	if county == "" {
		return []models.TopSellingItem{}, nil
	}
	remote, err := retry.Do(ctx, p.policy, func(ctx context.Context) ([]kilimo.TopSelling, error) {
		return classify(p.client.GetTopSelling(ctx, county))
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.TopSellingItem, 0, len(remote))
	for _, r := range remote {
		if r.County != "" && !strings.EqualFold(r.County, county) {
			log.Warn().Str("requested", county).Str("got", r.County).Str("item", r.Name).Msg("[KILIMO] dropping top-selling item from another county")
			continue
		}
		id := r.ID
		if id == "" {
			id = TopSellingID(county, r.Name)
		}
		items = append(items, models.TopSellingItem{
			ID:       id,
			Name:     r.Name,
			Price:    r.Price,
			Quantity: r.Quantity,
			County:   county,
			ImageURL: r.ImageURL,
		})
	}
	return limitTopSelling(items, p.topSellingLimit), nil
}

// classify marks non-retryable API answers as permanent.
func classify[T any](v T, err error) (T, error) {
	var se *kilimo.StatusError
	if errors.As(err, &se) && !se.Temporary() {
		return v, retry.Permanent(err)
	}
	return v, err
}

func toEntries(prices []kilimo.MarketPrice) []models.MarketPriceEntry {
	out := make([]models.MarketPriceEntry, 0, len(prices))
	for _, m := range prices {
		out = append(out, models.MarketPriceEntry{
			Commodity:      m.Commodity,
			Classification: m.Classification,
			Grade:          m.Grade,
			Sex:            m.Sex,
			Market:         m.Market,
			Wholesale:      m.Wholesale,
			Retail:         m.Retail,
			SupplyVolume:   m.SupplyVolume,
			County:         m.County,
			Date:           m.Date,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
