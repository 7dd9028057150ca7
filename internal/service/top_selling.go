package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/kilimo_api/internal/models"
)

// topSellingNamespace seeds the name-based UUIDs of top-selling items.
var topSellingNamespace = uuid.MustParse("3f8e3c1a-6d0b-4c55-9a57-0c1d5b6e2a41")

// TopSellingID returns the stable identifier of a commodity within a county.
func TopSellingID(county, commodity string) string {
	key := strings.ToLower(strings.TrimSpace(county)) + "/" + strings.ToLower(strings.TrimSpace(commodity))
	return uuid.NewSHA1(topSellingNamespace, []byte(key)).String()
}

// RankTopSelling groups the county's entries by commodity and ranks them.
//
// Quantity is the summed supply volume, price the mean wholesale price
// rounded to two places. Items are ordered by quantity descending, then name
// ascending, and cut to limit. Every item carries the requested county.
func RankTopSelling(entries []models.MarketPriceEntry, county string, limit int) []models.TopSellingItem {
	county = strings.TrimSpace(county)
	if county == "" || limit <= 0 {
		return []models.TopSellingItem{}
	}

	type agg struct {
		name      string
		volume    decimal.Decimal
		wholesale decimal.Decimal
		count     int64
	}
	groups := map[string]*agg{}
	var order []string
	for _, e := range entries {
		if !strings.EqualFold(strings.TrimSpace(e.County), county) {
			continue
		}
		key := strings.ToLower(e.Commodity)
		g, ok := groups[key]
		if !ok {
			g = &agg{name: e.Commodity}
			groups[key] = g
			order = append(order, key)
		}
		g.volume = g.volume.Add(e.SupplyVolume)
		g.wholesale = g.wholesale.Add(e.Wholesale)
		g.count++
	}

	items := make([]models.TopSellingItem, 0, len(order))
	for _, key := range order {
		g := groups[key]
		items = append(items, models.TopSellingItem{
			ID:       TopSellingID(county, g.name),
			Name:     g.name,
			Price:    g.wholesale.Div(decimal.NewFromInt(g.count)).Round(2),
			Quantity: g.volume,
			County:   county,
		})
	}

	return limitTopSelling(items, limit)
}

// limitTopSelling orders items by quantity descending, then name ascending,
// and keeps at most limit of them.
func limitTopSelling(items []models.TopSellingItem, limit int) []models.TopSellingItem {
	sort.SliceStable(items, func(i, j int) bool {
		if c := items[i].Quantity.Cmp(items[j].Quantity); c != 0 {
			return c > 0
		}
		return items[i].Name < items[j].Name
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
