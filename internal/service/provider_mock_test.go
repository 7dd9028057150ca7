package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/GTDGit/kilimo_api/internal/models"
)

func newDefaultMock() *MockProvider {
	return NewMockProvider(DefaultDataset(), 3, 3)
}

func TestListPricesUnknownProduct(t *testing.T) {
	p := newDefaultMock()
	list, err := p.ListPrices(context.Background(), models.FilterCriteria{Product: "Avocado"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 0 || len(list.Data) != 0 {
		t.Fatalf("expected empty result, got %+v", list)
	}
	if list.Data == nil {
		t.Fatalf("data should be an empty slice, not nil")
	}
}

func TestListPricesCaseInsensitive(t *testing.T) {
	p := newDefaultMock()
	ctx := context.Background()
	lower, _ := p.ListPrices(ctx, models.FilterCriteria{Product: "beans"})
	upper, _ := p.ListPrices(ctx, models.FilterCriteria{Product: "BEANS"})
	if !reflect.DeepEqual(lower, upper) {
		t.Fatalf("case-sensitive results: %+v vs %+v", lower, upper)
	}
	if lower.Total != 1 || lower.Data[0].Commodity != "Beans" {
		t.Fatalf("unexpected beans result %+v", lower)
	}
}

func TestListPricesExactMatchOnly(t *testing.T) {
	p := newDefaultMock()
	list, _ := p.ListPrices(context.Background(), models.FilterCriteria{Product: "Maize"})
	if list.Total != 0 {
		t.Fatalf("substring matched: %+v", list)
	}
}

func TestListPricesMarketScenario(t *testing.T) {
	p := newDefaultMock()
	list, err := p.ListPrices(context.Background(), models.FilterCriteria{Market: "Kitale", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || len(list.Data) != 1 || list.Data[0].Market != "Kitale" {
		t.Fatalf("unexpected result %+v", list)
	}
}

func TestListPricesFiltersCompose(t *testing.T) {
	p := newDefaultMock()
	ctx := context.Background()
	list, _ := p.ListPrices(ctx, models.FilterCriteria{Product: "Beans", Market: "Kitale"})
	if list.Total != 0 {
		t.Fatalf("filters should AND: %+v", list)
	}
	list, _ = p.ListPrices(ctx, models.FilterCriteria{Product: "beans", Market: "ELDORET"})
	if list.Total != 1 {
		t.Fatalf("expected one match, got %+v", list)
	}
}

func TestListPricesSentinelsAndCounty(t *testing.T) {
	p := newDefaultMock()
	list, _ := p.ListPrices(context.Background(), models.FilterCriteria{
		Product: models.NoProductFilter,
		Market:  models.NoMarketFilter,
		County:  "Nakuru",
	})
	if list.Total != 5 {
		t.Fatalf("sentinels or county filtered the list: total=%d", list.Total)
	}
}

func TestListPricesSecondPage(t *testing.T) {
	p := newDefaultMock()
	list, err := p.ListPrices(context.Background(), models.FilterCriteria{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 5 || len(list.Data) != 2 {
		t.Fatalf("unexpected page: total=%d len=%d", list.Total, len(list.Data))
	}
	if list.Data[0].Commodity != "Potatoes" || list.Data[1].Commodity != "Tomatoes" {
		t.Fatalf("expected entries 4-5, got %+v", list.Data)
	}
}

func TestListPricesDefaults(t *testing.T) {
	p := newDefaultMock()
	list, _ := p.ListPrices(context.Background(), models.FilterCriteria{})
	if list.Page != 1 || list.Limit != 10 || len(list.Data) != 5 {
		t.Fatalf("defaults not applied: %+v", list)
	}
	list, _ = p.ListPrices(context.Background(), models.FilterCriteria{Page: 9, Limit: 3})
	if len(list.Data) != 0 || list.Total != 5 {
		t.Fatalf("page past the end should be empty: %+v", list)
	}
}

func TestPagesReassembleFilteredSequence(t *testing.T) {
	p := newDefaultMock()
	ctx := context.Background()
	all, _ := p.ListPrices(ctx, models.FilterCriteria{Limit: 100})

	for limit := 1; limit <= 6; limit++ {
		first, _ := p.ListPrices(ctx, models.FilterCriteria{Page: 1, Limit: limit})
		var joined []models.MarketPriceEntry
		for page := 1; page <= first.TotalPages(); page++ {
			list, err := p.ListPrices(ctx, models.FilterCriteria{Page: page, Limit: limit})
			if err != nil {
				t.Fatalf("page %d: %v", page, err)
			}
			if len(list.Data) > limit {
				t.Fatalf("limit %d page %d returned %d entries", limit, page, len(list.Data))
			}
			joined = append(joined, list.Data...)
		}
		if !reflect.DeepEqual(joined, all.Data) {
			t.Fatalf("limit %d: pages do not reproduce the sequence", limit)
		}
	}
}

func TestCatalogueStable(t *testing.T) {
	p := newDefaultMock()
	ctx := context.Background()
	c1, _ := p.ListCommodities(ctx)
	c2, _ := p.ListCommodities(ctx)
	m1, _ := p.ListMarkets(ctx)
	m2, _ := p.ListMarkets(ctx)
	if !reflect.DeepEqual(c1, c2) || !reflect.DeepEqual(m1, m2) {
		t.Fatalf("catalogue order changed between calls")
	}
	if len(c1) != 8 || c1[0] != "Dry Maize" || len(m1) != 8 || m1[0] != "Kitale" {
		t.Fatalf("unexpected catalogue %v %v", c1, m1)
	}

	c1[0] = "mutated"
	c3, _ := p.ListCommodities(ctx)
	if c3[0] != "Dry Maize" {
		t.Fatalf("caller mutation leaked into provider")
	}
}

func TestHighlightsFirstN(t *testing.T) {
	p := newDefaultMock()
	h, err := p.GetHighlights(context.Background())
	if err != nil {
		t.Fatalf("highlights: %v", err)
	}
	if len(h) != 3 || h[0].Commodity != "Dry Maize" || h[2].Commodity != "Rice" {
		t.Fatalf("unexpected highlights %+v", h)
	}

	small := NewMockProvider(Dataset{Prices: DefaultDataset().Prices[:1]}, 3, 3)
	h, _ = small.GetHighlights(context.Background())
	if len(h) != 1 {
		t.Fatalf("expected highlights capped at dataset size, got %d", len(h))
	}
}

func TestMockHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newDefaultMock().ListPrices(ctx, models.FilterCriteria{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestListPricesHugePageIsEmpty(t *testing.T) {
	p := newDefaultMock()
	for _, c := range []models.FilterCriteria{
		{Page: 1 << 62, Limit: 4},
		{Page: 1 << 62, Limit: 1 << 40},
	} {
		list, err := p.ListPrices(context.Background(), c)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list.Data) != 0 || list.Total != 5 {
			t.Fatalf("expected empty page with total 5, got %+v", list)
		}
	}
}
