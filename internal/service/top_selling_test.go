package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/kilimo_api/internal/models"
)

func priceEntry(commodity, county string, wholesale, volume int64) models.MarketPriceEntry {
	return models.MarketPriceEntry{
		Commodity:    commodity,
		Market:       "Test",
		Wholesale:    decimal.NewFromInt(wholesale),
		Retail:       decimal.NewFromInt(wholesale + 10),
		SupplyVolume: decimal.NewFromInt(volume),
		County:       county,
		Date:         "2024-03-20",
	}
}

func TestRankTopSelling(t *testing.T) {
	entries := []models.MarketPriceEntry{
		priceEntry("Beans", "Nakuru", 100, 500),
		priceEntry("Potatoes", "Nakuru", 35, 4000),
		priceEntry("beans", "nakuru", 121, 700),
		priceEntry("Cabbage", "Nakuru", 20, 1200),
		priceEntry("Carrots", "Nakuru", 30, 1200),
		priceEntry("Rice", "Kirinyaga", 180, 9000),
	}

	items := RankTopSelling(entries, "Nakuru", 3)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []string{"Potatoes", "Beans", "Cabbage"}
	for i, name := range want {
		if items[i].Name != name {
			t.Fatalf("rank %d: got %s want %s", i, items[i].Name, name)
		}
		if items[i].County != "Nakuru" {
			t.Fatalf("item county %q does not match request", items[i].County)
		}
	}
	if !items[1].Quantity.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("beans volume not summed: %s", items[1].Quantity)
	}
	if !items[1].Price.Equal(decimal.RequireFromString("110.5")) {
		t.Fatalf("beans price not averaged: %s", items[1].Price)
	}
}

func TestRankTopSellingIDsStable(t *testing.T) {
	entries := []models.MarketPriceEntry{priceEntry("Potatoes", "Nakuru", 35, 4000)}
	a := RankTopSelling(entries, "Nakuru", 3)
	b := RankTopSelling(entries, "NAKURU", 3)
	if a[0].ID != b[0].ID || a[0].ID == "" {
		t.Fatalf("ids differ: %s vs %s", a[0].ID, b[0].ID)
	}
	if TopSellingID("Nakuru", "Potatoes") == TopSellingID("Nyeri", "Potatoes") {
		t.Fatalf("ids should differ across counties")
	}
}

func TestRankTopSellingEmpty(t *testing.T) {
	if items := RankTopSelling(DefaultDataset().Prices, "Nairobi", 3); len(items) != 0 || items == nil {
		t.Fatalf("expected empty non-nil result, got %+v", items)
	}
	if items := RankTopSelling(DefaultDataset().Prices, "", 3); len(items) != 0 {
		t.Fatalf("empty county should yield nothing")
	}
}
