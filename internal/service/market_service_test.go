package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// failingProvider fails every call with err.
type failingProvider struct{ err error }

func (f failingProvider) Name() string { return "failing" }
func (f failingProvider) ListPrices(context.Context, models.FilterCriteria) (*models.PriceList, error) {
	return nil, f.err
}
func (f failingProvider) ListCommodities(context.Context) ([]string, error) { return nil, f.err }
func (f failingProvider) ListMarkets(context.Context) ([]string, error)     { return nil, f.err }
func (f failingProvider) GetHighlights(context.Context) ([]models.MarketPriceEntry, error) {
	return nil, f.err
}
func (f failingProvider) GetTopSellingItems(context.Context, string) ([]models.TopSellingItem, error) {
	return nil, f.err
}

func TestMarketServiceWrapsFetchErrors(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewMarketService(failingProvider{err: cause})
	ctx := context.Background()

	calls := map[string]func() error{
		"prices":      func() error { _, err := svc.ListPrices(ctx, models.FilterCriteria{}); return err },
		"commodities": func() error { _, err := svc.ListCommodities(ctx); return err },
		"markets":     func() error { _, err := svc.ListMarkets(ctx); return err },
		"highlights":  func() error { _, err := svc.GetHighlights(ctx); return err },
		"top":         func() error { _, err := svc.GetTopSellingItems(ctx, "Nakuru"); return err },
	}
	for name, call := range calls {
		err := call()
		if !errors.Is(err, utils.ErrFetch) || !errors.Is(err, cause) {
			t.Fatalf("%s: expected ErrFetch wrapping cause, got %v", name, err)
		}
	}
}

func TestMarketServiceRequiresCounty(t *testing.T) {
	svc := NewMarketService(newDefaultMock())
	if _, err := svc.GetTopSellingItems(context.Background(), "  "); !errors.Is(err, utils.ErrInvalidCounty) {
		t.Fatalf("expected ErrInvalidCounty, got %v", err)
	}
}

func TestMarketServiceTopSelling(t *testing.T) {
	svc := NewMarketService(newDefaultMock())
	items, err := svc.GetTopSellingItems(context.Background(), "Nakuru")
	if err != nil {
		t.Fatalf("top selling: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Potatoes" || items[0].County != "Nakuru" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestMarketServiceZeroResultsIsNotAnError(t *testing.T) {
	svc := NewMarketService(newDefaultMock())
	list, err := svc.ListPrices(context.Background(), models.FilterCriteria{Market: "Nowhere"})
	if err != nil {
		t.Fatalf("zero results reported as error: %v", err)
	}
	if list.Total != 0 || list.Data == nil {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestMarketServicePingWithoutPinger(t *testing.T) {
	if err := NewMarketService(newDefaultMock()).Ping(context.Background()); err != nil {
		t.Fatalf("mock provider ping: %v", err)
	}
}
