package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/GTDGit/kilimo_api/internal/models"
)

// HomeFeedName identifies the home screen feed.
const HomeFeedName = "home"

// HomeSource is the part of the market service the home feed needs.
type HomeSource interface {
	GetTopSellingItems(ctx context.Context, county string) ([]models.TopSellingItem, error)
	GetHighlights(ctx context.Context) ([]models.MarketPriceEntry, error)
}

// HomeData is the payload of the home screen.
type HomeData struct {
	County     string                    `json:"county"`
	TopSelling []models.TopSellingItem   `json:"topSelling"`
	Highlights []models.MarketPriceEntry `json:"highlights"`
}

// HomeFeed is the view-model of the home screen. It does not fetch while no
// county is selected.
type HomeFeed struct {
	*Feed[string, *HomeData]
}

// NewHomeFeed constructs an idle home feed for county.
func NewHomeFeed(src HomeSource, county string) *HomeFeed {
	fetch := func(ctx context.Context, county string) (*HomeData, error) {
		return loadHome(ctx, src, county)
	}
	hasCounty := func(county string) bool { return county != "" }
	return &HomeFeed{Feed: New(HomeFeedName, strings.TrimSpace(county), fetch, WithGate[string, *HomeData](hasCounty))}
}

// SetCounty switches the feed to another county and refreshes immediately.
func (h *HomeFeed) SetCounty(ctx context.Context, county string) Snapshot[string, *HomeData] {
	return h.SetQuery(ctx, strings.TrimSpace(county))
}

// SelectCounty stages a county change; callers refresh when convenient.
func (h *HomeFeed) SelectCounty(county string) {
	h.Stage(strings.TrimSpace(county))
}

// loadHome fetches top-selling items and highlights concurrently; either
// failure fails the whole load.
func loadHome(ctx context.Context, src HomeSource, county string) (*HomeData, error) {
	var (
		wg         sync.WaitGroup
		top        []models.TopSellingItem
		highlights []models.MarketPriceEntry
		topErr     error
		hlErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		top, topErr = src.GetTopSellingItems(ctx, county)
	}()
	go func() {
		defer wg.Done()
		highlights, hlErr = src.GetHighlights(ctx)
	}()
	wg.Wait()

	if topErr != nil {
		return nil, topErr
	}
	if hlErr != nil {
		return nil, hlErr
	}
	if top == nil {
		top = []models.TopSellingItem{}
	}
	if highlights == nil {
		highlights = []models.MarketPriceEntry{}
	}
	return &HomeData{County: county, TopSelling: top, Highlights: highlights}, nil
}
