package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// PricesFeedName identifies the market prices feed.
const PricesFeedName = "prices"

// MaxVisiblePages is the width of the pagination window.
const MaxVisiblePages = 5

// PriceLister is the part of the market service the prices feed needs.
type PriceLister interface {
	ListPrices(ctx context.Context, criteria models.FilterCriteria) (*models.PriceList, error)
}

// Filters are the user-editable inputs of the prices feed. A zero Limit
// keeps the current page size.
type Filters struct {
	Product string `json:"product"`
	Market  string `json:"market"`
	County  string `json:"county"`
	Limit   int    `json:"limit"`
}

// PricesSnapshot is the state of the prices feed plus pagination helpers.
type PricesSnapshot struct {
	Snapshot[models.FilterCriteria, *models.PriceList]
	TotalPages int   `json:"totalPages"`
	Pages      []int `json:"pages"`
}

// PricesFeed is the view-model of the market prices table.
type PricesFeed struct {
	*Feed[models.FilterCriteria, *models.PriceList]
}

// NewPricesFeed constructs an idle prices feed.
func NewPricesFeed(src PriceLister, initial models.FilterCriteria) *PricesFeed {
	fetch := func(ctx context.Context, q models.FilterCriteria) (*models.PriceList, error) {
		return src.ListPrices(ctx, q)
	}
	return &PricesFeed{Feed: New(PricesFeedName, initial.Normalize(), fetch)}
}

// SetFilters applies new filters, resets to the first page and refreshes.
func (p *PricesFeed) SetFilters(ctx context.Context, f Filters) (PricesSnapshot, error) {
	if f.Limit < 0 {
		return PricesSnapshot{}, fmt.Errorf("%w: limit must be positive", utils.ErrInvalidCriteria)
	}
	snap := p.Update(ctx, func(q models.FilterCriteria) models.FilterCriteria {
		q.Product = strings.TrimSpace(f.Product)
		q.Market = strings.TrimSpace(f.Market)
		q.County = strings.TrimSpace(f.County)
		if f.Limit > 0 {
			q.Limit = f.Limit
		}
		q.Page = 1
		return q.Normalize()
	})
	return withPagination(snap), nil
}

// SetPage moves to another page and refreshes. Once a page has loaded,
// pages past the last one are rejected.
func (p *PricesFeed) SetPage(ctx context.Context, page int) (PricesSnapshot, error) {
	if page < 1 || page > models.MaxPage {
		return PricesSnapshot{}, fmt.Errorf("%w: page must be between 1 and %d", utils.ErrInvalidCriteria, models.MaxPage)
	}
	if last := p.Snapshot().Data; last != nil {
		if total := max(1, last.TotalPages()); page > total {
			return PricesSnapshot{}, fmt.Errorf("%w: page %d is past the last page %d", utils.ErrInvalidCriteria, page, total)
		}
	}
	snap := p.Update(ctx, func(q models.FilterCriteria) models.FilterCriteria {
		q.Page = page
		return q.Normalize()
	})
	return withPagination(snap), nil
}

// View returns the current snapshot with pagination helpers.
func (p *PricesFeed) View() PricesSnapshot {
	return withPagination(p.Snapshot())
}

func withPagination(snap Snapshot[models.FilterCriteria, *models.PriceList]) PricesSnapshot {
	out := PricesSnapshot{Snapshot: snap, Pages: []int{}}
	if snap.Data != nil {
		out.TotalPages = snap.Data.TotalPages()
		out.Pages = PageWindow(snap.Query.Page, out.TotalPages, MaxVisiblePages)
	}
	return out
}

// PageWindow returns up to maxVisible consecutive page numbers centred on
// current and clamped to [1, totalPages].
func PageWindow(current, totalPages, maxVisible int) []int {
	if totalPages <= 0 || maxVisible <= 0 {
		return []int{}
	}
	start := max(1, current-maxVisible/2)
	end := min(totalPages, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
