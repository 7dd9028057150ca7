package models

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel values the price screen sends when no product or market is picked.
const (
	NoProductFilter = "Select Product"
	NoMarketFilter  = "Select Market"
)

// Query defaults for the market prices listing.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// MarketPriceEntry is one observed price record for a commodity at a market.
// Wholesale and retail are KES per kilogram; SupplyVolume is in kilograms.
type MarketPriceEntry struct {
	Commodity      string          `db:"commodity" json:"commodity"`
	Classification string          `db:"classification" json:"classification"`
	Grade          string          `db:"grade" json:"grade"`
	Sex            string          `db:"sex" json:"sex"`
	Market         string          `db:"market" json:"market"`
	Wholesale      decimal.Decimal `db:"wholesale" json:"wholesale"`
	Retail         decimal.Decimal `db:"retail" json:"retail"`
	SupplyVolume   decimal.Decimal `db:"supply_volume" json:"supplyVolume"`
	County         string          `db:"county" json:"county"`
	Date           string          `db:"date" json:"date"`
}

// TopSellingItem is a ranked commodity for a county.
type TopSellingItem struct {
	ID       string          `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`
	County   string          `db:"county" json:"county"`
	ImageURL string          `db:"image_url" json:"imageUrl,omitempty"`
}

// FilterCriteria is the query behind a market prices listing.
// County is carried through to remote backends but never filtered on locally.
type FilterCriteria struct {
	Product string `json:"product,omitempty" form:"product"`
	Market  string `json:"market,omitempty" form:"market"`
	County  string `json:"county,omitempty" form:"county"`
	Page    int    `json:"page" form:"page"`
	Limit   int    `json:"limit" form:"limit"`
}

// Normalize returns a copy with page and limit defaults applied and the
// limit capped at MaxLimit.
func (f FilterCriteria) Normalize() FilterCriteria {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// ProductFilter returns the product to filter on, or "" when unset.
func (f FilterCriteria) ProductFilter() string {
	return activeFilter(f.Product, NoProductFilter)
}

// MarketFilter returns the market to filter on, or "" when unset.
func (f FilterCriteria) MarketFilter() string {
	return activeFilter(f.Market, NoMarketFilter)
}

// Offset is the index of the first entry on the requested page. It
// saturates at math.MaxInt instead of overflowing.
func (f FilterCriteria) Offset() int {
	n := f.Normalize()
	return PageOffset(n.Page, n.Limit)
}

// PageOffset returns (page-1)*limit for a 1-based page, saturating at
// math.MaxInt.
func PageOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func activeFilter(value, sentinel string) string {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, sentinel) {
		return ""
	}
	return v
}

// PriceList is one page of market prices plus the unpaginated match count.
type PriceList struct {
	Data  []MarketPriceEntry `json:"data"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// TotalPages returns ceil(total/limit).
func (p *PriceList) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// ExportCriteria holds the filter fields encoded into an export locator.
type ExportCriteria struct {
	Product   string `json:"product,omitempty" form:"product"`
	Market    string `json:"market,omitempty" form:"market"`
	County    string `json:"county,omitempty" form:"county"`
	StartDate string `json:"startDate,omitempty" form:"startDate"`
	EndDate   string `json:"endDate,omitempty" form:"endDate"`
}

// Filter converts the export fields into listing criteria.
func (e ExportCriteria) Filter() FilterCriteria {
	return FilterCriteria{Product: e.Product, Market: e.Market, County: e.County}
}

// InDateRange reports whether an ISO date (YYYY-MM-DD) falls inside the
// optional inclusive [StartDate, EndDate] range.
func (e ExportCriteria) InDateRange(date string) bool {
	if e.StartDate != "" && date < e.StartDate {
		return false
	}
	if e.EndDate != "" && date > e.EndDate {
		return false
	}
	return true
}
