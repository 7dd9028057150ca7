package kilimo

import "github.com/shopspring/decimal"

// PriceQuery holds the filters sent to /market-prices.
type PriceQuery struct {
	Product string
	Market  string
	County  string
	Page    int
	Limit   int
}

// MarketPrice is a price record as returned by the API.
type MarketPrice struct {
	Commodity      string          `json:"commodity"`
	Classification string          `json:"classification"`
	Grade          string          `json:"grade"`
	Sex            string          `json:"sex"`
	Market         string          `json:"market"`
	Wholesale      decimal.Decimal `json:"wholesale"`
	Retail         decimal.Decimal `json:"retail"`
	SupplyVolume   decimal.Decimal `json:"supplyVolume"`
	County         string          `json:"county"`
	Date           string          `json:"date"`
}

// MarketPricesResponse is the paginated /market-prices payload.
type MarketPricesResponse struct {
	Data  []MarketPrice `json:"data"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// NamesResponse wraps /commodities and /markets.
type NamesResponse struct {
	Data []string `json:"data"`
}

// HighlightsResponse wraps /market-highlights.
type HighlightsResponse struct {
	Data []MarketPrice `json:"data"`
}

// TopSelling is a ranked commodity as returned by /top-selling.
type TopSelling struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	County   string          `json:"county"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// TopSellingResponse wraps /top-selling.
type TopSellingResponse struct {
	Data []TopSelling `json:"data"`
}
