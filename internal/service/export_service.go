package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// exportPageSize is the page size used to walk all pages during a CSV export.
const exportPageSize = 100

var exportHeader = []string{
	"commodity", "classification", "grade", "sex", "market",
	"wholesale_kes_per_kg", "retail_kes_per_kg", "supply_volume_kg", "county", "date",
}

// ExportService builds export locators and renders the export itself.
type ExportService struct {
	market  *MarketService
	baseURL string
}

// NewExportService constructs an ExportService. baseURL may be empty, in
// which case URL fails with utils.ErrExportURL.
func NewExportService(market *MarketService, baseURL string) *ExportService {
	return &ExportService{market: market, baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/")}
}

// URL returns <base>/export?<query> with every non-empty filter field
// percent-encoded. "No filter" sentinels are treated as empty.
func (s *ExportService) URL(criteria models.ExportCriteria) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("%w: export base URL is not configured", utils.ErrExportURL)
	}
	base, err := url.Parse(s.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("%w: invalid export base URL %q", utils.ErrExportURL, s.baseURL)
	}

	filter := criteria.Filter()
	params := url.Values{}
	setParam(params, "product", filter.ProductFilter())
	setParam(params, "market", filter.MarketFilter())
	setParam(params, "county", criteria.County)
	setParam(params, "startDate", criteria.StartDate)
	setParam(params, "endDate", criteria.EndDate)

	locator := s.baseURL + "/export"
	if q := params.Encode(); q != "" {
		locator += "?" + q
	}
	return locator, nil
}

// WriteCSV writes every entry matching the criteria as CSV and returns the
// number of data rows written. Product and market follow ListPrices
// semantics; the optional date range is inclusive.
func (s *ExportService) WriteCSV(ctx context.Context, criteria models.ExportCriteria, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("csv: write header: %w", err)
	}

	filter := criteria.Filter()
	filter.Limit = exportPageSize
	rows := 0
	for page := 1; ; page++ {
		filter.Page = page
		list, err := s.market.ListPrices(ctx, filter)
		if err != nil {
			return rows, err
		}
		for _, e := range list.Data {
			if !criteria.InDateRange(e.Date) {
				continue
			}
			if err := cw.Write(exportRow(e)); err != nil {
				return rows, fmt.Errorf("csv: write row: %w", err)
			}
			rows++
		}
		if len(list.Data) == 0 || page >= list.TotalPages() {
			break
		}
	}

	cw.Flush()
	return rows, cw.Error()
}

func exportRow(e models.MarketPriceEntry) []string {
	return []string{
		e.Commodity,
		e.Classification,
		e.Grade,
		e.Sex,
		e.Market,
		e.Wholesale.StringFixed(2),
		e.Retail.StringFixed(2),
		e.SupplyVolume.String(),
		e.County,
		e.Date,
	}
}

func setParam(v url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		v.Set(key, value)
	}
}
