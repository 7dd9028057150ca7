package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/service"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

const isoDate = "2006-01-02"

// MarketHandler serves market price queries and exports.
type MarketHandler struct {
	market   *service.MarketService
	export   *service.ExportService
	settings *service.SettingsStore
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(market *service.MarketService, export *service.ExportService, settings *service.SettingsStore) *MarketHandler {
	return &MarketHandler{market: market, export: export, settings: settings}
}

// ListPrices handles GET /v1/market-prices
func (h *MarketHandler) ListPrices(c *gin.Context) {
	var criteria models.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", "page and limit must be numbers")
		return
	}
	if criteria.Page < 0 || criteria.Limit < 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", "page and limit must be positive")
		return
	}
	if criteria.Page > models.MaxPage {
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", fmt.Sprintf("page must not exceed %d", models.MaxPage))
		return
	}

	list, err := h.market.ListPrices(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Market prices retrieved", list.Data, list.Page, list.Limit, list.Total)
}

// ListCommodities handles GET /v1/commodities
func (h *MarketHandler) ListCommodities(c *gin.Context) {
	names, err := h.market.ListCommodities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Commodities retrieved", names)
}

// ListMarkets handles GET /v1/markets
func (h *MarketHandler) ListMarkets(c *gin.Context) {
	names, err := h.market.ListMarkets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Markets retrieved", names)
}

// GetHighlights handles GET /v1/market-highlights
func (h *MarketHandler) GetHighlights(c *gin.Context) {
	entries, err := h.market.GetHighlights(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Market highlights retrieved", entries)
}

// GetTopSelling handles GET /v1/top-selling?county=
// Without a county parameter the selected county from settings is used.
func (h *MarketHandler) GetTopSelling(c *gin.Context) {
	county := c.Query("county")
	if county == "" {
		county = h.settings.Get().SelectedCounty
	}
	if county == "" {
		utils.Error(c, http.StatusBadRequest, "COUNTY_REQUIRED", "Please select a county in settings to view top selling products")
		return
	}

	items, err := h.market.GetTopSellingItems(c.Request.Context(), county)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Top selling items retrieved", gin.H{
		"county": county,
		"items":  items,
	})
}

// GetExportURL handles GET /v1/export-url
func (h *MarketHandler) GetExportURL(c *gin.Context) {
	criteria, ok := bindExportCriteria(c)
	if !ok {
		return
	}
	locator, err := h.export.URL(criteria)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build export URL")
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Export URL generated", gin.H{"url": locator})
}

// Export handles GET /v1/export and returns the matching prices as CSV.
func (h *MarketHandler) Export(c *gin.Context) {
	criteria, ok := bindExportCriteria(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	rows, err := h.export.WriteCSV(c.Request.Context(), criteria, &buf)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("market_prices_%s.csv", time.Now().In(utils.EAT).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Total-Rows", fmt.Sprintf("%d", rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())

	log.Info().
		Str("product", criteria.Product).
		Str("market", criteria.Market).
		Int("rows", rows).
		Msg("Market prices exported")
}

// ListCounties handles GET /v1/counties
func (h *MarketHandler) ListCounties(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Counties retrieved", models.Counties)
}

func bindExportCriteria(c *gin.Context) (models.ExportCriteria, bool) {
	var criteria models.ExportCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", "Invalid export parameters")
		return criteria, false
	}
	for _, d := range []string{criteria.StartDate, criteria.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(isoDate, d); err != nil {
			utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", "Dates must use the YYYY-MM-DD format")
			return criteria, false
		}
	}
	if criteria.StartDate != "" && criteria.EndDate != "" && criteria.StartDate > criteria.EndDate {
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", "startDate must not be after endDate")
		return criteria, false
	}
	return criteria, true
}
