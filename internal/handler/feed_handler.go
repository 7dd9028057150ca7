package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kilimo_api/internal/feed"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// FeedHandler exposes the home and market-prices feeds.
type FeedHandler struct {
	home   *feed.HomeFeed
	prices *feed.PricesFeed
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(home *feed.HomeFeed, prices *feed.PricesFeed) *FeedHandler {
	return &FeedHandler{home: home, prices: prices}
}

// PageRequest is the body of PUT /v1/feeds/prices/page.
type PageRequest struct {
	Page int `json:"page" binding:"required"`
}

// GetHome handles GET /v1/feeds/home
func (h *FeedHandler) GetHome(c *gin.Context) {
	snap := h.home.Snapshot()
	message := "Home feed retrieved"
	if snap.State == feed.StateIdle && snap.Query == "" {
		message = "Please select a county in settings to view top selling products"
	}
	utils.Success(c, http.StatusOK, message, snap)
}

// GetPrices handles GET /v1/feeds/prices
func (h *FeedHandler) GetPrices(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Prices feed retrieved", h.prices.View())
}

// SetFilters handles PUT /v1/feeds/prices/filters
func (h *FeedHandler) SetFilters(c *gin.Context) {
	var req feed.Filters
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	snap, err := h.prices.SetFilters(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Filters applied", snap)
}

// SetPage handles PUT /v1/feeds/prices/page
func (h *FeedHandler) SetPage(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "page is required")
		return
	}
	snap, err := h.prices.SetPage(c.Request.Context(), req.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Page changed", snap)
}

// RetryHome handles POST /v1/feeds/home/retry
func (h *FeedHandler) RetryHome(c *gin.Context) {
	snap, err := h.home.Retry(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Home feed refreshed", snap)
}

// RetryPrices handles POST /v1/feeds/prices/retry
func (h *FeedHandler) RetryPrices(c *gin.Context) {
	if _, err := h.prices.Retry(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Prices feed refreshed", h.prices.View())
}
