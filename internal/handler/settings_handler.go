package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kilimo_api/internal/models"
	"github.com/GTDGit/kilimo_api/internal/service"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// SettingsHandler exposes the selected county.
type SettingsHandler struct {
	store *service.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store *service.SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetSettings handles GET /v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Settings retrieved", h.store.Get())
}

// UpdateSettings handles PUT /v1/settings
// An empty selectedCounty clears the selection.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.CountySettings
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if county := strings.TrimSpace(req.SelectedCounty); county != "" {
		canonical, ok := models.CanonicalCounty(county)
		if !ok {
			utils.Error(c, http.StatusBadRequest, "INVALID_COUNTY", "Unknown county: "+county)
			return
		}
		req.SelectedCounty = canonical
	} else {
		req.SelectedCounty = ""
	}

	if err := h.store.Set(c.Request.Context(), req); err != nil {
		if errors.Is(err, utils.ErrPersistence) {
			utils.ErrorWithDetails(c, http.StatusInternalServerError, "PERSISTENCE_FAILED",
				"Settings applied but could not be saved", h.store.Get())
			return
		}
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Settings saved successfully", h.store.Get())
}
